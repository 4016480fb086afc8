package routes

import (
	"github.com/gofiber/fiber/v2"

	notificationController "github.com/Sheshri07/Sheshri/controllers/notifications"
	"github.com/Sheshri07/Sheshri/middlewares"
)

func NotificationRoutes(app *fiber.App) {
	app.Get("/api/notifications", middlewares.AuthMiddleware, notificationController.GetMyNotifications)
	app.Put("/api/notifications/read-all", middlewares.AuthMiddleware, notificationController.MarkAllNotificationsRead)
	app.Put("/api/notifications/:id/read", middlewares.AuthMiddleware, notificationController.MarkNotificationRead)
}
