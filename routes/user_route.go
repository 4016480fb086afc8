package routes

import (
	"github.com/gofiber/fiber/v2"

	userController "github.com/Sheshri07/Sheshri/controllers/users"
	"github.com/Sheshri07/Sheshri/middlewares"
)

func UserRoute(app *fiber.App) {
	app.Post("/api/users/signup", userController.UserSignUp)
	app.Post("/api/users/signin", userController.UserSignIn)
	app.Get("/api/users/me", middlewares.AuthMiddleware, userController.GetMe)
	app.Put("/api/users/notification-preferences", middlewares.AuthMiddleware, userController.UpdateNotificationPreferences)
}
