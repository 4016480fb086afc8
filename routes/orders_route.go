package routes

import (
	"github.com/gofiber/fiber/v2"

	orderController "github.com/Sheshri07/Sheshri/controllers/orders"
	paymentController "github.com/Sheshri07/Sheshri/controllers/payments"
	"github.com/Sheshri07/Sheshri/middlewares"
)

func OrderRoutes(app *fiber.App) {
	app.Post("/api/orders", middlewares.AuthMiddleware, orderController.CreateOrder)
	app.Get("/api/orders/mine", middlewares.AuthMiddleware, orderController.GetMyOrders)
	app.Get("/api/orders/all", middlewares.AuthMiddleware, middlewares.AdminOnly, orderController.GetAllOrders)
	app.Get("/api/orders/returns/all", middlewares.AuthMiddleware, middlewares.AdminOnly, orderController.GetAllReturns)
	app.Put("/api/orders/bulk-update", middlewares.AuthMiddleware, middlewares.AdminOnly, orderController.BulkUpdateOrders)

	app.Get("/api/orders/:id", middlewares.AuthMiddleware, orderController.GetOrderById)
	app.Put("/api/orders/:id/pay", middlewares.AuthMiddleware, paymentController.PayOrder)
	app.Put("/api/orders/:id/deliver", middlewares.AuthMiddleware, middlewares.AdminOnly, orderController.DeliverOrder)
	app.Put("/api/orders/:id/cancel", middlewares.AuthMiddleware, orderController.CancelOrder)
	app.Put("/api/orders/:id/abandon", middlewares.AuthMiddleware, orderController.AbandonOrder)
	app.Put("/api/orders/:id/request-return", middlewares.AuthMiddleware, orderController.RequestReturn)
	app.Put("/api/orders/:id/return", middlewares.AuthMiddleware, middlewares.AdminOnly, orderController.UpdateReturnStatus)
}
