package routes

import (
	"github.com/gofiber/fiber/v2"

	paymentController "github.com/Sheshri07/Sheshri/controllers/payments"
	"github.com/Sheshri07/Sheshri/middlewares"
)

func PaymentRoutes(app *fiber.App) {
	app.Post("/api/payment/order", middlewares.AuthMiddleware, paymentController.CreatePaymentOrder)
	app.Post("/api/payment/verify", middlewares.AuthMiddleware, paymentController.VerifyPayment)
	app.Post("/api/payment/failure", middlewares.AuthMiddleware, paymentController.PaymentFailure)
	app.Get("/api/payment/status/:orderId", middlewares.AuthMiddleware, paymentController.PaymentStatus)

	// The provider authenticates with its HMAC signature, not a user token.
	app.Post("/api/payment/webhook", paymentController.Webhook)
}
