package main

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Sheshri07/Sheshri/configs"
	"github.com/Sheshri07/Sheshri/responses"
	"github.com/Sheshri07/Sheshri/routes"
	"github.com/Sheshri07/Sheshri/services/notifier"
)

func main() {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	dispatcher := notifier.NewDispatcher(
		configs.GetCollection(configs.DB, "notifications"),
		configs.GetCollection(configs.DB, "users"),
		configs.Logger,
	)
	notifier.Init(dispatcher)

	routes.UserRoute(app)
	routes.ProductsRoute(app)
	routes.OrderRoutes(app)
	routes.PaymentRoutes(app)
	routes.NotificationRoutes(app)

	if err := app.Listen(":" + configs.EnvPort()); err != nil {
		configs.Logger.Fatal("server stopped", zap.Error(err))
	}
}

// errorHandler surfaces fiber errors with their status and hides everything
// else behind a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(responses.ApiResponse{
			Status:  fiberErr.Code,
			Message: fiberErr.Message,
		})
	}

	configs.Logger.Error("unhandled request error",
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
	})
}
