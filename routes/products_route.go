package routes

import (
	"github.com/gofiber/fiber/v2"

	productController "github.com/Sheshri07/Sheshri/controllers/products"
	"github.com/Sheshri07/Sheshri/middlewares"
)

func ProductsRoute(app *fiber.App) {
	app.Get("/api/products", productController.GetAllProducts)
	app.Put("/api/products/stock", middlewares.AuthMiddleware, middlewares.AdminOnly, productController.SetStockFlag)
	app.Get("/api/products/:id", productController.GetProductById)
	app.Post("/api/products", middlewares.AuthMiddleware, middlewares.AdminOnly, productController.AddProduct)
	app.Post("/api/products/:id/add-ons", middlewares.AuthMiddleware, middlewares.AdminOnly, productController.AddAddOnItem)
}
