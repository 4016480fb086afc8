package responses

import "github.com/gofiber/fiber/v2"

// ApiResponse is the JSON envelope returned by every endpoint.
type ApiResponse struct {
	Status  int        `json:"status"`
	Message string     `json:"message"`
	Result  *fiber.Map `json:"result"`
}
