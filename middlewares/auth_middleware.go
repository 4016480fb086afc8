package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/Sheshri07/Sheshri/configs"
	"github.com/Sheshri07/Sheshri/models"
	"github.com/Sheshri07/Sheshri/responses"
)

// AuthMiddleware validates the bearer token and stores the authenticated
// principal (userId, userType) in Locals for the handlers.
func AuthMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "No auth token, access denied",
		})
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid authorization header format",
		})
	}

	claims := &jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(bearerToken[1], claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.EnvJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Token verification failed, access denied",
		})
	}

	userId, ok := (*claims)["id"].(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
		})
	}

	userType, _ := (*claims)["type"].(string)
	if userType == "" {
		userType = models.UserTypeCustomer
	}

	c.Locals("userId", userId)
	c.Locals("userType", userType)

	return c.Next()
}

// AdminOnly rejects principals without the admin role. Must run after
// AuthMiddleware.
func AdminOnly(c *fiber.Ctx) error {
	if userType, _ := c.Locals("userType").(string); userType != models.UserTypeAdmin {
		return c.Status(fiber.StatusForbidden).JSON(responses.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Admin access required",
		})
	}
	return c.Next()
}
