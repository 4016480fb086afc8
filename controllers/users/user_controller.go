package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sheshri07/Sheshri/configs"
	"github.com/Sheshri07/Sheshri/models"
	"github.com/Sheshri07/Sheshri/responses"
)

var userCollection *mongo.Collection = configs.GetCollection(configs.DB, "users")

var validate = validator.New()

type SignUpRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,min=8"`
}

func UserSignUp(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody SignUpRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
		})
	}
	if err := validate.Struct(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}
	if reqBody.Password != reqBody.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Passwords do not match",
		})
	}

	var existingUser models.User
	err := userCollection.FindOne(ctx, bson.M{"email": reqBody.Email}).Decode(&existingUser)
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "User with this email already exists",
		})
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error checking existing user",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqBody.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error hashing password",
		})
	}

	user := models.User{
		Id:       primitive.NewObjectID(),
		Name:     reqBody.Name,
		Email:    reqBody.Email,
		Password: string(hashedPassword),
		Type:     models.UserTypeCustomer,
	}

	if _, err := userCollection.InsertOne(ctx, user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error creating user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(responses.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "User created successfully",
		Result:  &fiber.Map{"id": user.Id.Hex(), "name": user.Name, "email": user.Email},
	})
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func UserSignIn(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody SignInRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
		})
	}
	if err := validate.Struct(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": reqBody.Email}).Decode(&user)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqBody.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	claims := jwt.MapClaims{
		"id":   user.Id.Hex(),
		"type": user.Type,
		"exp":  time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(configs.EnvJWTSecret()))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error generating token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Signed in successfully",
		Result: &fiber.Map{
			"token": tokenString,
			"user": fiber.Map{
				"id":    user.Id.Hex(),
				"name":  user.Name,
				"email": user.Email,
				"type":  user.Type,
			},
		},
	})
}

func GetMe(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
		})
	}
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user ID format",
		})
	}

	var user models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": userObjectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching user",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "User fetched successfully",
		Result:  &fiber.Map{"user": user},
	})
}

// UpdateNotificationPreferences stores per-channel opt-outs. Absent flags
// stay absent, which keeps the channel enabled by default.
func UpdateNotificationPreferences(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
		})
	}
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user ID format",
		})
	}

	var prefs models.NotificationPreferences
	if err := c.BodyParser(&prefs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
		})
	}

	result, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": userObjectID},
		bson.M{"$set": bson.M{"notificationPreferences": prefs}})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating preferences",
		})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Preferences updated successfully",
		Result:  &fiber.Map{"notificationPreferences": prefs},
	})
}
