package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sheshri07/Sheshri/configs"
	"github.com/Sheshri07/Sheshri/models"
	"github.com/Sheshri07/Sheshri/responses"
)

var notificationCollection *mongo.Collection = configs.GetCollection(configs.DB, "notifications")

func currentUser(c *fiber.Ctx) (primitive.ObjectID, bool) {
	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return primitive.NilObjectID, false
	}
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return userObjectID, true
}

func GetMyNotifications(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
		})
	}

	cursor, err := notificationCollection.Find(ctx,
		bson.M{"userId": userObjectID},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch notifications",
		})
	}

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode notifications",
		})
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Notifications fetched successfully",
		Result:  &fiber.Map{"notifications": notifications, "unread": unread},
	})
}

func MarkNotificationRead(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
		})
	}

	notificationObjectID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid notification ID format",
		})
	}

	result, err := notificationCollection.UpdateOne(ctx,
		bson.M{"_id": notificationObjectID, "userId": userObjectID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update notification",
		})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Notification not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Notification marked as read",
	})
}

func MarkAllNotificationsRead(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
		})
	}

	result, err := notificationCollection.UpdateMany(ctx,
		bson.M{"userId": userObjectID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update notifications",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "All notifications marked as read",
		Result:  &fiber.Map{"modifiedCount": result.ModifiedCount},
	})
}
