package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sheshri07/Sheshri/models"
	"github.com/Sheshri07/Sheshri/responses"
)

// Admin-only handlers; routes guard them with the AdminOnly middleware.

func GetAllOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}
	skip := (page - 1) * limit

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["trackingStatus"] = status
	}

	totalOrders, err := orderCollection.CountDocuments(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count orders",
		})
	}

	cursor, err := orderCollection.Find(ctx, filter, options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch orders",
		})
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode orders",
		})
	}

	totalPages := (totalOrders + limit - 1) / limit

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Orders fetched successfully",
		Result: &fiber.Map{
			"orders":      orders,
			"currentPage": page,
			"totalPages":  totalPages,
			"totalOrders": totalOrders,
		},
	})
}

// DeliverOrder marks an order delivered and stamps the delivery time the
// return window is measured from.
func DeliverOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	order, jsonErr := findOrder(ctx, c, c.Params("id"))
	if order == nil {
		return jsonErr
	}

	switch order.TrackingStatus {
	case models.TrackingCancelled, models.TrackingReturned, models.TrackingDelivered:
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Order cannot be delivered once " + string(order.TrackingStatus),
		})
	}

	now := time.Now()
	_, err := orderCollection.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
		"$set": bson.M{
			"isDelivered":    true,
			"deliveredAt":    now,
			"trackingStatus": models.TrackingDelivered,
			"updatedAt":      now,
		},
		"$push": bson.M{"trackingHistory": models.TrackingEvent{
			Status:    models.TrackingDelivered,
			Message:   "Order delivered",
			UpdatedBy: models.UserTypeAdmin,
			Timestamp: now,
		}},
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update order",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Order marked as delivered",
		Result:  &fiber.Map{"orderId": order.ID.Hex()},
	})
}

type UpdateReturnRequest struct {
	ReturnStatus string `json:"returnStatus" validate:"required"`
	AdminNote    string `json:"adminNote"`
}

// UpdateReturnStatus moves the return workflow; completing a return also
// forces the tracking status to returned.
func UpdateReturnStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var returnReq UpdateReturnRequest
	if err := c.BodyParser(&returnReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	returnStatus, err := models.ParseReturnStatus(returnReq.ReturnStatus)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	order, jsonErr := findOrder(ctx, c, c.Params("id"))
	if order == nil {
		return jsonErr
	}

	now := time.Now()
	set := bson.M{
		"returnStatus":    returnStatus,
		"returnAdminNote": returnReq.AdminNote,
		"updatedAt":       now,
	}
	update := bson.M{"$set": set}
	if returnStatus == models.ReturnCompleted {
		set["trackingStatus"] = models.TrackingReturned
		update["$push"] = bson.M{"trackingHistory": models.TrackingEvent{
			Status:    models.TrackingReturned,
			Message:   "Return completed",
			UpdatedBy: models.UserTypeAdmin,
			Timestamp: now,
		}}
	}

	if _, err := orderCollection.UpdateOne(ctx, bson.M{"_id": order.ID}, update); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update return status",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Return status updated",
		Result: &fiber.Map{
			"orderId":      order.ID.Hex(),
			"returnStatus": returnStatus,
		},
	})
}

type BulkUpdateRequest struct {
	OrderIDs []string `json:"orderIds" validate:"required,min=1"`
	Status   string   `json:"status" validate:"required"`
}

// BulkUpdateOrders applies one target status to all listed orders in a single
// pass. Unrecognized statuses apply an empty update and report zero modified.
func BulkUpdateOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var bulkReq BulkUpdateRequest
	if err := c.BodyParser(&bulkReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(&bulkReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	orderIDs := make([]primitive.ObjectID, 0, len(bulkReq.OrderIDs))
	for _, id := range bulkReq.OrderIDs {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid order ID format: " + id,
			})
		}
		orderIDs = append(orderIDs, objectID)
	}

	update := models.BulkStatusUpdate(bulkReq.Status, time.Now())
	if update == nil {
		return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "No orders updated",
			Result:  &fiber.Map{"modifiedCount": 0},
		})
	}

	result, err := orderCollection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": orderIDs}}, update)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update orders",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Orders updated successfully",
		Result:  &fiber.Map{"modifiedCount": result.ModifiedCount},
	})
}

func GetAllReturns(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	cursor, err := orderCollection.Find(ctx,
		bson.M{"returnStatus": bson.M{"$nin": bson.A{models.ReturnNone, "", nil}}},
		options.Find().SetSort(bson.M{"updatedAt": -1}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch returns",
		})
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode returns",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Returns fetched successfully",
		Result:  &fiber.Map{"returns": orders, "total": len(orders)},
	})
}
