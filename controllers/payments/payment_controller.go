package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Sheshri07/Sheshri/configs"
	"github.com/Sheshri07/Sheshri/models"
	"github.com/Sheshri07/Sheshri/responses"
	"github.com/Sheshri07/Sheshri/services/notifier"
	"github.com/Sheshri07/Sheshri/services/payment"
)

var orderCollection *mongo.Collection = configs.GetCollection(configs.DB, "orders")

// provider is the live Razorpay client when credentials are configured and
// the in-process mock otherwise.
var provider payment.Provider = payment.NewProvider(
	configs.EnvRazorpayKeyId(),
	configs.EnvRazorpayKeySecret(),
)

var validate = validator.New()

func requestUser(c *fiber.Ctx) (primitive.ObjectID, bool, error) {
	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return primitive.NilObjectID, false, errors.New("user ID not found in token")
	}
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return primitive.NilObjectID, false, errors.New("invalid user ID format")
	}
	userType, _ := c.Locals("userType").(string)
	return userObjectID, userType == models.UserTypeAdmin, nil
}

func loadOrder(ctx context.Context, orderID string) (*models.Order, error) {
	orderObjectID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := orderCollection.FindOne(ctx, bson.M{"_id": orderObjectID}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// markOrderPaid applies the paid transition exactly once. newTracking is
// empty for the client-confirmed path, which only appends a history entry.
func markOrderPaid(ctx context.Context, order *models.Order, result models.PaymentResult, newTracking models.TrackingStatus, historyMsg string) error {
	now := time.Now()

	historyStatus := order.TrackingStatus
	set := bson.M{
		"isPaid":        true,
		"paidAt":        now,
		"paymentResult": result,
		"updatedAt":     now,
	}
	if newTracking != "" {
		set["trackingStatus"] = newTracking
		historyStatus = newTracking
	}

	_, err := orderCollection.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
		"$set": set,
		"$push": bson.M{"trackingHistory": models.TrackingEvent{
			Status:    historyStatus,
			Message:   historyMsg,
			UpdatedBy: "system",
			Timestamp: now,
		}},
	})
	return err
}

type CreatePaymentOrderRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// CreatePaymentOrder creates the provider payment intent for an existing
// unpaid order. The backend order id travels in the intent's notes so the
// webhook can find its way back.
func CreatePaymentOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, _, err := requestUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	var paymentReq CreatePaymentOrderRequest
	if err := c.BodyParser(&paymentReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(&paymentReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Order ID is required",
		})
	}

	order, err := loadOrder(ctx, paymentReq.OrderID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Order not found",
		})
	}
	if order.UserID != userObjectID {
		return c.Status(fiber.StatusForbidden).JSON(responses.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You do not have access to this order",
		})
	}
	if order.IsPaid {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Order is already paid",
		})
	}

	providerOrder, err := provider.CreateOrder(payment.AmountPaise(order.TotalPrice), "INR",
		"receipt_"+order.ID.Hex(),
		map[string]interface{}{"orderId": order.ID.Hex()})
	if err != nil {
		configs.Logger.Error("payment order creation failed",
			zap.String("orderId", order.ID.Hex()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create payment order",
		})
	}

	_, err = orderCollection.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
		"$set": bson.M{"razorpayOrderId": providerOrder.ID, "updatedAt": time.Now()},
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to link payment order",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment order created",
		Result: &fiber.Map{
			"orderId":         order.ID.Hex(),
			"razorpayOrderId": providerOrder.ID,
			"amount":          providerOrder.Amount,
			"currency":        providerOrder.Currency,
			"keyId":           provider.KeyID(),
		},
	})
}

type VerifyPaymentRequest struct {
	OrderID           string `json:"orderId"`
	RazorpayOrderID   string `json:"razorpayOrderId" validate:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" validate:"required"`
	RazorpaySignature string `json:"razorpaySignature" validate:"required"`
}

// VerifyPayment is the client-confirmed reconciliation entry point.
func VerifyPayment(c *fiber.Ctx) error {
	var verifyReq VerifyPaymentRequest
	if err := c.BodyParser(&verifyReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if verifyReq.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Order ID is required",
		})
	}
	return verifyAndReconcile(c, verifyReq.OrderID, verifyReq)
}

// PayOrder runs the same client-confirmed reconciliation with the order
// resolved from the path.
func PayOrder(c *fiber.Ctx) error {
	var verifyReq VerifyPaymentRequest
	if err := c.BodyParser(&verifyReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	return verifyAndReconcile(c, c.Params("id"), verifyReq)
}

func verifyAndReconcile(c *fiber.Ctx, orderID string, verifyReq VerifyPaymentRequest) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, isAdmin, err := requestUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	}
	if err := validate.Struct(&verifyReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	order, err := loadOrder(ctx, orderID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Order not found",
		})
	}
	if !isAdmin && order.UserID != userObjectID {
		return c.Status(fiber.StatusForbidden).JSON(responses.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You do not have access to this order",
		})
	}

	// Duplicate confirmations for an already-paid order are a success, not
	// a replay of the side effects.
	if order.IsPaid {
		return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Order is already paid",
			Result:  &fiber.Map{"orderId": order.ID.Hex()},
		})
	}

	// A valid signature for some other intent must not settle this order.
	if !payment.MatchesOrder(order.RazorpayOrderID, verifyReq.RazorpayOrderID) {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Payment does not belong to this order",
		})
	}

	if !provider.VerifySignature(verifyReq.RazorpayOrderID, verifyReq.RazorpayPaymentID, verifyReq.RazorpaySignature) {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid payment signature",
		})
	}

	result := models.PaymentResult{
		ID:         verifyReq.RazorpayPaymentID,
		Status:     "captured",
		UpdateTime: time.Now().Format(time.RFC3339),
	}
	if err := markOrderPaid(ctx, order, result, "", "Payment received"); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update order",
		})
	}

	// Deferred order-placed notifications fire now that the money arrived.
	order.IsPaid = true
	order.PaymentResult = &result
	notifier.OrderPlaced(*order)
	notifier.PaymentSuccess(*order)

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment verified successfully",
		Result: &fiber.Map{
			"orderId":   order.ID.Hex(),
			"paymentId": verifyReq.RazorpayPaymentID,
		},
	})
}

type PaymentFailureRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Reason  string `json:"reason"`
}

// PaymentFailure records a failed checkout attempt. The order stays unpaid
// and can be retried or abandoned.
func PaymentFailure(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, _, err := requestUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	var failureReq PaymentFailureRequest
	if err := c.BodyParser(&failureReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(&failureReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Order ID is required",
		})
	}

	order, err := loadOrder(ctx, failureReq.OrderID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Order not found",
		})
	}
	if order.UserID != userObjectID {
		return c.Status(fiber.StatusForbidden).JSON(responses.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You do not have access to this order",
		})
	}

	configs.Logger.Info("payment failure reported",
		zap.String("orderId", order.ID.Hex()),
		zap.String("reason", failureReq.Reason))

	if !order.IsPaid {
		_, err = orderCollection.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
			"$set": bson.M{
				"paymentResult": models.PaymentResult{
					Status:     "failed",
					UpdateTime: time.Now().Format(time.RFC3339),
				},
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to record payment failure",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment failure recorded",
		Result:  &fiber.Map{"orderId": order.ID.Hex()},
	})
}

// PaymentStatus reports the payment side of an order.
func PaymentStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, isAdmin, err := requestUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	order, err := loadOrder(ctx, c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Order not found",
		})
	}
	if !isAdmin && order.UserID != userObjectID {
		return c.Status(fiber.StatusForbidden).JSON(responses.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You do not have access to this order",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment status fetched",
		Result: &fiber.Map{
			"orderId":         order.ID.Hex(),
			"isPaid":          order.IsPaid,
			"paidAt":          order.PaidAt,
			"paymentResult":   order.PaymentResult,
			"razorpayOrderId": order.RazorpayOrderID,
		},
	})
}
