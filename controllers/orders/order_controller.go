package controllers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Sheshri07/Sheshri/configs"
	"github.com/Sheshri07/Sheshri/models"
	"github.com/Sheshri07/Sheshri/responses"
	"github.com/Sheshri07/Sheshri/services/notifier"
	"github.com/Sheshri07/Sheshri/services/stock"
)

var orderCollection *mongo.Collection = configs.GetCollection(configs.DB, "orders")
var productCollection *mongo.Collection = configs.GetCollection(configs.DB, "products")

var ledger = stock.NewLedger(productCollection)
var validate = validator.New()

// LowStockThreshold is the remaining-units level that triggers admin alerts.
const LowStockThreshold = 5

// requestUser extracts the authenticated principal placed by the middleware.
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

func findOrder(ctx context.Context, c *fiber.Ctx, orderID string) (*models.Order, error) {
	orderObjectID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid order ID format",
		})
	}

	var order models.Order
	err = orderCollection.FindOne(ctx, bson.M{"_id": orderObjectID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Order not found",
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch order",
		})
	}
	return &order, nil
}

type CreateOrderItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	OrderItems      []CreateOrderItem      `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
	TaxPrice        float64                `json:"taxPrice" validate:"min=0"`
	ShippingPrice   float64                `json:"shippingPrice" validate:"min=0"`
}

// CreateOrder validates stock for every line item before anything is written.
// Any shortfall aborts the whole order with no partial creation and no stock
// mutation. Order-placed notifications fire immediately for COD and are
// deferred until payment confirmation for online orders.
func CreateOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, _, err := requestUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	var orderReq CreateOrderRequest
	if err := c.BodyParser(&orderReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(&orderReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	paymentMethod, err := models.ParsePaymentMethod(orderReq.PaymentMethod)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	// Check every line item up front so a shortfall on the last item cannot
	// leave earlier decrements behind. CheckLines sums quantities per item,
	// so two lines for the same product are judged against their total.
	lines := make([]stock.Line, 0, len(orderReq.OrderItems))
	for _, item := range orderReq.OrderItems {
		itemObjectID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid product ID format: " + item.ProductID,
			})
		}
		lines = append(lines, stock.Line{ItemID: itemObjectID, Quantity: item.Quantity})
	}

	snapshots, err := ledger.CheckLines(ctx, lines)
	if err != nil {
		var lineErr *stock.LineCheckError
		switch {
		case errors.As(err, &lineErr) && errors.Is(err, stock.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Product not found: " + lineErr.ItemID.Hex(),
			})
		case errors.As(err, &lineErr) && errors.Is(err, stock.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Insufficient stock for " + lineErr.Name,
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to check product availability",
			})
		}
	}

	var orderItems []models.OrderItem
	var itemsPrice float64
	for _, snap := range snapshots {
		orderItems = append(orderItems, models.OrderItem{
			ProductID: snap.ItemID,
			Name:      snap.Name,
			Image:     snap.Image,
			Price:     snap.Price,
			Quantity:  snap.Quantity,
		})
		itemsPrice += snap.Price * float64(snap.Quantity)
	}

	now := time.Now()
	order := models.Order{
		ID:              primitive.NewObjectID(),
		UserID:          userObjectID,
		OrderItems:      orderItems,
		ShippingAddress: orderReq.ShippingAddress,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      itemsPrice,
		TaxPrice:        orderReq.TaxPrice,
		ShippingPrice:   orderReq.ShippingPrice,
		TotalPrice:      itemsPrice + orderReq.TaxPrice + orderReq.ShippingPrice,
		TrackingStatus:  models.TrackingPending,
		TrackingHistory: []models.TrackingEvent{{
			Status:    models.TrackingPending,
			Message:   "Order placed",
			UpdatedBy: "system",
			Timestamp: now,
		}},
		ReturnStatus: models.ReturnNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := orderCollection.InsertOne(ctx, order); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create order",
		})
	}

	// The decrement itself is conditional and atomic per item, so a
	// concurrent order can shrink the race to the check above but never
	// drive the count negative.
	for _, item := range orderItems {
		remaining, err := ledger.Reserve(ctx, item.ProductID, item.Quantity)
		if err != nil {
			configs.Logger.Warn("stock reserve failed after order creation",
				zap.String("orderId", order.ID.Hex()),
				zap.String("productId", item.ProductID.Hex()),
				zap.Error(err))
			continue
		}
		if remaining <= LowStockThreshold {
			notifier.LowStock(item.Name, item.ProductID, remaining)
		}
	}

	if !paymentMethod.IsOnline() {
		notifier.OrderPlaced(order)
	}

	return c.Status(fiber.StatusCreated).JSON(responses.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Order created successfully",
		Result:  &fiber.Map{"order": order},
	})
}

func GetMyOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, _, err := requestUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}
	skip := (page - 1) * limit

	filter := bson.M{"userId": userObjectID}
	totalOrders, err := orderCollection.CountDocuments(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count orders",
		})
	}

	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := orderCollection.Find(ctx, filter, findOptions)
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

func GetOrderById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, isAdmin, err := requestUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	order, jsonErr := findOrder(ctx, c, c.Params("id"))
	if order == nil {
		return jsonErr
	}
	if !isAdmin && order.UserID != userObjectID {
		return c.Status(fiber.StatusForbidden).JSON(responses.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You do not have access to this order",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Order fetched successfully",
		Result:  &fiber.Map{"order": order},
	})
}

// CancelOrder is allowed for the owner or an admin while the order has not
// been shipped, delivered or already cancelled. Stock is restored for every
// line item; paid orders get a refund_pending bookkeeping flag.
func CancelOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, isAdmin, err := requestUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	order, jsonErr := findOrder(ctx, c, c.Params("id"))
	if order == nil {
		return jsonErr
	}
	if !isAdmin && order.UserID != userObjectID {
		return c.Status(fiber.StatusForbidden).JSON(responses.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You do not have access to this order",
		})
	}
	if !order.TrackingStatus.CanCancel() {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Order cannot be cancelled once " + string(order.TrackingStatus),
		})
	}

	for _, item := range order.OrderItems {
		if err := ledger.Restore(ctx, item.ProductID, item.Quantity); err != nil {
			configs.Logger.Warn("stock restore failed during cancellation",
				zap.String("orderId", order.ID.Hex()),
				zap.String("productId", item.ProductID.Hex()),
				zap.Error(err))
		}
	}

	now := time.Now()
	updatedBy := models.UserTypeCustomer
	if isAdmin {
		updatedBy = models.UserTypeAdmin
	}

	events := []models.TrackingEvent{{
		Status:    models.TrackingCancelled,
		Message:   "Order cancelled",
		UpdatedBy: updatedBy,
		Timestamp: now,
	}}
	set := bson.M{
		"trackingStatus": models.TrackingCancelled,
		"updatedAt":      now,
	}
	if order.IsPaid {
		// Bookkeeping flag only; actual refunds are settled out of band.
		set["paymentResult.status"] = "refund_pending"
		events = append(events, models.TrackingEvent{
			Status:    models.TrackingCancelled,
			Message:   "Refund initiated for paid order",
			UpdatedBy: updatedBy,
			Timestamp: now,
		})
	}

	_, err = orderCollection.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
		"$set":  set,
		"$push": bson.M{"trackingHistory": bson.M{"$each": events}},
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to cancel order",
		})
	}

	order.TrackingStatus = models.TrackingCancelled
	notifier.OrderCancelled(*order)

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Order cancelled successfully",
		Result:  &fiber.Map{"orderId": order.ID.Hex()},
	})
}

// AbandonOrder restores stock and hard-deletes the order record. It exists
// for online-payment orders that were created provisionally and never paid;
// unlike cancellation no cancelled record is retained.
func AbandonOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, isAdmin, err := requestUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	order, jsonErr := findOrder(ctx, c, c.Params("id"))
	if order == nil {
		return jsonErr
	}
	if !isAdmin && order.UserID != userObjectID {
		return c.Status(fiber.StatusForbidden).JSON(responses.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You do not have access to this order",
		})
	}
	if order.IsPaid {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Paid orders cannot be abandoned, cancel instead",
		})
	}

	for _, item := range order.OrderItems {
		if err := ledger.Restore(ctx, item.ProductID, item.Quantity); err != nil {
			configs.Logger.Warn("stock restore failed during abandonment",
				zap.String("orderId", order.ID.Hex()),
				zap.String("productId", item.ProductID.Hex()),
				zap.Error(err))
		}
	}

	if _, err := orderCollection.DeleteOne(ctx, bson.M{"_id": order.ID}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to abandon order",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Order abandoned",
		Result:  &fiber.Map{"orderId": order.ID.Hex()},
	})
}

type ReturnRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// RequestReturn is owner-only, delivered-only, and limited to seven days
// after delivery (inclusive). A pending return blocks a second request.
func RequestReturn(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, _, err := requestUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	var returnReq ReturnRequest
	if err := c.BodyParser(&returnReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(&returnReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Return reason is required",
		})
	}

	order, jsonErr := findOrder(ctx, c, c.Params("id"))
	if order == nil {
		return jsonErr
	}
	if order.UserID != userObjectID {
		return c.Status(fiber.StatusForbidden).JSON(responses.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You do not have access to this order",
		})
	}
	if order.TrackingStatus != models.TrackingDelivered {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Only delivered orders can be returned",
		})
	}
	if !order.ReturnWindowOpen(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Return window of 7 days has expired",
		})
	}
	if order.ReturnStatus != "" && order.ReturnStatus != models.ReturnNone {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "A return has already been requested for this order",
		})
	}

	_, err = orderCollection.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
		"$set": bson.M{
			"returnStatus": models.ReturnRequested,
			"returnReason": returnReq.Reason,
			"updatedAt":    time.Now(),
		},
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to request return",
		})
	}

	order.ReturnStatus = models.ReturnRequested
	notifier.ReturnRequested(*order)

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Return requested successfully",
		Result:  &fiber.Map{"orderId": order.ID.Hex()},
	})
}
