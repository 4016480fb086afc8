package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Sheshri07/Sheshri/configs"
	"github.com/Sheshri07/Sheshri/models"
	"github.com/Sheshri07/Sheshri/responses"
	"github.com/Sheshri07/Sheshri/services/notifier"
	"github.com/Sheshri07/Sheshri/services/payment"
)

// Webhook is the provider-confirmed reconciliation entry point. The HMAC is
// computed over the raw request body, so the handler must never re-serialize
// it before verification. Redelivered events are tolerated through the
// already-paid guard.
func Webhook(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	body := c.Body()
	signature := c.Get(payment.SignatureHeader)
	secret := configs.EnvRazorpayWebhookSecret()

	if !payment.VerifyWebhookSignature(body, signature, secret) {
		configs.Logger.Warn("webhook rejected: bad signature")
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid webhook signature",
		})
	}

	event, err := payment.ParseWebhookEvent(body)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Malformed webhook payload",
		})
	}

	switch event.Event {
	case payment.EventPaymentCaptured:
		handlePaymentCaptured(ctx, event)
	case payment.EventPaymentFailed:
		configs.Logger.Info("payment failed event received",
			zap.String("paymentId", event.PaymentID()))
	default:
		configs.Logger.Debug("ignoring webhook event", zap.String("event", event.Event))
	}

	// Always acknowledge a verified event so the provider stops retrying.
	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Webhook processed",
	})
}

func handlePaymentCaptured(ctx context.Context, event *payment.WebhookEvent) {
	orderID := event.NoteOrderID()
	if orderID == "" {
		configs.Logger.Warn("captured event without orderId note",
			zap.String("paymentId", event.PaymentID()))
		return
	}

	order, err := loadOrder(ctx, orderID)
	if err != nil {
		// Possibly a race with client verification on an order that never
		// landed; acknowledged and dropped.
		configs.Logger.Warn("captured event for unknown order",
			zap.String("orderId", orderID),
			zap.String("paymentId", event.PaymentID()),
			zap.Error(err))
		return
	}
	if order.IsPaid {
		configs.Logger.Info("duplicate captured event ignored",
			zap.String("orderId", order.ID.Hex()))
		return
	}

	result := models.PaymentResult{
		ID:           event.PaymentID(),
		Status:       event.Payload.Payment.Entity.Status,
		UpdateTime:   time.Now().Format(time.RFC3339),
		EmailAddress: event.Payload.Payment.Entity.Email,
	}
	if err := markOrderPaid(ctx, order, result, models.TrackingConfirmed, "Payment confirmed by provider"); err != nil {
		configs.Logger.Error("webhook reconciliation failed",
			zap.String("orderId", order.ID.Hex()),
			zap.Error(err))
		return
	}

	order.IsPaid = true
	order.PaymentResult = &result
	order.TrackingStatus = models.TrackingConfirmed
	notifier.OrderPlaced(*order)
	notifier.PaymentSuccess(*order)
}
