package payment

import "encoding/json"

// Webhook event names this backend reacts to. Everything else is acknowledged
// and dropped.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// SignatureHeader carries the webhook HMAC.
const SignatureHeader = "X-Razorpay-Signature"

// WebhookEvent is the subset of the provider's webhook payload this backend
// reads. Notes stays raw because the provider serializes an empty notes
// object as a JSON array.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string          `json:"id"`
				OrderID string          `json:"order_id"`
				Status  string          `json:"status"`
				Email   string          `json:"email"`
				Notes   json.RawMessage `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// PaymentID returns the provider payment id of the event.
func (e *WebhookEvent) PaymentID() string {
	return e.Payload.Payment.Entity.ID
}

// NoteOrderID extracts the backend order id attached to the payment order's
// notes when the intent was created. Empty when absent or malformed.
func (e *WebhookEvent) NoteOrderID() string {
	raw := e.Payload.Payment.Entity.Notes
	if len(raw) == 0 {
		return ""
	}
	var notes map[string]interface{}
	if err := json.Unmarshal(raw, &notes); err != nil {
		return ""
	}
	orderID, _ := notes["orderId"].(string)
	return orderID
}
