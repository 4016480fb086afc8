package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookEventCaptured(t *testing.T) {
	body := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_NXh2qa7F2kQ9zL",
					"order_id": "order_NXh2Yw8c1a5bQx",
					"status": "captured",
					"email": "buyer@example.com",
					"notes": {"orderId": "65f1c0ffee0ddba11ca7e5d1"}
				}
			}
		}
	}`)

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentCaptured, event.Event)
	assert.Equal(t, "pay_NXh2qa7F2kQ9zL", event.PaymentID())
	assert.Equal(t, "65f1c0ffee0ddba11ca7e5d1", event.NoteOrderID())
}

func TestParseWebhookEventEmptyNotesArray(t *testing.T) {
	// Razorpay serializes empty notes as [] rather than {}.
	body := []byte(`{
		"event": "payment.failed",
		"payload": {"payment": {"entity": {"id": "pay_x", "notes": []}}}
	}`)

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentFailed, event.Event)
	assert.Equal(t, "", event.NoteOrderID())
}

func TestParseWebhookEventMalformed(t *testing.T) {
	_, err := ParseWebhookEvent([]byte(`{"event":`))
	assert.Error(t, err)
}
