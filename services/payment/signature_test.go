package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func hmacHex(secret, data string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "S"
	valid := hmacHex(secret, "order_1|pay_1")

	assert.True(t, VerifyPaymentSignature("order_1", "pay_1", valid, secret))
	assert.False(t, VerifyPaymentSignature("order_1", "pay_1", valid, "other-secret"))
	assert.False(t, VerifyPaymentSignature("order_1", "pay_2", valid, secret))
	assert.False(t, VerifyPaymentSignature("order_2", "pay_1", valid, secret))
	assert.False(t, VerifyPaymentSignature("order_1", "pay_1", "", secret))
	assert.False(t, VerifyPaymentSignature("order_1", "pay_1", valid, ""))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "webhook-secret"
	body := []byte(`{"event":"payment.captured","payload":{}}`)
	valid := hmacHex(secret, string(body))

	assert.True(t, VerifyWebhookSignature(body, valid, secret))
	assert.False(t, VerifyWebhookSignature(body, valid, "wrong"))
	assert.False(t, VerifyWebhookSignature(body, "", secret))
	assert.False(t, VerifyWebhookSignature(body, valid, ""))

	// Signature is over the exact bytes; any re-serialization breaks it.
	reserialized := []byte(`{"event": "payment.captured", "payload": {}}`)
	assert.False(t, VerifyWebhookSignature(reserialized, valid, secret))
}

func TestMockProvider(t *testing.T) {
	provider := NewMockProvider()

	order, err := provider.CreateOrder(12500, "INR", "receipt_1", map[string]interface{}{"orderId": "abc"})
	assert.NoError(t, err)
	assert.Contains(t, order.ID, "order_mock_")
	assert.Equal(t, int64(12500), order.Amount)
	assert.Equal(t, "INR", order.Currency)

	assert.True(t, provider.VerifySignature(order.ID, MockPaymentID(), "sig"))
	assert.False(t, provider.VerifySignature(order.ID, "pay_live_123", "sig"))
	assert.False(t, provider.VerifySignature(order.ID, MockPaymentID(), ""))
}

func TestAmountPaise(t *testing.T) {
	// 19.99*100 is 1998.9999... in float64; truncation would lose a paisa.
	assert.Equal(t, int64(1999), AmountPaise(19.99))
	assert.Equal(t, int64(44720), AmountPaise(447.20))
	assert.Equal(t, int64(12500), AmountPaise(125.00))
	assert.Equal(t, int64(0), AmountPaise(0))
}

func TestMatchesOrder(t *testing.T) {
	assert.True(t, MatchesOrder("order_1", "order_1"))
	assert.False(t, MatchesOrder("order_1", "order_2"), "claims for another intent are rejected")
	assert.True(t, MatchesOrder("", "order_1"), "no stored intent accepts any claim")
}

func TestNewProviderSelection(t *testing.T) {
	_, isMock := NewProvider("", "").(*MockProvider)
	assert.True(t, isMock, "missing credentials select the mock")

	_, isLive := NewProvider("rzp_test_key", "secret").(*RazorpayProvider)
	assert.True(t, isLive, "credentials select the live integration")
}
