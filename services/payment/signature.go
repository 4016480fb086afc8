package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayment computes the provider's checkout signature: HMAC-SHA256 over
// "{providerOrderId}|{paymentId}" with the key secret, hex encoded.
func SignPayment(providerOrderID, paymentID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(providerOrderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPaymentSignature checks a client-supplied checkout signature.
func VerifyPaymentSignature(providerOrderID, paymentID, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	expected := SignPayment(providerOrderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature the provider sends
// over the exact raw webhook body. Byte-identical input is required, so the
// caller must pass the body as received, never a re-serialized form.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
