package payment

import "math"

// Order is the payment intent created with the provider. Amount is in the
// smallest currency unit (paise).
type Order struct {
	ID       string
	Amount   int64
	Currency string
}

// Provider creates payment intents and validates checkout confirmations.
// The live Razorpay integration and the in-process mock differ only in how
// order ids are minted and how a claimed payment is judged valid.
type Provider interface {
	CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (*Order, error)
	VerifySignature(providerOrderID, paymentID, signature string) bool
	KeyID() string
}

// NewProvider selects the live integration when credentials are configured
// and falls back to the mock simulator otherwise.
func NewProvider(keyID, keySecret string) Provider {
	if keyID != "" && keySecret != "" {
		return NewRazorpayProvider(keyID, keySecret)
	}
	return NewMockProvider()
}

// AmountPaise converts a rupee total to paise. Rounding, not truncation:
// float arithmetic can leave totals like 447.2 stored as 447.19999..., and
// truncating would undercharge by a paisa.
func AmountPaise(total float64) int64 {
	return int64(math.Round(total * 100))
}

// MatchesOrder reports whether a claimed provider order id belongs to the
// stored one. Orders created before an intent exists have no stored id yet
// and accept any claim, since the signature still binds payment to intent.
func MatchesOrder(storedID, claimedID string) bool {
	return storedID == "" || storedID == claimedID
}
