package payment

import (
	"fmt"

	"github.com/razorpay/razorpay-go"
)

// RazorpayProvider talks to the live Razorpay API.
type RazorpayProvider struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	return &RazorpayProvider{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func (p *RazorpayProvider) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	created, err := p.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, _ := created["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order create: missing id in response")
	}

	order := &Order{ID: id, Amount: amountPaise, Currency: currency}
	if amount, ok := created["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	if cur, ok := created["currency"].(string); ok {
		order.Currency = cur
	}
	return order, nil
}

func (p *RazorpayProvider) VerifySignature(providerOrderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(providerOrderID, paymentID, signature, p.keySecret)
}

func (p *RazorpayProvider) KeyID() string {
	return p.keyID
}
