package payment

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"
)

const (
	mockOrderPrefix   = "order_mock_"
	mockPaymentPrefix = "pay_mock_"
)

// MockProvider simulates the gateway for environments without provider
// credentials. Any payment id carrying the mock prefix is accepted, which
// lets checkout flows run end to end against local installs.
type MockProvider struct {
	mu     sync.Mutex
	orders map[string]*Order
}

func NewMockProvider() *MockProvider {
	return &MockProvider{orders: make(map[string]*Order)}
}

func (p *MockProvider) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	order := &Order{
		ID:       mockOrderPrefix + hex.EncodeToString(buf),
		Amount:   amountPaise,
		Currency: currency,
	}

	p.mu.Lock()
	p.orders[order.ID] = order
	p.mu.Unlock()

	return order, nil
}

func (p *MockProvider) VerifySignature(providerOrderID, paymentID, signature string) bool {
	return strings.HasPrefix(paymentID, mockPaymentPrefix) && signature != ""
}

func (p *MockProvider) KeyID() string {
	return "mock"
}

// MockPaymentID mints a payment id the mock provider will accept.
func MockPaymentID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return mockPaymentPrefix + hex.EncodeToString(buf)
}
