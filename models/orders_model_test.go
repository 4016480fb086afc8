package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    PaymentMethod
		wantErr bool
	}{
		{"COD", PaymentMethodCOD, false},
		{"cod", PaymentMethodCOD, false},
		{"Cash on Delivery", PaymentMethodCOD, false},
		{"razorpay", PaymentMethodRazorpay, false},
		{"RAZORPAY", PaymentMethodRazorpay, false},
		{"Online", PaymentMethodRazorpay, false},
		{" online ", PaymentMethodRazorpay, false},
		{"paypal", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePaymentMethod(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestPaymentMethodIsOnline(t *testing.T) {
	assert.True(t, PaymentMethodRazorpay.IsOnline())
	assert.False(t, PaymentMethodCOD.IsOnline())
}

func TestTrackingStatusCanCancel(t *testing.T) {
	cancellable := []TrackingStatus{
		TrackingPending, TrackingConfirmed, TrackingProcessing, TrackingOutForDelivery,
	}
	for _, s := range cancellable {
		assert.True(t, s.CanCancel(), "status %s", s)
	}
	blocked := []TrackingStatus{TrackingDelivered, TrackingShipped, TrackingCancelled, TrackingReturned}
	for _, s := range blocked {
		assert.False(t, s.CanCancel(), "status %s", s)
	}
}

func TestParseReturnStatus(t *testing.T) {
	got, err := ParseReturnStatus("Completed")
	require.NoError(t, err)
	assert.Equal(t, ReturnCompleted, got)

	_, err = ParseReturnStatus("lost")
	assert.Error(t, err)
}

func TestReturnWindowOpen(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)
	eightDaysAgo := now.Add(-8 * 24 * time.Hour)

	order := Order{DeliveredAt: &sevenDaysAgo}
	assert.True(t, order.ReturnWindowOpen(now), "day 7 is still inside the window")

	order.DeliveredAt = &eightDaysAgo
	assert.False(t, order.ReturnWindowOpen(now), "day 8 is outside the window")

	order.DeliveredAt = nil
	assert.False(t, order.ReturnWindowOpen(now), "undelivered orders have no window")
}
