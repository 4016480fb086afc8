package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethod is decided once at order creation and never re-parsed afterwards.
type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "COD"
	PaymentMethodRazorpay PaymentMethod = "Razorpay"
)

// ParsePaymentMethod normalizes the free-form method strings clients send.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cod", "cash on delivery", "cash_on_delivery":
		return PaymentMethodCOD, nil
	case "online", "razorpay":
		return PaymentMethodRazorpay, nil
	default:
		return "", fmt.Errorf("unsupported payment method %q", s)
	}
}

// IsOnline reports whether payment happens through the gateway, which defers
// the order-placed notifications until the payment is confirmed.
func (m PaymentMethod) IsOnline() bool {
	return m == PaymentMethodRazorpay
}

// TrackingStatus is the fulfillment stage of an order, distinct from payment status.
type TrackingStatus string

const (
	TrackingPending        TrackingStatus = "pending"
	TrackingConfirmed      TrackingStatus = "confirmed"
	TrackingProcessing     TrackingStatus = "processing"
	TrackingShipped        TrackingStatus = "shipped"
	TrackingOutForDelivery TrackingStatus = "out_for_delivery"
	TrackingDelivered      TrackingStatus = "delivered"
	TrackingCancelled      TrackingStatus = "cancelled"
	TrackingReturned       TrackingStatus = "returned"
)

// CanCancel reports whether a direct cancellation is still allowed.
// Shipped, delivered, returned and already-cancelled orders reject it.
func (s TrackingStatus) CanCancel() bool {
	switch s {
	case TrackingDelivered, TrackingShipped, TrackingCancelled, TrackingReturned:
		return false
	}
	return true
}

// NonTerminalTrackingStatuses are the stages bulk updates may move orders into.
var NonTerminalTrackingStatuses = []TrackingStatus{
	TrackingPending,
	TrackingConfirmed,
	TrackingProcessing,
	TrackingShipped,
	TrackingOutForDelivery,
}

// ReturnStatus tracks the post-delivery return workflow.
type ReturnStatus string

const (
	ReturnNone      ReturnStatus = "none"
	ReturnRequested ReturnStatus = "requested"
	ReturnApproved  ReturnStatus = "approved"
	ReturnRejected  ReturnStatus = "rejected"
	ReturnCompleted ReturnStatus = "completed"
)

func ParseReturnStatus(s string) (ReturnStatus, error) {
	switch ReturnStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ReturnNone:
		return ReturnNone, nil
	case ReturnRequested:
		return ReturnRequested, nil
	case ReturnApproved:
		return ReturnApproved, nil
	case ReturnRejected:
		return ReturnRejected, nil
	case ReturnCompleted:
		return ReturnCompleted, nil
	default:
		return "", fmt.Errorf("unsupported return status %q", s)
	}
}

// ReturnWindow is how long after delivery a return may still be requested.
const ReturnWindow = 7 * 24 * time.Hour

// OrderItem is a price/name snapshot taken at order time; later catalog edits
// do not affect it.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Name      string             `json:"name" bson:"name"`
	Image     string             `json:"image" bson:"image,omitempty"`
	Price     float64            `json:"price" bson:"price"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

type ShippingAddress struct {
	FullName      string `json:"fullName" bson:"fullName" validate:"required"`
	StreetAddress string `json:"streetAddress" bson:"streetAddress" validate:"required"`
	City          string `json:"city" bson:"city" validate:"required"`
	State         string `json:"state" bson:"state"`
	ZipCode       string `json:"zipCode" bson:"zipCode" validate:"required"`
	Phone         string `json:"phone" bson:"phone"`
}

// PaymentResult is the opaque receipt returned by the payment provider.
type PaymentResult struct {
	ID           string `json:"id" bson:"id,omitempty"`
	Status       string `json:"status" bson:"status,omitempty"`
	UpdateTime   string `json:"updateTime" bson:"updateTime,omitempty"`
	EmailAddress string `json:"emailAddress" bson:"emailAddress,omitempty"`
}

// TrackingEvent is one entry of the append-only tracking history.
type TrackingEvent struct {
	Status    TrackingStatus `json:"status" bson:"status"`
	Message   string         `json:"message" bson:"message"`
	Location  string         `json:"location" bson:"location,omitempty"`
	UpdatedBy string         `json:"updatedBy" bson:"updatedBy,omitempty"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
}

type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	OrderItems      []OrderItem        `json:"orderItems" bson:"orderItems"`
	ShippingAddress ShippingAddress    `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   PaymentMethod      `json:"paymentMethod" bson:"paymentMethod"`
	ItemsPrice      float64            `json:"itemsPrice" bson:"itemsPrice"`
	TaxPrice        float64            `json:"taxPrice" bson:"taxPrice"`
	ShippingPrice   float64            `json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice      float64            `json:"totalPrice" bson:"totalPrice"`
	IsPaid          bool               `json:"isPaid" bson:"isPaid"`
	PaidAt          *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	PaymentResult   *PaymentResult     `json:"paymentResult,omitempty" bson:"paymentResult,omitempty"`
	RazorpayOrderID string             `json:"razorpayOrderId,omitempty" bson:"razorpayOrderId,omitempty"`
	IsDelivered     bool               `json:"isDelivered" bson:"isDelivered"`
	DeliveredAt     *time.Time         `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	TrackingStatus  TrackingStatus     `json:"trackingStatus" bson:"trackingStatus"`
	TrackingHistory []TrackingEvent    `json:"trackingHistory" bson:"trackingHistory"`
	ReturnStatus    ReturnStatus       `json:"returnStatus" bson:"returnStatus"`
	ReturnReason    string             `json:"returnReason,omitempty" bson:"returnReason,omitempty"`
	ReturnAdminNote string             `json:"returnAdminNote,omitempty" bson:"returnAdminNote,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ReturnWindowOpen reports whether a return may still be requested at now.
// The boundary is inclusive: exactly seven days after delivery still passes.
func (o *Order) ReturnWindowOpen(now time.Time) bool {
	if o.DeliveredAt == nil {
		return false
	}
	return !now.After(o.DeliveredAt.Add(ReturnWindow))
}
