package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationTypeOrder    = "order"
	NotificationTypeTracking = "tracking"
	NotificationTypePayment  = "payment"
	NotificationTypeStock    = "stock"
	NotificationTypeReturn   = "return"
)

// Notification is created once and only its read flag changes afterwards.
type Notification struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id"`
	UserID    primitive.ObjectID  `json:"userId" bson:"userId"`
	Title     string              `json:"title" bson:"title"`
	Message   string              `json:"message" bson:"message"`
	Type      string              `json:"type" bson:"type"`
	Link      string              `json:"link,omitempty" bson:"link,omitempty"`
	Read      bool                `json:"read" bson:"read"`
	OrderID   *primitive.ObjectID `json:"orderId,omitempty" bson:"orderId,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}
