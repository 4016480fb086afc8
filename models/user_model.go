package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	UserTypeCustomer = "user"
	UserTypeAdmin    = "admin"
)

// NotificationPreferences holds per-channel opt-outs. A nil pointer means the
// user never touched the setting, which counts as enabled.
type NotificationPreferences struct {
	OrderAlerts    *bool `bson:"orderAlerts,omitempty" json:"orderAlerts,omitempty"`
	LowStockAlerts *bool `bson:"lowStockAlerts,omitempty" json:"lowStockAlerts,omitempty"`
	CustomerAlerts *bool `bson:"customerAlerts,omitempty" json:"customerAlerts,omitempty"`
}

type User struct {
	Id          primitive.ObjectID       `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string                   `bson:"name" json:"name" validate:"required"`
	Email       string                   `bson:"email" json:"email" validate:"required,email"`
	ImageUrl    string                   `bson:"profileImage" json:"profileImage,omitempty"`
	Password    string                   `bson:"password" json:"-" validate:"required,min=8"`
	Type        string                   `bson:"type,omitempty" json:"type,omitempty" validate:"required,oneof=user admin"`
	Preferences *NotificationPreferences `bson:"notificationPreferences,omitempty" json:"notificationPreferences,omitempty"`
}

// AlertKind names a notification preference channel.
type AlertKind string

const (
	OrderAlerts    AlertKind = "orderAlerts"
	LowStockAlerts AlertKind = "lowStockAlerts"
	CustomerAlerts AlertKind = "customerAlerts"
)

// AllowsAlert uses not-explicitly-disabled semantics: only a flag set to
// false suppresses the channel, absent preferences keep it enabled.
func (u *User) AllowsAlert(kind AlertKind) bool {
	if u.Preferences == nil {
		return true
	}
	var flag *bool
	switch kind {
	case OrderAlerts:
		flag = u.Preferences.OrderAlerts
	case LowStockAlerts:
		flag = u.Preferences.LowStockAlerts
	case CustomerAlerts:
		flag = u.Preferences.CustomerAlerts
	default:
		return true
	}
	return flag == nil || *flag
}
