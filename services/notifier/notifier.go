package notifier

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Sheshri07/Sheshri/models"
)

// NotificationCollection is the insert surface of the notifications collection.
type NotificationCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// UserCollection is the query surface needed for the admin fan-out.
type UserCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Note is the content of one in-app notification.
type Note struct {
	Title   string
	Message string
	Type    string
	Link    string
	OrderID *primitive.ObjectID
}

// Dispatcher creates in-app notifications. Every delivery is best effort:
// failures are logged and never propagated, so a broken notification insert
// cannot fail the business transaction that triggered it.
type Dispatcher struct {
	notifications NotificationCollection
	users         UserCollection
	log           *zap.Logger
}

func NewDispatcher(notifications NotificationCollection, users UserCollection, log *zap.Logger) *Dispatcher {
	return &Dispatcher{notifications: notifications, users: users, log: log}
}

// NotifyUser creates one notification addressed to userID.
func (d *Dispatcher) NotifyUser(ctx context.Context, userID primitive.ObjectID, note Note) {
	doc := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     note.Title,
		Message:   note.Message,
		Type:      note.Type,
		Link:      note.Link,
		OrderID:   note.OrderID,
		CreatedAt: time.Now(),
	}
	if _, err := d.notifications.InsertOne(ctx, doc); err != nil {
		d.log.Error("notification insert failed",
			zap.String("userId", userID.Hex()),
			zap.String("title", note.Title),
			zap.Error(err))
	}
}

// NotifyAdmins fans the note out to every admin whose preference for the
// given channel is not explicitly disabled.
func (d *Dispatcher) NotifyAdmins(ctx context.Context, kind models.AlertKind, note Note) {
	cursor, err := d.users.Find(ctx, bson.M{"type": models.UserTypeAdmin})
	if err != nil {
		d.log.Error("admin lookup failed", zap.Error(err))
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var admin models.User
		if err := cursor.Decode(&admin); err != nil {
			d.log.Error("admin decode failed", zap.Error(err))
			continue
		}
		if !admin.AllowsAlert(kind) {
			continue
		}
		d.NotifyUser(ctx, admin.Id, note)
	}
	if err := cursor.Err(); err != nil {
		d.log.Error("admin cursor failed", zap.Error(err))
	}
}
