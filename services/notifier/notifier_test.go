package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Sheshri07/Sheshri/models"
)

type fakeNotifications struct {
	inserted []models.Notification
	err      error
}

func (f *fakeNotifications) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inserted = append(f.inserted, document.(models.Notification))
	return &mongo.InsertOneResult{}, nil
}

type fakeUsers struct {
	users []models.User
	err   error
}

func (f *fakeUsers) Find(_ context.Context, filter interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := filter.(bson.M)
	docs := make([]interface{}, 0, len(f.users))
	for _, u := range f.users {
		if u.Type == m["type"] {
			docs = append(docs, u)
		}
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func disabled() *bool {
	b := false
	return &b
}

func TestNotifyUser(t *testing.T) {
	notifications := &fakeNotifications{}
	d := NewDispatcher(notifications, &fakeUsers{}, zap.NewNop())

	userID := primitive.NewObjectID()
	orderID := primitive.NewObjectID()
	d.NotifyUser(context.Background(), userID, Note{
		Title:   "Order placed",
		Message: "m",
		Type:    models.NotificationTypeOrder,
		Link:    "/orders/x",
		OrderID: &orderID,
	})

	require.Len(t, notifications.inserted, 1)
	n := notifications.inserted[0]
	assert.Equal(t, userID, n.UserID)
	assert.Equal(t, "Order placed", n.Title)
	assert.Equal(t, models.NotificationTypeOrder, n.Type)
	assert.Equal(t, orderID, *n.OrderID)
	assert.False(t, n.Read)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNotifyAdminsHonorsPreferences(t *testing.T) {
	adminA := models.User{Id: primitive.NewObjectID(), Type: models.UserTypeAdmin}
	adminB := models.User{Id: primitive.NewObjectID(), Type: models.UserTypeAdmin,
		Preferences: &models.NotificationPreferences{LowStockAlerts: disabled()}}
	adminC := models.User{Id: primitive.NewObjectID(), Type: models.UserTypeAdmin,
		Preferences: &models.NotificationPreferences{OrderAlerts: disabled()}}
	customer := models.User{Id: primitive.NewObjectID(), Type: models.UserTypeCustomer}

	notifications := &fakeNotifications{}
	users := &fakeUsers{users: []models.User{adminA, adminB, adminC, customer}}
	d := NewDispatcher(notifications, users, zap.NewNop())

	d.NotifyAdmins(context.Background(), models.LowStockAlerts, Note{Title: "Low stock alert"})

	require.Len(t, notifications.inserted, 2, "admin with lowStockAlerts=false is skipped, customers never notified")
	recipients := []primitive.ObjectID{notifications.inserted[0].UserID, notifications.inserted[1].UserID}
	assert.Contains(t, recipients, adminA.Id)
	assert.Contains(t, recipients, adminC.Id)
}

func TestDispatchFailuresAreAbsorbed(t *testing.T) {
	d := NewDispatcher(
		&fakeNotifications{err: errors.New("insert down")},
		&fakeUsers{err: errors.New("find down")},
		zap.NewNop(),
	)

	// Neither call may panic or surface the error.
	d.NotifyUser(context.Background(), primitive.NewObjectID(), Note{Title: "t"})
	d.NotifyAdmins(context.Background(), models.OrderAlerts, Note{Title: "t"})
}
