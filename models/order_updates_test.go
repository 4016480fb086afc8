package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBulkStatusUpdateDelivered(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	update := BulkStatusUpdate("delivered", now)
	require.NotNil(t, update)

	set := update["$set"].(bson.M)
	assert.Equal(t, true, set["isDelivered"])
	assert.Equal(t, now, set["deliveredAt"])
	assert.Equal(t, TrackingDelivered, set["trackingStatus"])

	push := update["$push"].(bson.M)
	event := push["trackingHistory"].(TrackingEvent)
	assert.Equal(t, TrackingDelivered, event.Status)
}

func TestBulkStatusUpdatePaid(t *testing.T) {
	now := time.Now()

	update := BulkStatusUpdate("paid", now)
	require.NotNil(t, update)

	set := update["$set"].(bson.M)
	assert.Equal(t, true, set["isPaid"])
	assert.Equal(t, now, set["paidAt"])
	assert.NotContains(t, update, "$push", "paid does not advance tracking")
}

func TestBulkStatusUpdateTrackingStages(t *testing.T) {
	now := time.Now()
	for _, s := range NonTerminalTrackingStatuses {
		update := BulkStatusUpdate(string(s), now)
		require.NotNil(t, update, "status %s", s)
		set := update["$set"].(bson.M)
		assert.Equal(t, s, set["trackingStatus"], "status %s", s)
	}
}

func TestBulkStatusUpdateUnknownStatus(t *testing.T) {
	assert.Nil(t, BulkStatusUpdate("misplaced", time.Now()))
	assert.Nil(t, BulkStatusUpdate("cancelled", time.Now()), "cancellation has its own flow")
	assert.Nil(t, BulkStatusUpdate("returned", time.Now()), "returns have their own flow")
	assert.Nil(t, BulkStatusUpdate("", time.Now()))
}
