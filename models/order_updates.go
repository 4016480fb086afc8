package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// BulkStatusUpdate builds the update document for a bulk order-status change.
// Unknown statuses yield nil, which callers treat as an empty update rather
// than an error.
func BulkStatusUpdate(status string, now time.Time) bson.M {
	switch status {
	case "delivered":
		return bson.M{
			"$set": bson.M{
				"isDelivered":    true,
				"deliveredAt":    now,
				"trackingStatus": TrackingDelivered,
				"updatedAt":      now,
			},
			"$push": bson.M{"trackingHistory": TrackingEvent{
				Status:    TrackingDelivered,
				Message:   "Order delivered",
				UpdatedBy: UserTypeAdmin,
				Timestamp: now,
			}},
		}
	case "paid":
		return bson.M{
			"$set": bson.M{
				"isPaid":    true,
				"paidAt":    now,
				"updatedAt": now,
			},
		}
	}

	for _, s := range NonTerminalTrackingStatuses {
		if status == string(s) {
			return bson.M{
				"$set": bson.M{
					"trackingStatus": s,
					"updatedAt":      now,
				},
				"$push": bson.M{"trackingHistory": TrackingEvent{
					Status:    s,
					Message:   "Status updated to " + status,
					UpdatedBy: UserTypeAdmin,
					Timestamp: now,
				}},
			}
		}
	}
	return nil
}
