package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestAllowsAlert(t *testing.T) {
	tests := []struct {
		name  string
		prefs *NotificationPreferences
		kind  AlertKind
		want  bool
	}{
		{"no preferences object", nil, OrderAlerts, true},
		{"empty preferences object", &NotificationPreferences{}, OrderAlerts, true},
		{"explicitly enabled", &NotificationPreferences{OrderAlerts: boolPtr(true)}, OrderAlerts, true},
		{"explicitly disabled", &NotificationPreferences{OrderAlerts: boolPtr(false)}, OrderAlerts, false},
		{"other channel disabled", &NotificationPreferences{LowStockAlerts: boolPtr(false)}, OrderAlerts, true},
		{"low stock disabled", &NotificationPreferences{LowStockAlerts: boolPtr(false)}, LowStockAlerts, false},
		{"customer alerts absent", &NotificationPreferences{OrderAlerts: boolPtr(false)}, CustomerAlerts, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{Preferences: tt.prefs}
			assert.Equal(t, tt.want, u.AllowsAlert(tt.kind))
		})
	}
}
