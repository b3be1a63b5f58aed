package override

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPermissionCovers(t *testing.T) {
	tests := []struct {
		held     Permission
		required Permission
		want     bool
	}{
		{PermissionAdmin, PermissionRead, true},
		{PermissionAdmin, PermissionWrite, true},
		{PermissionAdmin, PermissionAdmin, true},
		{PermissionWrite, PermissionRead, true},
		{PermissionWrite, PermissionWrite, true},
		{PermissionWrite, PermissionAdmin, false},
		{PermissionRead, PermissionRead, true},
		{PermissionRead, PermissionWrite, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.held.Covers(tt.required), "%s covers %s", tt.held, tt.required)
	}
}

func TestActiveAt(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no expiry never lapses", func(t *testing.T) {
		o := &AccessOverride{}
		assert.True(t, o.ActiveAt(now))
		assert.True(t, o.ActiveAt(now.Add(100*365*24*time.Hour)))
	})

	t.Run("active at the exact expiry instant", func(t *testing.T) {
		o := &AccessOverride{ExpiresAt: &now}
		assert.True(t, o.ActiveAt(now))
	})

	t.Run("inactive one instant after expiry", func(t *testing.T) {
		o := &AccessOverride{ExpiresAt: &now}
		assert.False(t, o.ActiveAt(now.Add(time.Nanosecond)))
	})
}
