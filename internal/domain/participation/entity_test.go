package participation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequest_Cancel(t *testing.T) {
	tests := []struct {
		name         string
		status       Status
		wantReleased bool
	}{
		{name: "confirmed releases a place", status: StatusConfirmed, wantReleased: true},
		{name: "pending", status: StatusPending},
		{name: "rejected", status: StatusRejected},
		{name: "already canceled", status: StatusCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRequest("event-1", "user-1", tt.status, time.Now())
			assert.Equal(t, tt.wantReleased, r.Cancel())
			assert.Equal(t, StatusCanceled, r.Status)
			assert.False(t, r.IsActive())
		})
	}
}

func TestValidTarget(t *testing.T) {
	assert.True(t, ValidTarget(StatusConfirmed))
	assert.True(t, ValidTarget(StatusRejected))
	assert.False(t, ValidTarget(StatusPending))
	assert.False(t, ValidTarget(StatusCanceled))
}
