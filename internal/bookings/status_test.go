package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to refunded", StatusPending, StatusRefunded, false},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to refunded", StatusConfirmed, StatusRefunded, true},
		{"confirmed to pending", StatusConfirmed, StatusPending, false},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, false},
		{"cancelled to pending", StatusCancelled, StatusPending, false},
		{"refunded to confirmed", StatusRefunded, StatusConfirmed, false},
		{"refunded to cancelled", StatusRefunded, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())
}

func TestStatus_HoldsSeats(t *testing.T) {
	assert.True(t, StatusPending.HoldsSeats())
	assert.True(t, StatusConfirmed.HoldsSeats())
	assert.False(t, StatusCancelled.HoldsSeats())
	assert.False(t, StatusRefunded.HoldsSeats())
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusRefunded.IsValid())
	assert.False(t, Status("EXPIRED").IsValid())
	assert.False(t, Status("").IsValid())
}
