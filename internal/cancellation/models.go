package cancellation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Cancellation records one completed reversal: who asked, why, and how much
// was refunded. At most one row exists per booking because the reversal
// itself is idempotent.
type Cancellation struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"booking_id"`
	BookingRef   string    `gorm:"not null" json:"booking_ref"`
	RequestedBy  uuid.UUID `gorm:"type:uuid;not null" json:"requested_by"`
	Reason       string    `gorm:"size:500" json:"reason,omitempty"`
	Outcome      string    `gorm:"type:varchar(20);not null" json:"outcome"`
	RefundAmount float64   `json:"refund_amount"`
	Currency     string    `gorm:"type:varchar(3)" json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName sets the table name for Cancellation
func (Cancellation) TableName() string {
	return "cancellations"
}

// CancellationRequest is the cancel endpoint's body.
type CancellationRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// ErrEventAlreadyStarted means the event's start time has passed, so the
// booking can no longer be cancelled.
var ErrEventAlreadyStarted = errors.New("event has already started")
