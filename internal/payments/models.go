package payments

import (
	"time"

	"github.com/google/uuid"
)

// PaymentEvent is one gateway outcome observed for a booking. The log is
// append-only: reconciliation never updates or deletes rows here, it only
// adds them, so the full payment history of a booking stays auditable.
type PaymentEvent struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID     `gorm:"type:uuid;index;not null" json:"booking_id"`
	IntentID      string        `gorm:"index" json:"intent_id"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Status        GatewayStatus `gorm:"type:varchar(20);not null" json:"status"`
	Amount        float64       `json:"amount"`
	Currency      string        `gorm:"type:varchar(3)" json:"currency"`
	Reason        string        `json:"reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// TableName sets the table name for PaymentEvent
func (PaymentEvent) TableName() string {
	return "payment_events"
}

// WebhookRequest is the asynchronous gateway confirmation payload.
type WebhookRequest struct {
	IntentID      string `json:"intent_id" validate:"required"`
	Status        string `json:"status" validate:"required,oneof=succeeded failed abandoned"`
	TransactionID string `json:"transaction_id" validate:"omitempty"`
	Reason        string `json:"reason" validate:"omitempty"`
}

// SyncResponse is returned from the synchronous re-query endpoint.
type SyncResponse struct {
	BookingID     string        `json:"booking_id"`
	BookingRef    string        `json:"booking_ref"`
	BookingStatus string        `json:"booking_status"`
	GatewayStatus GatewayStatus `json:"gateway_status,omitempty"`
}
