package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BookingEventType identifies a booking lifecycle notification
type BookingEventType string

const (
	BookingEventConfirmed     BookingEventType = "BOOKING_CONFIRMED"
	BookingEventCancelled     BookingEventType = "BOOKING_CANCELLED"
	BookingEventRefunded      BookingEventType = "BOOKING_REFUNDED"
	BookingEventPaymentFailed BookingEventType = "PAYMENT_FAILED"
)

// BookingEvent is the message published to Kafka when a booking changes
// state. The recipient email drives both partitioning and delivery.
type BookingEvent struct {
	ID             uuid.UUID        `json:"id"`
	Type           BookingEventType `json:"type"`
	BookingID      uuid.UUID        `json:"booking_id"`
	BookingRef     string           `json:"booking_ref"`
	EventID        uuid.UUID        `json:"event_id"`
	UserID         uuid.UUID        `json:"user_id"`
	RecipientEmail string           `json:"recipient_email,omitempty"`
	Quantity       int              `json:"quantity"`
	TotalAmount    float64          `json:"total_amount"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewBookingEvent builds an event with a fresh id and timestamp
func NewBookingEvent(eventType BookingEventType) *BookingEvent {
	return &BookingEvent{
		ID:        uuid.New(),
		Type:      eventType,
		CreatedAt: time.Now(),
	}
}

// ToJSON serializes the event for the wire
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetPartitionKey routes all events for one booking to the same partition so
// consumers see them in order.
func (e *BookingEvent) GetPartitionKey() string {
	return e.BookingID.String()
}
