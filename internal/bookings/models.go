package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines the main booking structure. A booking's seats are held
// against the event from the moment this record is durably created until the
// booking reaches a terminal state.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef  string    `gorm:"unique;not null" json:"booking_ref"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	EventID     uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	Quantity    int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	TotalAmount float64   `gorm:"not null" json:"total_amount"`
	Currency    string    `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Status      Status    `gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'CANCELLED', 'REFUNDED');default:'PENDING'" json:"status"`

	// Payment leg. IntentID is kept even when the booking never reaches
	// CONFIRMED so a lost gateway response can be re-queried later.
	PaymentIntentID string        `gorm:"index" json:"payment_intent_id,omitempty"`
	PaymentMethod   string        `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(20)" json:"payment_status,omitempty"`
	TransactionID   string        `json:"transaction_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	Attendees []Attendee `json:"attendees,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// Attendee defines one seat holder on a booking. The list length always
// equals the booking's quantity.
type Attendee struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Phone     string    `gorm:"size:30" json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for Attendee
func (Attendee) TableName() string {
	return "booking_attendees"
}

// Helper methods for booking management

func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// IsPaid reports whether the booking went through the payment step at all.
// Free-event bookings carry no payment leg.
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusCompleted
}

func (b *Booking) BelongsTo(userID uuid.UUID) bool {
	return b.UserID == userID
}
