package events

import (
	"time"

	"github.com/google/uuid"
)

// Event carries the inventory-relevant slice of an event. Content fields
// (description, images, tags) are owned by the catalog service and not
// mirrored here.
type Event struct {
	ID             uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name           string      `json:"name" gorm:"not null;size:255"`
	Venue          string      `json:"venue" gorm:"size:255"`
	DateTime       time.Time   `json:"date_time" gorm:"not null"`
	Capacity       int         `json:"capacity" gorm:"not null;check:capacity > 0"`
	AvailableSeats int         `json:"available_seats" gorm:"not null;check:available_seats >= 0;check:available_seats <= capacity"`
	Price          float64     `json:"price" gorm:"not null;check:price >= 0"`
	Status         EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// IsFree reports whether bookings for this event skip the payment step.
func (e *Event) IsFree() bool {
	return e.Price == 0
}

// AvailabilityResponse is the read-side view served to browsing clients.
type AvailabilityResponse struct {
	EventID        string      `json:"event_id"`
	Name           string      `json:"name"`
	Capacity       int         `json:"capacity"`
	AvailableSeats int         `json:"available_seats"`
	Price          float64     `json:"price"`
	Status         EventStatus `json:"status"`
}

// ToAvailability converts an Event to its availability view
func (e *Event) ToAvailability() AvailabilityResponse {
	return AvailabilityResponse{
		EventID:        e.ID.String(),
		Name:           e.Name,
		Capacity:       e.Capacity,
		AvailableSeats: e.AvailableSeats,
		Price:          e.Price,
		Status:         e.Status,
	}
}
