package database

import (
	"ticketly/internal/bookings"
	"ticketly/internal/cancellation"
	"ticketly/internal/events"
	"ticketly/internal/payments"
	"ticketly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&bookings.Booking{},
		&bookings.Attendee{},
		&payments.PaymentEvent{},
		&cancellation.Cancellation{},
	)
}
