package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketly/internal/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Core booking operations
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByRef(ctx context.Context, bookingRef string) (*Booking, error)
	GetBookingByIntentID(ctx context.Context, intentID string) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error)

	// CreateWithReservation atomically decrements the event's available
	// seats and inserts the booking in one transaction. Either both happen
	// or neither does.
	CreateWithReservation(ctx context.Context, booking *Booking) error

	// TransitionStatus moves the booking from exactly the given prior status
	// to the target, optionally applying extra column updates in the same
	// conditional write. Losing the conditional check surfaces as
	// ErrStateConflict or ErrAlreadyTerminal, never as a silent overwrite.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, extra map[string]interface{}) error

	// TransitionWithSeatRelease performs the guarded status transition and
	// the matching inventory increment as one transaction, so seats are
	// restored exactly once per booking no matter how many times the
	// reversal is invoked.
	TransitionWithSeatRelease(ctx context.Context, id uuid.UUID, from, to Status, extra map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Attendees").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBookingByRef(ctx context.Context, bookingRef string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Attendees").
		Where("booking_ref = ?", bookingRef).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBookingByIntentID(ctx context.Context, intentID string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Where("payment_intent_id = ?", intentID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Attendees").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) CreateWithReservation(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := events.ReserveSeats(tx, booking.EventID, booking.Quantity); err != nil {
			return err
		}
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, extra map[string]interface{}) error {
	return r.transition(r.db.WithContext(ctx), id, from, to, extra)
}

func (r *repository) TransitionWithSeatRelease(ctx context.Context, id uuid.UUID, from, to Status, extra map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking Booking
		if err := tx.Select("id", "event_id", "quantity").Where("id = ?", id).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		// The conditional status update is the idempotency guard: only the
		// caller that wins it performs the increment.
		if err := r.transition(tx, id, from, to, extra); err != nil {
			return err
		}

		if err := events.ReleaseSeats(tx, booking.EventID, booking.Quantity); err != nil {
			return err
		}
		return nil
	})
}

// transition performs the guarded conditional update and classifies a miss.
func (r *repository) transition(db *gorm.DB, id uuid.UUID, from, to Status, extra map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if to.IsTerminal() {
		updates["cancelled_at"] = time.Now()
	}
	for k, v := range extra {
		updates[k] = v
	}

	res := db.Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var current Booking
	err := db.Select("status").Where("id = ?", id).First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect booking after transition miss: %w", err)
	}
	if current.Status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	return ErrStateConflict
}
