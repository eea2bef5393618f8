package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEventStatus(ctx context.Context, id uuid.UUID, status EventStatus) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) CreateEvent(ctx context.Context, event *Event) error {
	if event.AvailableSeats == 0 {
		event.AvailableSeats = event.Capacity
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) UpdateEventStatus(ctx context.Context, id uuid.UUID, status EventStatus) error {
	res := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ReserveSeats performs the atomic conditional decrement on the inventory
// ledger: in one UPDATE it verifies the event is bookable and holds at least
// quantity seats, and only then subtracts them. Zero rows affected means the
// guard failed; a follow-up read classifies why. The handle may be a
// transaction so callers can tie the decrement to a booking insert.
func ReserveSeats(tx *gorm.DB, eventID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	res := tx.Model(&Event{}).
		Where("id = ? AND status = ? AND available_seats >= ?", eventID, StatusPublished, quantity).
		UpdateColumn("available_seats", gorm.Expr("available_seats - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to reserve seats: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var event Event
	err := tx.Select("status", "available_seats").Where("id = ?", eventID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect event after reservation miss: %w", err)
	}
	if !event.Status.IsBookable() {
		return ErrEventNotBookable
	}
	return ErrInsufficientSeats
}

// ReleaseSeats returns quantity seats to the ledger with a capacity guard so
// available_seats can never exceed capacity. A refused increment surfaces as
// ErrCapacityExceeded rather than being clamped.
func ReleaseSeats(tx *gorm.DB, eventID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	res := tx.Model(&Event{}).
		Where("id = ? AND available_seats + ? <= capacity", eventID, quantity).
		UpdateColumn("available_seats", gorm.Expr("available_seats + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to release seats: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var event Event
	err := tx.Select("id").Where("id = ?", eventID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect event after release miss: %w", err)
	}
	return ErrCapacityExceeded
}
