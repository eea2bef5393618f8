package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// AppendEvent records one gateway outcome. Rows are never updated.
	AppendEvent(ctx context.Context, event *PaymentEvent) error
	GetEventsByBooking(ctx context.Context, bookingID uuid.UUID) ([]PaymentEvent, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AppendEvent(ctx context.Context, event *PaymentEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append payment event: %w", err)
	}
	return nil
}

func (r *repository) GetEventsByBooking(ctx context.Context, bookingID uuid.UUID) ([]PaymentEvent, error) {
	var events []PaymentEvent
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
