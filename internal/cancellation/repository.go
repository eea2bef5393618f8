package cancellation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, cancellation *Cancellation) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error)
}

// ErrCancellationNotFound means no cancellation record exists for the booking.
var ErrCancellationNotFound = errors.New("cancellation not found")

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, cancellation *Cancellation) error {
	if err := r.db.WithContext(ctx).Create(cancellation).Error; err != nil {
		return fmt.Errorf("failed to create cancellation record: %w", err)
	}
	return nil
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	var cancellation Cancellation
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		First(&cancellation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCancellationNotFound
		}
		return nil, err
	}
	return &cancellation, nil
}
