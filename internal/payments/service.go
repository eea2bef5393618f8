package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketly/internal/bookings"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

// BookingService interface for the booking transitions reconciliation drives
// (to avoid circular dependency)
type BookingService interface {
	GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*bookings.Booking, error)
	ConfirmPending(ctx context.Context, bookingID uuid.UUID, transactionID string) error
	NotePaymentFailure(ctx context.Context, bookingID uuid.UUID) error
	AbandonPending(ctx context.Context, bookingID uuid.UUID) error
}

// BookingStore interface for direct booking lookups
type BookingStore interface {
	GetBookingByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error)
	GetBookingByIntentID(ctx context.Context, intentID string) (*bookings.Booking, error)
}

// Service interface defines the payment reconciliation contract
type Service interface {
	// Reconcile applies one gateway outcome to the booking it belongs to.
	// The outcome is always appended to the payment event log, even when the
	// booking has already moved on.
	Reconcile(ctx context.Context, result *GatewayResult) error

	// Sync re-queries the gateway with the booking's stored intent id. This
	// is the recovery path for a webhook that never arrived: the caller
	// learns the real outcome instead of waiting on a PENDING booking
	// forever.
	Sync(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*SyncResponse, error)

	GetEventsByBooking(ctx context.Context, bookingID uuid.UUID) ([]PaymentEvent, error)
}

type service struct {
	repo           Repository
	bookingService BookingService
	bookingRepo    BookingStore
	gateway        Gateway
	gatewayTimeout time.Duration
	logger         *logger.Logger
}

// NewService creates a new payment reconciliation service
func NewService(repo Repository, bookingService BookingService, bookingRepo BookingStore, gateway Gateway, gatewayTimeout time.Duration, log *logger.Logger) Service {
	return &service{
		repo:           repo,
		bookingService: bookingService,
		bookingRepo:    bookingRepo,
		gateway:        gateway,
		gatewayTimeout: gatewayTimeout,
		logger:         log,
	}
}

func (s *service) Reconcile(ctx context.Context, result *GatewayResult) error {
	if !result.Status.IsValid() {
		return fmt.Errorf("unknown gateway status %q", result.Status)
	}

	booking, err := s.bookingRepo.GetBookingByIntentID(ctx, result.IntentID)
	if err != nil {
		return err
	}

	// The log gets the outcome regardless of what happens to the booking.
	event := &PaymentEvent{
		ID:            uuid.New(),
		BookingID:     booking.ID,
		IntentID:      result.IntentID,
		TransactionID: result.TransactionID,
		Status:        result.Status,
		Amount:        booking.TotalAmount,
		Currency:      booking.Currency,
		Reason:        result.Reason,
	}
	if err := s.repo.AppendEvent(ctx, event); err != nil {
		return err
	}

	switch result.Status {
	case GatewaySucceeded:
		err = s.confirmOnce(ctx, booking.ID, result.TransactionID)
	case GatewayFailed:
		// Retryable: the booking stays PENDING with its seats held.
		err = s.bookingService.NotePaymentFailure(ctx, booking.ID)
		err = s.swallowConflict(ctx, err, booking.ID, result)
	case GatewayAbandoned:
		err = s.bookingService.AbandonPending(ctx, booking.ID)
		err = s.swallowConflict(ctx, err, booking.ID, result)
	case GatewayPending:
		// Nothing to apply yet.
		err = nil
	}
	if err != nil {
		return err
	}

	s.logger.LogPaymentReconciled(ctx, booking.BookingRef, string(result.Status))
	return nil
}

// confirmOnce confirms the booking, tolerating a redelivered success for the
// same transaction. A success arriving for a booking that is cancelled, or
// confirmed under a different transaction, is surfaced as a conflict.
func (s *service) confirmOnce(ctx context.Context, bookingID uuid.UUID, transactionID string) error {
	err := s.bookingService.ConfirmPending(ctx, bookingID, transactionID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, bookings.ErrStateConflict) && !errors.Is(err, bookings.ErrAlreadyTerminal) {
		return err
	}

	current, readErr := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if readErr != nil {
		return readErr
	}
	if current.IsConfirmed() && current.TransactionID == transactionID {
		// Duplicate webhook delivery.
		return nil
	}
	return err
}

// swallowConflict turns a lost guard into a no-op for failure-side outcomes:
// the booking already moved on and the event log has the record.
func (s *service) swallowConflict(ctx context.Context, err error, bookingID uuid.UUID, result *GatewayResult) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bookings.ErrStateConflict) || errors.Is(err, bookings.ErrAlreadyTerminal) {
		s.logger.InfoWithContext(ctx, "gateway outcome arrived after booking moved on", map[string]interface{}{
			"booking_id": bookingID.String(),
			"status":     string(result.Status),
		})
		return nil
	}
	return err
}

func (s *service) Sync(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*SyncResponse, error) {
	booking, err := s.bookingService.GetBooking(ctx, bookingID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	// Only a pending booking with an intent has anything to recover.
	if !booking.IsPending() || booking.PaymentIntentID == "" {
		return &SyncResponse{
			BookingID:     booking.ID.String(),
			BookingRef:    booking.BookingRef,
			BookingStatus: booking.Status.String(),
		}, nil
	}

	qctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	result, err := s.gateway.GetResult(qctx, booking.PaymentIntentID)
	if err != nil {
		// A timed-out or failed query treats the payment as unresolved. The
		// booking stays PENDING and the caller can retry the sync.
		return nil, fmt.Errorf("gateway query failed: %w", err)
	}

	if result.Status != GatewayPending {
		if err := s.Reconcile(ctx, result); err != nil {
			return nil, err
		}
	}

	current, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &SyncResponse{
		BookingID:     current.ID.String(),
		BookingRef:    current.BookingRef,
		BookingStatus: current.Status.String(),
		GatewayStatus: result.Status,
	}, nil
}

func (s *service) GetEventsByBooking(ctx context.Context, bookingID uuid.UUID) ([]PaymentEvent, error) {
	return s.repo.GetEventsByBooking(ctx, bookingID)
}
