package cancellation

import (
	"context"
	"time"

	"ticketly/internal/bookings"
	"ticketly/internal/events"

	"github.com/google/uuid"
)

// BookingService interface for booking-related operations (to avoid circular dependency)
type BookingService interface {
	GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*bookings.Booking, error)
	Reverse(ctx context.Context, bookingID uuid.UUID, from, to bookings.Status) error
}

// EventLedger interface for event lookups (to avoid circular dependency)
type EventLedger interface {
	GetEvent(ctx context.Context, eventID uuid.UUID) (*events.Event, error)
}

// Service interface defines the contract for cancellation business logic
type Service interface {
	// Cancel reverses a booking: the status transition, the seat release and
	// the refund decision happen as one operation. Calling it again for the
	// same booking fails with ErrAlreadyTerminal without touching inventory.
	Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool, req CancellationRequest) (*Cancellation, error)

	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error)
}

type service struct {
	repo           Repository
	bookingService BookingService
	ledger         EventLedger
}

// NewService creates a new cancellation service instance
func NewService(repo Repository, bookingService BookingService, ledger EventLedger) Service {
	return &service{
		repo:           repo,
		bookingService: bookingService,
		ledger:         ledger,
	}
}

func (s *service) Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool, req CancellationRequest) (*Cancellation, error) {
	booking, err := s.bookingService.GetBooking(ctx, bookingID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	// Every rejection below leaves the booking and the seat ledger untouched.
	if booking.IsTerminal() {
		return nil, bookings.ErrAlreadyTerminal
	}

	event, err := s.ledger.GetEvent(ctx, booking.EventID)
	if err != nil {
		return nil, err
	}
	if event.DateTime.Before(time.Now()) {
		return nil, ErrEventAlreadyStarted
	}

	// A paid, confirmed booking refunds; everything else just cancels.
	target := bookings.StatusCancelled
	refund := 0.0
	if booking.IsConfirmed() && booking.IsPaid() {
		target = bookings.StatusRefunded
		refund = booking.TotalAmount
	}

	if err := s.bookingService.Reverse(ctx, bookingID, booking.Status, target); err != nil {
		// A concurrent writer may have won the guarded transition between our
		// read and this write. ErrAlreadyTerminal means some other cancel or
		// refund finished the job; ErrStateConflict means the booking moved to
		// a different live status (a payment confirmation landing first) and
		// the caller may retry the cancellation against the new status.
		return nil, err
	}

	record := &Cancellation{
		ID:           uuid.New(),
		BookingID:    booking.ID,
		BookingRef:   booking.BookingRef,
		RequestedBy:  requesterID,
		Reason:       req.Reason,
		Outcome:      target.String(),
		RefundAmount: refund,
		Currency:     booking.Currency,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// The reversal already happened; surface the record failure but do
		// not attempt to undo the transition.
		return nil, err
	}

	return record, nil
}

func (s *service) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	return s.repo.GetByBookingID(ctx, bookingID)
}
