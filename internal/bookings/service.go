package bookings

import (
	"context"
	"fmt"

	"ticketly/internal/events"
	"ticketly/internal/notifications"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

// PaymentGateway interface for creating payment intents (to avoid circular dependency)
type PaymentGateway interface {
	CreateIntent(ctx context.Context, bookingRef string, amount float64, currency string) (string, error)
}

// Service interface defines the contract for booking business logic
type Service interface {
	Reserve(ctx context.Context, userID uuid.UUID, req ReservationRequest) (*ReservationResponse, error)
	GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error)

	// ConfirmPending moves a PENDING booking to CONFIRMED after a successful
	// payment. Invoked by the payment reconciliation unit only.
	ConfirmPending(ctx context.Context, bookingID uuid.UUID, transactionID string) error

	// NotePaymentFailure marks the payment leg failed while leaving the
	// booking PENDING and its seats held, so the payer can retry.
	NotePaymentFailure(ctx context.Context, bookingID uuid.UUID) error

	// AbandonPending cancels a PENDING booking and releases its seats after
	// the payer walked away from the gateway.
	AbandonPending(ctx context.Context, bookingID uuid.UUID) error

	// Reverse transitions a seat-holding booking to the given terminal state
	// and releases its seats, exactly once. Authorization and refund policy
	// live with the caller.
	Reverse(ctx context.Context, bookingID uuid.UUID, from, to Status) error
}

// service implements the Service interface
type service struct {
	repo     Repository
	ledger   events.Service
	gateway  PaymentGateway
	producer notifications.Producer
	logger   *logger.Logger
}

// NewService creates a new booking service instance. producer may be nil when
// notifications are disabled.
func NewService(repo Repository, ledger events.Service, gateway PaymentGateway, producer notifications.Producer, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		ledger:   ledger,
		gateway:  gateway,
		producer: producer,
		logger:   log,
	}
}

// Reserve validates the request, prices the booking, atomically claims the
// seats and persists the booking. Free events confirm immediately; paid
// events come back PENDING with a payment intent attached.
func (s *service) Reserve(ctx context.Context, userID uuid.UUID, req ReservationRequest) (*ReservationResponse, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if len(req.Attendees) != req.Quantity {
		return nil, ErrAttendeeMismatch
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	event, err := s.ledger.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.Status.IsBookable() {
		return nil, events.ErrEventNotBookable
	}

	// Price is locked in at reservation time.
	totalAmount := float64(req.Quantity) * event.Price

	bookingRef, err := GenerateBookingReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	booking := &Booking{
		ID:          uuid.New(),
		BookingRef:  bookingRef,
		UserID:      userID,
		EventID:     eventID,
		Quantity:    req.Quantity,
		TotalAmount: totalAmount,
		Currency:    currency,
	}
	for _, a := range req.Attendees {
		booking.Attendees = append(booking.Attendees, Attendee{
			ID:        uuid.New(),
			BookingID: booking.ID,
			Name:      a.Name,
			Email:     a.Email,
			Phone:     a.Phone,
		})
	}

	if event.IsFree() {
		// No payment leg: the booking confirms in the same write that
		// claims the seats.
		booking.Status = StatusConfirmed
		booking.TransactionID = GenerateTransactionID()
	} else {
		intentID, err := s.gateway.CreateIntent(ctx, bookingRef, totalAmount, booking.Currency)
		if err != nil {
			return nil, fmt.Errorf("failed to create payment intent: %w", err)
		}
		booking.Status = StatusPending
		booking.PaymentIntentID = intentID
		booking.PaymentMethod = req.PaymentMethod
		booking.PaymentStatus = PaymentStatusPending
	}

	if err := s.repo.CreateWithReservation(ctx, booking); err != nil {
		return nil, err
	}

	s.ledger.InvalidateAvailability(ctx, eventID)
	s.logger.LogBookingReserved(ctx, booking.BookingRef, eventID.String(), userID.String(), booking.Quantity)

	if booking.Status == StatusConfirmed {
		s.logger.LogBookingConfirmed(ctx, booking.BookingRef, booking.TransactionID)
		s.publish(ctx, booking, notifications.BookingEventConfirmed)
	}

	return booking.ToReservationResponse(), nil
}

// GetBooking returns the booking when the requester owns it or is an admin.
func (s *service) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !booking.BelongsTo(requesterID) {
		return nil, ErrNotAllowed
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetUserBookings(ctx, userID, limit, offset)
}

func (s *service) ConfirmPending(ctx context.Context, bookingID uuid.UUID, transactionID string) error {
	extra := map[string]interface{}{
		"payment_status": PaymentStatusCompleted,
		"transaction_id": transactionID,
	}
	if err := s.repo.TransitionStatus(ctx, bookingID, StatusPending, StatusConfirmed, extra); err != nil {
		return err
	}

	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	s.logger.LogBookingConfirmed(ctx, booking.BookingRef, transactionID)
	s.publish(ctx, booking, notifications.BookingEventConfirmed)
	return nil
}

func (s *service) NotePaymentFailure(ctx context.Context, bookingID uuid.UUID) error {
	extra := map[string]interface{}{
		"payment_status": PaymentStatusFailed,
	}
	// PENDING to PENDING: the conditional write only marks the payment leg,
	// the seats stay held.
	if err := s.repo.TransitionStatus(ctx, bookingID, StatusPending, StatusPending, extra); err != nil {
		return err
	}

	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	s.publish(ctx, booking, notifications.BookingEventPaymentFailed)
	return nil
}

func (s *service) AbandonPending(ctx context.Context, bookingID uuid.UUID) error {
	extra := map[string]interface{}{
		"payment_status": PaymentStatusFailed,
	}
	if err := s.repo.TransitionWithSeatRelease(ctx, bookingID, StatusPending, StatusCancelled, extra); err != nil {
		return err
	}
	return s.afterRelease(ctx, bookingID, notifications.BookingEventCancelled)
}

func (s *service) Reverse(ctx context.Context, bookingID uuid.UUID, from, to Status) error {
	if !from.CanTransitionTo(to) {
		return ErrStateConflict
	}

	var extra map[string]interface{}
	if to == StatusRefunded {
		extra = map[string]interface{}{
			"payment_status": PaymentStatusRefunded,
		}
	}
	if err := s.repo.TransitionWithSeatRelease(ctx, bookingID, from, to, extra); err != nil {
		return err
	}

	eventType := notifications.BookingEventCancelled
	if to == StatusRefunded {
		eventType = notifications.BookingEventRefunded
	}
	return s.afterRelease(ctx, bookingID, eventType)
}

// afterRelease handles the bookkeeping that follows a seat release: cache
// invalidation, logging and the lifecycle notification.
func (s *service) afterRelease(ctx context.Context, bookingID uuid.UUID, eventType notifications.BookingEventType) error {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	s.ledger.InvalidateAvailability(ctx, booking.EventID)
	s.logger.LogSeatsReleased(ctx, booking.BookingRef, booking.EventID.String(), booking.Quantity)
	s.publish(ctx, booking, eventType)
	return nil
}

// publish sends a lifecycle event, best effort. A failed publish never rolls
// back the state change it describes.
func (s *service) publish(ctx context.Context, booking *Booking, eventType notifications.BookingEventType) {
	if s.producer == nil {
		return
	}

	event := notifications.NewBookingEvent(eventType)
	event.BookingID = booking.ID
	event.BookingRef = booking.BookingRef
	event.EventID = booking.EventID
	event.UserID = booking.UserID
	event.Quantity = booking.Quantity
	event.TotalAmount = booking.TotalAmount
	if len(booking.Attendees) > 0 {
		event.RecipientEmail = booking.Attendees[0].Email
	}

	if err := s.producer.PublishBookingEvent(ctx, event); err != nil {
		s.logger.WithError(err).Warn("failed to publish booking event",
			"booking_ref", booking.BookingRef, "type", string(eventType))
	}
}
