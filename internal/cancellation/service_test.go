package cancellation

import (
	"context"
	"testing"
	"time"

	"ticketly/internal/bookings"
	"ticketly/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*bookings.Booking, error) {
	args := m.Called(ctx, bookingID, requesterID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookings.Booking), args.Error(1)
}

func (m *MockBookingService) Reverse(ctx context.Context, bookingID uuid.UUID, from, to bookings.Status) error {
	args := m.Called(ctx, bookingID, from, to)
	return args.Error(0)
}

type MockEventLedger struct {
	mock.Mock
}

func (m *MockEventLedger) GetEvent(ctx context.Context, eventID uuid.UUID) (*events.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.Event), args.Error(1)
}

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Create(ctx context.Context, cancellation *Cancellation) error {
	args := m.Called(ctx, cancellation)
	return args.Error(0)
}

func (m *MockRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Cancellation), args.Error(1)
}

func paidConfirmedBooking() *bookings.Booking {
	return &bookings.Booking{
		ID:            uuid.New(),
		BookingRef:    "TKT-20260828-REFUND",
		UserID:        uuid.New(),
		EventID:       uuid.New(),
		Quantity:      2,
		TotalAmount:   90.0,
		Currency:      "USD",
		Status:        bookings.StatusConfirmed,
		PaymentStatus: bookings.PaymentStatusCompleted,
	}
}

func upcomingEvent(id uuid.UUID) *events.Event {
	return &events.Event{
		ID:       id,
		DateTime: time.Now().Add(48 * time.Hour),
		Capacity: 100,
		Status:   events.StatusPublished,
	}
}

func TestCancel_PaidConfirmedBookingRefunds(t *testing.T) {
	booking := paidConfirmedBooking()
	bs := &MockBookingService{}
	ledger := &MockEventLedger{}
	repo := &MockRepo{}

	bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)
	ledger.On("GetEvent", mock.Anything, booking.EventID).Return(upcomingEvent(booking.EventID), nil)
	bs.On("Reverse", mock.Anything, booking.ID, bookings.StatusConfirmed, bookings.StatusRefunded).Return(nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *Cancellation) bool {
		return c.Outcome == bookings.StatusRefunded.String() && c.RefundAmount == 90.0
	})).Return(nil)

	svc := NewService(repo, bs, ledger)
	record, err := svc.Cancel(context.Background(), booking.ID, booking.UserID, false, CancellationRequest{Reason: "plans changed"})

	require.NoError(t, err)
	assert.Equal(t, 90.0, record.RefundAmount)
	assert.Equal(t, bookings.StatusRefunded.String(), record.Outcome)
	bs.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCancel_UnpaidBookingCancelsWithoutRefund(t *testing.T) {
	booking := paidConfirmedBooking()
	booking.PaymentStatus = "" // free-event booking, no payment leg
	bs := &MockBookingService{}
	ledger := &MockEventLedger{}
	repo := &MockRepo{}

	bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)
	ledger.On("GetEvent", mock.Anything, booking.EventID).Return(upcomingEvent(booking.EventID), nil)
	bs.On("Reverse", mock.Anything, booking.ID, bookings.StatusConfirmed, bookings.StatusCancelled).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, bs, ledger)
	record, err := svc.Cancel(context.Background(), booking.ID, booking.UserID, false, CancellationRequest{})

	require.NoError(t, err)
	assert.Zero(t, record.RefundAmount)
	assert.Equal(t, bookings.StatusCancelled.String(), record.Outcome)
}

func TestCancel_PendingBookingCancels(t *testing.T) {
	booking := paidConfirmedBooking()
	booking.Status = bookings.StatusPending
	booking.PaymentStatus = bookings.PaymentStatusPending
	bs := &MockBookingService{}
	ledger := &MockEventLedger{}
	repo := &MockRepo{}

	bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)
	ledger.On("GetEvent", mock.Anything, booking.EventID).Return(upcomingEvent(booking.EventID), nil)
	bs.On("Reverse", mock.Anything, booking.ID, bookings.StatusPending, bookings.StatusCancelled).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, bs, ledger)
	record, err := svc.Cancel(context.Background(), booking.ID, booking.UserID, false, CancellationRequest{})

	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled.String(), record.Outcome)
}

func TestCancel_TerminalBookingRejected(t *testing.T) {
	booking := paidConfirmedBooking()
	booking.Status = bookings.StatusCancelled
	bs := &MockBookingService{}
	ledger := &MockEventLedger{}
	repo := &MockRepo{}

	bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)

	svc := NewService(repo, bs, ledger)
	_, err := svc.Cancel(context.Background(), booking.ID, booking.UserID, false, CancellationRequest{})

	assert.ErrorIs(t, err, bookings.ErrAlreadyTerminal)
	bs.AssertNotCalled(t, "Reverse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCancel_StartedEventRejected(t *testing.T) {
	booking := paidConfirmedBooking()
	bs := &MockBookingService{}
	ledger := &MockEventLedger{}
	repo := &MockRepo{}

	past := upcomingEvent(booking.EventID)
	past.DateTime = time.Now().Add(-time.Hour)

	bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)
	ledger.On("GetEvent", mock.Anything, booking.EventID).Return(past, nil)

	svc := NewService(repo, bs, ledger)
	_, err := svc.Cancel(context.Background(), booking.ID, booking.UserID, false, CancellationRequest{})

	assert.ErrorIs(t, err, ErrEventAlreadyStarted)
	bs.AssertNotCalled(t, "Reverse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_LostRaceSurfacesAsTerminal(t *testing.T) {
	booking := paidConfirmedBooking()
	bs := &MockBookingService{}
	ledger := &MockEventLedger{}
	repo := &MockRepo{}

	bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)
	ledger.On("GetEvent", mock.Anything, booking.EventID).Return(upcomingEvent(booking.EventID), nil)
	bs.On("Reverse", mock.Anything, booking.ID, bookings.StatusConfirmed, bookings.StatusRefunded).
		Return(bookings.ErrAlreadyTerminal)

	svc := NewService(repo, bs, ledger)
	_, err := svc.Cancel(context.Background(), booking.ID, booking.UserID, false, CancellationRequest{})

	assert.ErrorIs(t, err, bookings.ErrAlreadyTerminal)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCancel_LostRaceToConfirmationIsRetryable(t *testing.T) {
	// The booking is read as PENDING, but a payment confirmation lands before
	// the guarded transition. The booking is now CONFIRMED and still
	// cancellable, so the caller must see a state conflict, not terminal.
	booking := paidConfirmedBooking()
	booking.Status = bookings.StatusPending
	booking.PaymentStatus = bookings.PaymentStatusPending
	bs := &MockBookingService{}
	ledger := &MockEventLedger{}
	repo := &MockRepo{}

	bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)
	ledger.On("GetEvent", mock.Anything, booking.EventID).Return(upcomingEvent(booking.EventID), nil)
	bs.On("Reverse", mock.Anything, booking.ID, bookings.StatusPending, bookings.StatusCancelled).
		Return(bookings.ErrStateConflict)

	svc := NewService(repo, bs, ledger)
	_, err := svc.Cancel(context.Background(), booking.ID, booking.UserID, false, CancellationRequest{})

	assert.ErrorIs(t, err, bookings.ErrStateConflict)
	assert.NotErrorIs(t, err, bookings.ErrAlreadyTerminal)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCancel_NotOwnerRejected(t *testing.T) {
	booking := paidConfirmedBooking()
	stranger := uuid.New()
	bs := &MockBookingService{}

	bs.On("GetBooking", mock.Anything, booking.ID, stranger, false).Return(nil, bookings.ErrNotAllowed)

	svc := NewService(&MockRepo{}, bs, &MockEventLedger{})
	_, err := svc.Cancel(context.Background(), booking.ID, stranger, false, CancellationRequest{})

	assert.ErrorIs(t, err, bookings.ErrNotAllowed)
}
