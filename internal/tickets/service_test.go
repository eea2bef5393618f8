package tickets

import (
	"context"
	"strings"
	"testing"

	"ticketly/internal/bookings"
	"ticketly/pkg/logger"

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

func confirmedBooking() *bookings.Booking {
	return &bookings.Booking{
		ID:         uuid.New(),
		BookingRef: "TKT-20260828-QWJZNF",
		UserID:     uuid.New(),
		EventID:    uuid.New(),
		Quantity:   3,
		Status:     bookings.StatusConfirmed,
	}
}

func newTestService(bs BookingService) Service {
	return NewService(bs, NewSigner("test-ticket-secret"), logger.GetDefault())
}

func TestIssue_ConfirmedBooking(t *testing.T) {
	booking := confirmedBooking()
	bs := &MockBookingService{}
	bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)

	svc := newTestService(bs)
	ticket, err := svc.Issue(context.Background(), booking.ID, booking.UserID, false)
	require.NoError(t, err)

	assert.Equal(t, booking.BookingRef, ticket.BookingRef)
	assert.Equal(t, 3, ticket.Quantity)
	assert.NotEmpty(t, ticket.Artifact)

	// The artifact round-trips through verification.
	result, err := svc.Verify(context.Background(), ticket.Artifact)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, booking.BookingRef, result.BookingRef)
	assert.Equal(t, booking.EventID.String(), result.EventID)
	assert.Equal(t, 3, result.Quantity)
}

func TestIssue_RejectsNonConfirmedStates(t *testing.T) {
	for _, status := range []bookings.Status{
		bookings.StatusPending,
		bookings.StatusCancelled,
		bookings.StatusRefunded,
	} {
		t.Run(string(status), func(t *testing.T) {
			booking := confirmedBooking()
			booking.Status = status

			bs := &MockBookingService{}
			bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)

			svc := newTestService(bs)
			_, err := svc.Issue(context.Background(), booking.ID, booking.UserID, false)
			assert.ErrorIs(t, err, bookings.ErrNotConfirmed)
		})
	}
}

func TestIssue_ReissueYieldsValidArtifact(t *testing.T) {
	booking := confirmedBooking()
	bs := &MockBookingService{}
	bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)

	svc := newTestService(bs)
	first, err := svc.Issue(context.Background(), booking.ID, booking.UserID, false)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), booking.ID, booking.UserID, false)
	require.NoError(t, err)

	// Both artifacts verify and name the same entitlement.
	for _, artifact := range []string{first.Artifact, second.Artifact} {
		result, err := svc.Verify(context.Background(), artifact)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, booking.BookingRef, result.BookingRef)
	}
}

func TestVerify_RejectsTamperedArtifact(t *testing.T) {
	booking := confirmedBooking()
	bs := &MockBookingService{}
	bs.On("GetBooking", mock.Anything, booking.ID, booking.UserID, false).Return(booking, nil)

	svc := newTestService(bs)
	ticket, err := svc.Issue(context.Background(), booking.ID, booking.UserID, false)
	require.NoError(t, err)

	// Flip a character inside the payload segment.
	parts := strings.Split(ticket.Artifact, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	result, err := svc.Verify(context.Background(), tampered)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	otherSigner := NewSigner("some-other-secret")
	artifact, err := otherSigner.Sign("TKT-20260828-XXXXXX", uuid.New(), uuid.New(), 1)
	require.NoError(t, err)

	svc := newTestService(&MockBookingService{})
	result, err := svc.Verify(context.Background(), artifact)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	svc := newTestService(&MockBookingService{})
	result, err := svc.Verify(context.Background(), "not-a-ticket")
	require.NoError(t, err)
	assert.False(t, result.Valid)
}
