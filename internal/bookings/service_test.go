package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ticketly/internal/events"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore backs both the ledger and the booking repository with the same
// mutex, mirroring the conditional-write semantics of the real SQL layer:
// the seat decrement only happens when the event is published and has enough
// seats, and status transitions only happen from the expected prior state.
type fakeStore struct {
	mu       sync.Mutex
	events   map[uuid.UUID]*events.Event
	bookings map[uuid.UUID]*Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:   make(map[uuid.UUID]*events.Event),
		bookings: make(map[uuid.UUID]*Booking),
	}
}

func (f *fakeStore) addEvent(capacity int, price float64, status events.EventStatus) uuid.UUID {
	id := uuid.New()
	f.events[id] = &events.Event{
		ID:             id,
		Name:           "test event",
		DateTime:       time.Now().Add(24 * time.Hour),
		Capacity:       capacity,
		AvailableSeats: capacity,
		Price:          price,
		Status:         status,
	}
	return id
}

func (f *fakeStore) available(eventID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[eventID].AvailableSeats
}

// events.Service implementation

func (f *fakeStore) GetEvent(ctx context.Context, eventID uuid.UUID) (*events.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[eventID]
	if !ok {
		return nil, events.ErrEventNotFound
	}
	copied := *ev
	return &copied, nil
}

func (f *fakeStore) GetAvailability(ctx context.Context, eventID uuid.UUID) (*events.AvailabilityResponse, error) {
	ev, err := f.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	availability := ev.ToAvailability()
	return &availability, nil
}

func (f *fakeStore) InvalidateAvailability(ctx context.Context, eventID uuid.UUID) {}

// Repository implementation

func (f *fakeStore) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) GetBookingByRef(ctx context.Context, ref string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.BookingRef == ref {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeStore) GetBookingByIntentID(ctx context.Context, intentID string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.PaymentIntentID == intentID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeStore) GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateWithReservation(ctx context.Context, booking *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ev, ok := f.events[booking.EventID]
	if !ok {
		return events.ErrEventNotFound
	}
	if !ev.Status.IsBookable() {
		return events.ErrEventNotBookable
	}
	if ev.AvailableSeats < booking.Quantity {
		return events.ErrInsufficientSeats
	}

	ev.AvailableSeats -= booking.Quantity
	copied := *booking
	copied.CreatedAt = time.Now()
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, extra map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transitionLocked(id, from, to, extra)
}

func (f *fakeStore) TransitionWithSeatRelease(ctx context.Context, id uuid.UUID, from, to Status, extra map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	if err := f.transitionLocked(id, from, to, extra); err != nil {
		return err
	}

	ev := f.events[b.EventID]
	if ev.AvailableSeats+b.Quantity > ev.Capacity {
		return events.ErrCapacityExceeded
	}
	ev.AvailableSeats += b.Quantity
	return nil
}

func (f *fakeStore) transitionLocked(id uuid.UUID, from, to Status, extra map[string]interface{}) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	if b.Status != from {
		if b.Status.IsTerminal() {
			return ErrAlreadyTerminal
		}
		return ErrStateConflict
	}

	b.Status = to
	b.UpdatedAt = time.Now()
	for k, v := range extra {
		switch k {
		case "payment_status":
			b.PaymentStatus = v.(PaymentStatus)
		case "transaction_id":
			b.TransactionID = v.(string)
		}
	}
	return nil
}

// gateway stub

type stubGateway struct {
	intentID string
	err      error
	calls    int
}

func (g *stubGateway) CreateIntent(ctx context.Context, bookingRef string, amount float64, currency string) (string, error) {
	g.calls++
	return g.intentID, g.err
}

func newTestService(store *fakeStore, gateway PaymentGateway) Service {
	return NewService(store, store, gateway, nil, logger.GetDefault())
}

func makeAttendees(n int) []AttendeeRequest {
	attendees := make([]AttendeeRequest, n)
	for i := range attendees {
		attendees[i] = AttendeeRequest{
			Name:  fmt.Sprintf("Guest %d", i+1),
			Email: fmt.Sprintf("guest%d@example.com", i+1),
		}
	}
	return attendees
}

func TestService_Reserve_PaidEvent(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(100, 50.0, events.StatusPublished)
	gateway := &stubGateway{intentID: "pi_test123"}
	svc := newTestService(store, gateway)

	userID := uuid.New()
	res, err := svc.Reserve(context.Background(), userID, ReservationRequest{
		EventID:       eventID.String(),
		Quantity:      3,
		PaymentMethod: "card",
		Attendees: []AttendeeRequest{
			{Name: "A", Email: "a@example.com"},
			{Name: "B", Email: "b@example.com"},
			{Name: "C", Email: "c@example.com"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending.String(), res.Status)
	assert.Equal(t, "pi_test123", res.PaymentIntentID)
	assert.Equal(t, 150.0, res.TotalAmount)
	assert.Equal(t, 1, gateway.calls)
	assert.Equal(t, 97, store.available(eventID))

	stored, err := store.GetBookingByRef(context.Background(), res.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPending, stored.PaymentStatus)
	assert.Len(t, stored.Attendees, 3)
}

func TestService_Reserve_FreeEventConfirmsImmediately(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(50, 0, events.StatusPublished)
	gateway := &stubGateway{}
	svc := newTestService(store, gateway)

	res, err := svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID:   eventID.String(),
		Quantity:  2,
		Attendees: makeAttendees(2),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed.String(), res.Status)
	assert.Empty(t, res.PaymentIntentID)
	assert.Zero(t, res.TotalAmount)
	assert.Equal(t, 0, gateway.calls, "free events never touch the gateway")

	stored, err := store.GetBookingByRef(context.Background(), res.BookingRef)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.TransactionID)
}

func TestService_Reserve_Validation(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(10, 20.0, events.StatusPublished)
	svc := newTestService(store, &stubGateway{intentID: "pi_x"})

	_, err := svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID: eventID.String(), Quantity: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID:  eventID.String(),
		Quantity: 2,
		Attendees: []AttendeeRequest{
			{Name: "Only One", Email: "one@example.com"},
		},
	})
	assert.ErrorIs(t, err, ErrAttendeeMismatch)

	// Every claimed seat needs a named attendee; an empty list is a mismatch too.
	_, err = svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID: eventID.String(), Quantity: 2,
	})
	assert.ErrorIs(t, err, ErrAttendeeMismatch)

	assert.Equal(t, 10, store.available(eventID), "rejected requests never touch inventory")
}

func TestService_Reserve_DraftEventNotBookable(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(10, 20.0, events.StatusDraft)
	svc := newTestService(store, &stubGateway{intentID: "pi_x"})

	_, err := svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID: eventID.String(), Quantity: 1, Attendees: makeAttendees(1),
	})
	assert.ErrorIs(t, err, events.ErrEventNotBookable)
}

func TestService_Reserve_InsufficientSeats(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(10, 500.0, events.StatusPublished)
	svc := newTestService(store, &stubGateway{intentID: "pi_a"})

	_, err := svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID: eventID.String(), Quantity: 7, PaymentMethod: "card", Attendees: makeAttendees(7),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.available(eventID))

	_, err = svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID: eventID.String(), Quantity: 5, PaymentMethod: "card", Attendees: makeAttendees(5),
	})
	assert.ErrorIs(t, err, events.ErrInsufficientSeats)
	assert.Equal(t, 3, store.available(eventID), "failed reservation must not change inventory")
}

func TestService_Reserve_ConcurrentOverlap(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(10, 100.0, events.StatusPublished)
	svc := newTestService(store, &stubGateway{intentID: "pi_c"})

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
				EventID: eventID.String(), Quantity: 6, PaymentMethod: "card", Attendees: makeAttendees(6),
			})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		if err == nil {
			successes++
		} else if errors.Is(err, events.ErrInsufficientSeats) {
			conflicts++
		}
	}
	assert.Equal(t, 1, successes, "exactly one of two overlapping reservations may win")
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 4, store.available(eventID))
}

func TestService_GetBooking_Ownership(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(10, 0, events.StatusPublished)
	svc := newTestService(store, &stubGateway{})

	owner := uuid.New()
	res, err := svc.Reserve(context.Background(), owner, ReservationRequest{
		EventID: eventID.String(), Quantity: 1, Attendees: makeAttendees(1),
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(res.BookingID)

	_, err = svc.GetBooking(context.Background(), bookingID, owner, false)
	assert.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), bookingID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotAllowed)

	_, err = svc.GetBooking(context.Background(), bookingID, uuid.New(), true)
	assert.NoError(t, err, "admins may read any booking")
}

func TestService_ConfirmPending(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(10, 40.0, events.StatusPublished)
	svc := newTestService(store, &stubGateway{intentID: "pi_conf"})

	res, err := svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID: eventID.String(), Quantity: 2, PaymentMethod: "card", Attendees: makeAttendees(2),
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(res.BookingID)

	require.NoError(t, svc.ConfirmPending(context.Background(), bookingID, "TXN_1"))

	stored, err := store.GetBookingByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.Status)
	assert.Equal(t, PaymentStatusCompleted, stored.PaymentStatus)
	assert.Equal(t, "TXN_1", stored.TransactionID)
	assert.Equal(t, 8, store.available(eventID), "confirmation does not move seats")

	// A second confirmation loses the guard.
	err = svc.ConfirmPending(context.Background(), bookingID, "TXN_2")
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestService_Reverse_IdempotentSeatRestore(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(10, 40.0, events.StatusPublished)
	svc := newTestService(store, &stubGateway{intentID: "pi_rev"})

	res, err := svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID: eventID.String(), Quantity: 7, PaymentMethod: "card", Attendees: makeAttendees(7),
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(res.BookingID)
	assert.Equal(t, 3, store.available(eventID))

	require.NoError(t, svc.Reverse(context.Background(), bookingID, StatusPending, StatusCancelled))
	assert.Equal(t, 10, store.available(eventID), "cancellation returns every seat")

	// Repeating the reversal must not restore seats again.
	err = svc.Reverse(context.Background(), bookingID, StatusPending, StatusCancelled)
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
	assert.Equal(t, 10, store.available(eventID))
}

func TestService_Reverse_RejectsInvalidTransition(t *testing.T) {
	store := newFakeStore()
	store.addEvent(10, 40.0, events.StatusPublished)
	svc := newTestService(store, &stubGateway{})

	err := svc.Reverse(context.Background(), uuid.New(), StatusPending, StatusRefunded)
	assert.ErrorIs(t, err, ErrStateConflict, "pending bookings cannot be refunded")
}

func TestService_NotePaymentFailure_KeepsSeatsHeld(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(10, 25.0, events.StatusPublished)
	svc := newTestService(store, &stubGateway{intentID: "pi_fail"})

	res, err := svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID: eventID.String(), Quantity: 4, PaymentMethod: "card", Attendees: makeAttendees(4),
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(res.BookingID)

	require.NoError(t, svc.NotePaymentFailure(context.Background(), bookingID))

	stored, err := store.GetBookingByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status, "a failed payment leaves the booking retryable")
	assert.Equal(t, PaymentStatusFailed, stored.PaymentStatus)
	assert.Equal(t, 6, store.available(eventID), "seats stay held across a payment failure")
}

func TestService_AbandonPending_ReleasesSeats(t *testing.T) {
	store := newFakeStore()
	eventID := store.addEvent(10, 25.0, events.StatusPublished)
	svc := newTestService(store, &stubGateway{intentID: "pi_ab"})

	res, err := svc.Reserve(context.Background(), uuid.New(), ReservationRequest{
		EventID: eventID.String(), Quantity: 4, PaymentMethod: "card", Attendees: makeAttendees(4),
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(res.BookingID)

	require.NoError(t, svc.AbandonPending(context.Background(), bookingID))

	stored, err := store.GetBookingByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
	assert.Equal(t, 10, store.available(eventID))
}
