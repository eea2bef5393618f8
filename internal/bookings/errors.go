package bookings

import "errors"

var (
	// ErrBookingNotFound means the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidQuantity means the requested quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrAttendeeMismatch means the attendee list length does not match the
	// requested quantity.
	ErrAttendeeMismatch = errors.New("attendee count must match quantity")

	// ErrStateConflict means a transition was attempted from a state other
	// than the expected one: someone else changed the booking first, or the
	// same action was submitted twice.
	ErrStateConflict = errors.New("booking is not in the expected state")

	// ErrAlreadyTerminal means the booking is cancelled or refunded and
	// admits no further transitions.
	ErrAlreadyTerminal = errors.New("booking is already cancelled or refunded")

	// ErrNotAllowed means the requester is neither the booking's owner nor
	// an admin.
	ErrNotAllowed = errors.New("booking does not belong to requester")

	// ErrNotConfirmed means a ticket was requested for a booking that is not
	// in the confirmed state.
	ErrNotConfirmed = errors.New("booking is not confirmed")
)
