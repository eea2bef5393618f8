package events

import "errors"

var (
	// ErrEventNotFound means the referenced event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrEventNotBookable means the event exists but is not open for booking
	// (draft, cancelled or completed).
	ErrEventNotBookable = errors.New("event is not available for booking")

	// ErrInsufficientSeats means the conditional decrement found fewer seats
	// than requested. Distinct from not-found so callers can retry with a
	// smaller quantity.
	ErrInsufficientSeats = errors.New("not enough available seats")

	// ErrCapacityExceeded means a seat restoration would push available_seats
	// past capacity. Indicates a double release; the increment is refused.
	ErrCapacityExceeded = errors.New("seat release would exceed event capacity")
)
