package bookings

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status admits no further transitions.
// A terminal booking's seats have already been returned to the ledger.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// HoldsSeats reports whether a booking in this status counts against the
// event's available seats. The transition out of a seat-holding status is
// the single point where the matching inventory increment happens, which is
// what makes seat restoration idempotent.
func (s Status) HoldsSeats() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo reports whether the state machine allows moving from s to
// target. Terminal states admit nothing; resurrection of a cancelled or
// refunded booking is rejected here.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCancelled || target == StatusRefunded
	default:
		return false
	}
}

// PaymentStatus tracks the payment leg of a booking. Written only by the
// payment reconciliation unit.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// IsValid checks if the payment status is valid
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (p PaymentStatus) String() string {
	return string(p)
}
