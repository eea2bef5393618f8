package bookings

import "time"

type ReservationResponse struct {
	BookingID       string    `json:"booking_id"`
	BookingRef      string    `json:"booking_ref"`
	EventID         string    `json:"event_id"`
	Status          string    `json:"status"`
	Quantity        int       `json:"quantity"`
	TotalAmount     float64   `json:"total_amount"`
	Currency        string    `json:"currency"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToReservationResponse converts a freshly created booking to the response
// returned from the reserve endpoint.
func (b *Booking) ToReservationResponse() *ReservationResponse {
	return &ReservationResponse{
		BookingID:       b.ID.String(),
		BookingRef:      b.BookingRef,
		EventID:         b.EventID.String(),
		Status:          b.Status.String(),
		Quantity:        b.Quantity,
		TotalAmount:     b.TotalAmount,
		Currency:        b.Currency,
		PaymentIntentID: b.PaymentIntentID,
		CreatedAt:       b.CreatedAt,
	}
}
