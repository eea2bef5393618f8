package bookings

type ReservationRequest struct {
	EventID       string            `json:"event_id" validate:"required,uuid"`
	Quantity      int               `json:"quantity" validate:"required,min=1"`
	Currency      string            `json:"currency" validate:"omitempty,len=3"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=card upi netbanking wallet"`
	Attendees     []AttendeeRequest `json:"attendees" validate:"required,min=1,dive"`
}

type AttendeeRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty"`
}

type ListBookingsQuery struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}
