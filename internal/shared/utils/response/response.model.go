package response

// StandardApiResponse is the wire envelope for every booking, payment,
// cancellation and ticket endpoint. Data carries the domain payload on
// success (a reservation, a cancellation record, a ticket artifact); Errors
// carries validation or reconciliation detail on failure.
type StandardApiResponse struct {
	Status     string      `json:"status"` // "success" or "error"
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
