package bookings

import (
	"errors"
	"net/http"

	"ticketly/internal/events"
	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// Reserve handles POST /api/v1/bookings
func (c *Controller) Reserve(ctx *gin.Context) {
	requesterID, ok := requesterUUID(ctx)
	if !ok {
		return
	}

	var req ReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	res, err := c.service.Reserve(ctx.Request.Context(), requesterID, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to reserve booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking reserved successfully", res, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	requesterID, ok := requesterUUID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID, requesterID, middleware.IsAdmin(ctx))
	if err != nil {
		respondServiceError(ctx, err, "Failed to get booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetUserBookings handles GET /api/v1/users/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	requesterID, ok := requesterUUID(ctx)
	if !ok {
		return
	}

	var query ListBookingsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid pagination parameters", nil, err.Error())
		return
	}

	bookings, err := c.service.GetUserBookings(ctx.Request.Context(), requesterID, query.Limit, query.Offset)
	if err != nil {
		respondServiceError(ctx, err, "Failed to list bookings")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings": bookings,
		"count":    len(bookings),
		"limit":    query.Limit,
		"offset":   query.Offset,
	}, nil)
}

// requesterUUID extracts the authenticated user's id, responding 401/500 on
// failure.
func requesterUUID(ctx *gin.Context) (uuid.UUID, bool) {
	idStr, ok := middleware.RequesterID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Invalid user ID in token", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps domain errors to HTTP status codes.
func respondServiceError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, events.ErrEventNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, events.ErrInsufficientSeats),
		errors.Is(err, events.ErrEventNotBookable),
		errors.Is(err, ErrStateConflict),
		errors.Is(err, ErrAlreadyTerminal),
		errors.Is(err, ErrNotConfirmed):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrNotAllowed):
		response.RespondJSON(ctx, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrAttendeeMismatch):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}
