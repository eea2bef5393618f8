package cancellation

import (
	"errors"
	"net/http"

	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	requesterStr, ok := middleware.RequesterID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	requesterID, err := uuid.Parse(requesterStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Invalid user ID in token", nil, nil)
		return
	}

	var req CancellationRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	record, err := c.service.Cancel(ctx.Request.Context(), bookingID, requesterID, middleware.IsAdmin(ctx), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, events.ErrEventNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, bookings.ErrNotAllowed):
			response.RespondJSON(ctx, "error", http.StatusForbidden, err.Error(), nil, nil)
		case errors.Is(err, bookings.ErrAlreadyTerminal), errors.Is(err, bookings.ErrStateConflict), errors.Is(err, ErrEventAlreadyStarted):
			response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to cancel booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", record, nil)
}
