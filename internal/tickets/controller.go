package tickets

import (
	"errors"
	"net/http"

	"ticketly/internal/bookings"
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

// VerificationRequest is the verify endpoint's body.
type VerificationRequest struct {
	Artifact string `json:"artifact" binding:"required"`
}

// IssueTicket handles GET /api/v1/bookings/:id/ticket
func (c *Controller) IssueTicket(ctx *gin.Context) {
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

	ticket, err := c.service.Issue(ctx.Request.Context(), bookingID, requesterID, middleware.IsAdmin(ctx))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, bookings.ErrNotAllowed):
			response.RespondJSON(ctx, "error", http.StatusForbidden, err.Error(), nil, nil)
		case errors.Is(err, bookings.ErrNotConfirmed):
			response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to issue ticket", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket issued successfully", ticket, nil)
}

// VerifyTicket handles POST /api/v1/tickets/verify
func (c *Controller) VerifyTicket(ctx *gin.Context) {
	var req VerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.Verify(ctx.Request.Context(), req.Artifact)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to verify ticket", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket verification completed", result, nil)
}
