package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service       Service
	webhookSecret string
	validator     *validator.Validate
}

func NewController(service Service, webhookSecret string) *Controller {
	return &Controller{service: service, webhookSecret: webhookSecret, validator: validator.New()}
}

// HandleWebhook handles POST /api/v1/payments/webhook
//
// The gateway signs the raw body with HMAC-SHA256 and sends the hex digest
// in X-Webhook-Signature. An empty configured secret disables verification
// for local development.
func (c *Controller) HandleWebhook(ctx *gin.Context) {
	body, err := ctx.GetRawData()
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to read request body", nil, nil)
		return
	}

	if c.webhookSecret != "" && !c.verifySignature(body, ctx.GetHeader("X-Webhook-Signature")) {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid webhook signature", nil, nil)
		return
	}

	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid webhook payload", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result := &GatewayResult{
		IntentID:      req.IntentID,
		Status:        GatewayStatus(req.Status),
		TransactionID: req.TransactionID,
		Reason:        req.Reason,
	}

	if err := c.service.Reconcile(ctx.Request.Context(), result); err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "No booking for payment intent", nil, nil)
		case errors.Is(err, bookings.ErrStateConflict), errors.Is(err, bookings.ErrAlreadyTerminal):
			response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to reconcile payment", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment reconciled", nil, nil)
}

// SyncPayment handles POST /api/v1/bookings/:id/payment/sync
func (c *Controller) SyncPayment(ctx *gin.Context) {
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

	res, err := c.service.Sync(ctx.Request.Context(), bookingID, requesterID, middleware.IsAdmin(ctx))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, events.ErrEventNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, bookings.ErrNotAllowed):
			response.RespondJSON(ctx, "error", http.StatusForbidden, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusBadGateway, "Failed to sync payment status", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment status synced", res, nil)
}

func (c *Controller) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
