package payments

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures payment reconciliation routes
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	// The webhook is authenticated by its signature, not a user token.
	payments := rg.Group("/payments")
	{
		payments.POST("/webhook", controller.HandleWebhook) // POST /api/v1/payments/webhook
	}

	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		bookings.POST("/:id/payment/sync", controller.SyncPayment) // POST /api/v1/bookings/:id/payment/sync
	}
}
