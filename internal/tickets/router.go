package tickets

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures ticket issuance and verification routes
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		bookings.GET("/:id/ticket", controller.IssueTicket) // GET /api/v1/bookings/:id/ticket
	}

	// Verification is used by door scanners authenticated at the gateway.
	tickets := rg.Group("/tickets")
	{
		tickets.POST("/verify", controller.VerifyTicket) // POST /api/v1/tickets/verify
	}
}
