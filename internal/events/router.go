package events

import (
	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures the inventory read-side routes
func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events")
	{
		events.GET("/:id/availability", controller.GetAvailability) // GET /api/v1/events/:id/availability
	}
}
