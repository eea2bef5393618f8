// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"ticketly/internal/bookings"
	"ticketly/internal/cancellation"
	"ticketly/internal/events"
	"ticketly/internal/notifications"
	"ticketly/internal/payments"
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/database"
	"ticketly/internal/tickets"
	"ticketly/pkg/cache"
	"ticketly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	logger   *logger.Logger
	producer notifications.Producer

	// Shared service instances, wired once and injected across features.
	eventService   events.Service
	bookingService bookings.Service
	paymentGateway payments.Gateway
}

// NewRouter creates a new router instance. producer may be nil when Kafka is
// disabled.
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		logger:   log,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Events first: bookings depend on the inventory ledger.
		r.setupEventRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupCancellationRoutes(api)
		r.setupTicketRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "ticketly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "ticketly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupEventRoutes configures the inventory ledger routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())

	var cacheService cache.Service
	if redisClient := r.db.GetRedisClient(); redisClient != nil {
		cacheService = cache.NewService(redisClient)
	}

	r.eventService = events.NewService(eventRepo, cacheService, r.config.Redis.AvailabilityTTL)
	eventController := events.NewController(r.eventService)

	events.SetupEventRoutes(rg, eventController)
}

// setupBookingRoutes configures booking management routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	r.paymentGateway = payments.NewMockGateway(50 * time.Millisecond)

	r.bookingService = bookings.NewService(bookingRepo, r.eventService, r.paymentGateway, r.producer, r.logger)
	bookingController := bookings.NewController(r.bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupPaymentRoutes configures payment reconciliation routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())

	paymentService := payments.NewService(paymentRepo, r.bookingService, bookingRepo, r.paymentGateway, r.config.Gateway.Timeout, r.logger)
	paymentController := payments.NewController(paymentService, r.config.Gateway.WebhookSecret)

	payments.SetupPaymentRoutes(rg, paymentController)
}

// setupCancellationRoutes configures cancellation routes
func (r *Router) setupCancellationRoutes(rg *gin.RouterGroup) {
	cancellationRepo := cancellation.NewRepository(r.db.GetPostgreSQL())
	cancellationService := cancellation.NewService(cancellationRepo, r.bookingService, r.eventService)
	cancellationController := cancellation.NewController(cancellationService)

	cancellation.SetupCancellationRoutes(rg, cancellationController)
}

// setupTicketRoutes configures ticket issuance and verification routes
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	signer := tickets.NewSigner(r.config.JWT.TicketSecret)
	ticketService := tickets.NewService(r.bookingService, signer, r.logger)
	ticketController := tickets.NewController(ticketService)

	tickets.SetupTicketRoutes(rg, ticketController)
}
