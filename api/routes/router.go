// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"venyuk/internal/bookings"
	"venyuk/internal/matches"
	"venyuk/internal/notifications"
	"venyuk/internal/products"
	"venyuk/internal/promos"
	"venyuk/internal/shared/config"
	"venyuk/internal/shared/middleware"
	"venyuk/internal/venues"
	"venyuk/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// HealthChecker reports whether the backing stores are reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *gorm.DB
	health    HealthChecker
	cache     cache.Service
	publisher notifications.Publisher
	now       func() time.Time
}

// NewRouter creates a new router instance. A nil now uses time.Now.
func NewRouter(cfg *config.Config, db *gorm.DB, health HealthChecker, cacheService cache.Service, publisher notifications.Publisher, now func() time.Time) *Router {
	if now == nil {
		now = time.Now
	}
	return &Router{
		config:    cfg,
		db:        db,
		health:    health,
		cache:     cacheService,
		publisher: publisher,
		now:       now,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	auth := middleware.JWTAuthWithConfig(r.config)

	// Venues own the slot cache that bookings invalidate, and promos own the
	// listing cache a redemption invalidates
	bookingRepo := bookings.NewRepository(r.db)
	venueRepo := venues.NewRepository(r.db)
	venueService := venues.NewService(venueRepo, bookingRepo, r.cache, r.config)

	promoRepo := promos.NewRepository(r.db)
	resolver := promos.NewResolver(promoRepo, r.now)
	promoService := promos.NewService(promoRepo, resolver, r.cache, r.now)

	bookingService := bookings.NewService(r.db, bookingRepo, resolver, venueService, promoService, r.publisher, r.config.Booking, r.now)
	matchService := matches.NewService(r.db, matches.NewRepository(r.db), venueRepo, r.now)
	productService := products.NewService(r.db, products.NewRepository(r.db), resolver, promoService, r.now)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		venues.SetupVenueRoutes(api, venues.NewController(venueService), auth)
		promos.SetupPromoRoutes(api, promos.NewController(promoService), auth)
		bookings.SetupBookingRoutes(api, bookings.NewController(bookingService), auth)
		matches.SetupMatchRoutes(api, matches.NewController(matchService), auth)
		products.SetupProductRoutes(api, products.NewController(productService), auth)
	}
}

// setupHealthRoutes sets up health check, system status and metrics routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if r.health != nil {
			if err := r.health.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "unhealthy",
					"error":     err.Error(),
					"timestamp": time.Now(),
					"service":   "venyuk-backend",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "venyuk-backend",
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
			"timezone":    r.config.Booking.Timezone,
			"timestamp":   time.Now(),
		})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
