package bookings

import (
	"venyuk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	userOrAdmin := middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin)

	// Booking creation hangs off the venue it reserves
	rg.POST("/venues/:id/bookings", auth, userOrAdmin, controller.CreateBooking) // POST /api/v1/venues/:id/bookings

	bookings := rg.Group("/bookings")
	bookings.Use(auth, userOrAdmin)
	{
		bookings.GET("", controller.GetUserBookings)           // GET /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)            // GET /api/v1/bookings/:id
		bookings.PUT("/:id", controller.EditBooking)           // PUT /api/v1/bookings/:id
		bookings.POST("/:id/cancel", controller.CancelBooking) // POST /api/v1/bookings/:id/cancel
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.POST("/:id/confirm", controller.ConfirmBooking)   // POST /api/v1/admin/bookings/:id/confirm
		admin.POST("/:id/complete", controller.CompleteBooking) // POST /api/v1/admin/bookings/:id/complete
	}
}
