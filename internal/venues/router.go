package venues

import (
	"venyuk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	venues := rg.Group("/venues")
	{
		venues.GET("", controller.ListVenues)               // GET /api/v1/venues
		venues.GET("/categories", controller.GetCategories) // GET /api/v1/venues/categories
		venues.GET("/:id", controller.GetVenue)             // GET /api/v1/venues/:id
		venues.GET("/:id/slots", controller.GetSlots)       // GET /api/v1/venues/:id/slots?date=
	}

	admin := rg.Group("/admin/venues")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateVenue)                       // POST /api/v1/admin/venues
		admin.PUT("/:id", controller.UpdateVenue)                    // PUT /api/v1/admin/venues/:id
		admin.PATCH("/:id/availability", controller.SetAvailability) // PATCH /api/v1/admin/venues/:id/availability
	}
}
