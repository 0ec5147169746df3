package matches

import (
	"venyuk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupMatchRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	userOrAdmin := middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin)

	matches := rg.Group("/matches")
	{
		matches.GET("", controller.ListMatches)                            // GET /api/v1/matches?category=
		matches.GET("/:id", controller.GetMatch)                           // GET /api/v1/matches/:id
		matches.POST("", auth, userOrAdmin, controller.CreateMatch)        // POST /api/v1/matches
		matches.POST("/:id/join", auth, userOrAdmin, controller.JoinMatch) // POST /api/v1/matches/:id/join
	}
}
