package promos

import (
	"venyuk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPromoRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	promos := rg.Group("/promos")
	{
		promos.GET("", controller.ListActive)      // GET /api/v1/promos
		promos.GET("/check", controller.CheckCode) // GET /api/v1/promos/check?code=&scope=&amount=
		promos.GET("/:code", controller.GetByCode) // GET /api/v1/promos/:code
	}

	admin := rg.Group("/admin/promos")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.POST("", controller.Create)           // POST /api/v1/admin/promos
		admin.PUT("/:id", controller.Update)        // PUT /api/v1/admin/promos/:id
		admin.DELETE("/:id", controller.Deactivate) // DELETE /api/v1/admin/promos/:id
	}
}
