package products

import (
	"venyuk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupProductRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	userOrAdmin := middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin)

	products := rg.Group("/products")
	{
		products.GET("", controller.ListProducts)                              // GET /api/v1/products?category=&q=
		products.GET("/:id", controller.GetProduct)                            // GET /api/v1/products/:id
		products.POST("/:id/checkout", auth, userOrAdmin, controller.Checkout) // POST /api/v1/products/:id/checkout
	}

	rg.GET("/purchases", auth, userOrAdmin, controller.ListPurchases) // GET /api/v1/purchases

	admin := rg.Group("/admin/products")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateProduct) // POST /api/v1/admin/products
	}
}
