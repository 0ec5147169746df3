package products

import (
	"errors"
	"net/http"

	"venyuk/internal/shared/middleware"
	"venyuk/internal/shared/utils/response"
	"venyuk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
	log       *logger.Logger
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
		log:       logger.GetDefault(),
	}
}

// ListProducts handles GET /api/v1/products
func (c *Controller) ListProducts(ctx *gin.Context) {
	var query ListProductsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListProducts(ctx.Request.Context(), query)
	if err != nil {
		c.fail(ctx, err, "Failed to get products")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Products retrieved successfully", result, nil)
}

// GetProduct handles GET /api/v1/products/:id
func (c *Controller) GetProduct(ctx *gin.Context) {
	product, err := c.service.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err, "Failed to get product")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Product retrieved successfully", product, nil)
}

// Checkout handles POST /api/v1/products/:id/checkout
func (c *Controller) Checkout(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CheckoutRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBind(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
			return
		}
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := c.service.Checkout(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err, "Failed to complete purchase")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, result.Message, result, nil)
}

// ListPurchases handles GET /api/v1/purchases
func (c *Controller) ListPurchases(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var query ListPurchasesQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListPurchases(ctx.Request.Context(), userID, query)
	if err != nil {
		c.fail(ctx, err, "Failed to get purchases")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Purchases retrieved successfully", result, nil)
}

// CreateProduct handles POST /api/v1/admin/products
func (c *Controller) CreateProduct(ctx *gin.Context) {
	var req CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	product, err := c.service.CreateProduct(ctx.Request.Context(), req)
	if err != nil {
		c.fail(ctx, err, "Failed to create product")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Product created successfully", product, nil)
}

func (c *Controller) fail(ctx *gin.Context, err error, message string) {
	statusCode := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.Is(err, ErrProductNotFound):
		statusCode, detail = http.StatusNotFound, err.Error()
	case errors.Is(err, ErrOutOfStock):
		statusCode, detail = http.StatusConflict, err.Error()
	case errors.Is(err, ErrInvalidProductID),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidPrice):
		statusCode, detail = http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrCheckoutFailed):
		detail = err.Error()
	}

	c.log.LogHTTPError(ctx, err, statusCode)
	response.RespondJSON(ctx, "error", statusCode, message, nil, detail)
}
