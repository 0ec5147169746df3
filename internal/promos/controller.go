package promos

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

func (c *Controller) ListActive(ctx *gin.Context) {
	var query ListPromosQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListActive(ctx.Request.Context(), query)
	if err != nil {
		c.fail(ctx, err, "Failed to get promos")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promos retrieved successfully", result, nil)
}

func (c *Controller) GetByCode(ctx *gin.Context) {
	promo, err := c.service.GetByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		c.fail(ctx, err, "Failed to get promo")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promo retrieved successfully", promo, nil)
}

func (c *Controller) CheckCode(ctx *gin.Context) {
	var query CheckPromoQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "code and amount are required", nil, err.Error())
		return
	}

	result, err := c.service.CheckCode(ctx.Request.Context(), query)
	if err != nil {
		c.fail(ctx, err, "Failed to check promo")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, result.Message, result, nil)
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreatePromoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	adminID, _ := middleware.CurrentUserID(ctx)
	promo, err := c.service.Create(ctx.Request.Context(), req, adminID)
	if err != nil {
		c.fail(ctx, err, "Failed to create promo")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Promo created successfully", promo, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	var req UpdatePromoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	promo, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err, "Failed to update promo")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promo updated successfully", promo, nil)
}

func (c *Controller) Deactivate(ctx *gin.Context) {
	if err := c.service.Deactivate(ctx.Request.Context(), ctx.Param("id")); err != nil {
		c.fail(ctx, err, "Failed to deactivate promo")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promo deactivated successfully", nil, nil)
}

func (c *Controller) fail(ctx *gin.Context, err error, message string) {
	statusCode := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.Is(err, ErrPromoNotFound):
		statusCode, detail = http.StatusNotFound, err.Error()
	case errors.Is(err, ErrCodeTaken):
		statusCode, detail = http.StatusConflict, err.Error()
	case errors.Is(err, ErrInvalidScope),
		errors.Is(err, ErrInvalidCode),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidPromoID),
		errors.Is(err, ErrInvalidWindow),
		errors.Is(err, ErrMaxUsesTooLow):
		statusCode, detail = http.StatusBadRequest, err.Error()
	}

	c.log.LogHTTPError(ctx, err, statusCode)
	response.RespondJSON(ctx, "error", statusCode, message, nil, detail)
}
