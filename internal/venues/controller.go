package venues

import (
	"errors"
	"net/http"

	"venyuk/internal/shared/utils/response"
	"venyuk/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
	log     *logger.Logger
}

func NewController(service Service) *Controller {
	return &Controller{service: service, log: logger.GetDefault()}
}

func (c *Controller) ListVenues(ctx *gin.Context) {
	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListVenues(ctx.Request.Context(), query)
	if err != nil {
		c.fail(ctx, err, "Failed to get venues")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venues retrieved successfully", result, nil)
}

func (c *Controller) GetCategories(ctx *gin.Context) {
	categories, err := c.service.GetCategories(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, err, "Failed to get categories")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Categories retrieved successfully", categories, nil)
}

func (c *Controller) GetVenue(ctx *gin.Context) {
	venue, err := c.service.GetVenue(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err, "Failed to get venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue retrieved successfully", venue, nil)
}

func (c *Controller) GetSlots(ctx *gin.Context) {
	var query SlotsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "date query parameter is required", nil, err.Error())
		return
	}

	slots, err := c.service.GetSlots(ctx.Request.Context(), ctx.Param("id"), query.Date)
	if err != nil {
		c.fail(ctx, err, "Failed to get availability slots")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Slots retrieved successfully", slots, nil)
}

//  ADMIN

func (c *Controller) CreateVenue(ctx *gin.Context) {
	var req CreateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	venue, err := c.service.CreateVenue(ctx.Request.Context(), req)
	if err != nil {
		c.fail(ctx, err, "Failed to create venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Venue created successfully", venue, nil)
}

func (c *Controller) UpdateVenue(ctx *gin.Context) {
	var req UpdateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	venue, err := c.service.UpdateVenue(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err, "Failed to update venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue updated successfully", venue, nil)
}

func (c *Controller) SetAvailability(ctx *gin.Context) {
	var req AvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	venue, err := c.service.SetAvailability(ctx.Request.Context(), ctx.Param("id"), *req.IsAvailable)
	if err != nil {
		c.fail(ctx, err, "Failed to update venue availability")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue availability updated", venue, nil)
}

func (c *Controller) fail(ctx *gin.Context, err error, message string) {
	statusCode := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.Is(err, ErrVenueNotFound):
		statusCode, detail = http.StatusNotFound, err.Error()
	case errors.Is(err, ErrInvalidVenueID),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidDate):
		statusCode, detail = http.StatusBadRequest, err.Error()
	}

	c.log.LogHTTPError(ctx, err, statusCode)
	response.RespondJSON(ctx, "error", statusCode, message, nil, detail)
}
