package bookings

import (
	"errors"
	"net/http"

	"venyuk/internal/shared/middleware"
	"venyuk/internal/shared/utils/response"
	"venyuk/internal/venues"
	"venyuk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
	log     *logger.Logger
}

func NewController(service Service) *Controller {
	return &Controller{service: service, log: logger.GetDefault()}
}

func (c *Controller) currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}

// CreateBooking handles POST /api/v1/venues/:id/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	// Form posts and JSON bodies are both accepted
	var req CreateBookingRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.CreateBooking(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err, "Failed to create booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, result.Message, result, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), userID, middleware.IsAdmin(ctx), ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err, "Failed to get booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetUserBookings handles GET /api/v1/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListUserBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		c.fail(ctx, err, "Failed to get user bookings")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

// EditBooking handles PUT /api/v1/bookings/:id
func (c *Controller) EditBooking(ctx *gin.Context) {
	userID, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	var req EditBookingRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	booking, err := c.service.EditBooking(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err, "Failed to update booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking updated successfully", booking, nil)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	userID, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err, "Failed to cancel booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

// ConfirmBooking handles POST /api/v1/admin/bookings/:id/confirm
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	booking, err := c.service.ConfirmBooking(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err, "Failed to confirm booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking confirmed successfully", booking, nil)
}

// CompleteBooking handles POST /api/v1/admin/bookings/:id/complete
func (c *Controller) CompleteBooking(ctx *gin.Context) {
	booking, err := c.service.CompleteBooking(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err, "Failed to complete booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking completed successfully", booking, nil)
}

func (c *Controller) fail(ctx *gin.Context, err error, message string) {
	var (
		validationErr *ValidationError
		conflictErr   *ConflictError
	)

	statusCode := http.StatusInternalServerError
	var detail interface{} = err.Error()

	switch {
	case errors.As(err, &validationErr):
		statusCode, detail = http.StatusBadRequest, validationErr
	case errors.As(err, &conflictErr):
		statusCode = http.StatusConflict
		if len(conflictErr.Windows) > 0 {
			detail = gin.H{"message": ErrSlotConflict.Error(), "conflicts": conflictErr.Windows}
		}
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, venues.ErrVenueNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		statusCode = http.StatusForbidden
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrAlreadyStarted):
		statusCode = http.StatusConflict
	case errors.Is(err, ErrInvalidBookingID),
		errors.Is(err, venues.ErrInvalidVenueID),
		errors.Is(err, venues.ErrVenueUnavailable):
		statusCode = http.StatusBadRequest
	}

	c.log.LogHTTPError(ctx, err, statusCode)
	response.RespondJSON(ctx, "error", statusCode, message, nil, detail)
}
