package matches

import (
	"errors"
	"net/http"

	"venyuk/internal/shared/middleware"
	"venyuk/internal/shared/utils/response"
	"venyuk/internal/venues"
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

// ListMatches handles GET /api/v1/matches
func (c *Controller) ListMatches(ctx *gin.Context) {
	var query ListMatchesQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListMatches(ctx.Request.Context(), query)
	if err != nil {
		c.fail(ctx, err, "Failed to get matches")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Matches retrieved successfully", result, nil)
}

// GetMatch handles GET /api/v1/matches/:id
func (c *Controller) GetMatch(ctx *gin.Context) {
	match, err := c.service.GetMatch(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err, "Failed to get match")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Match retrieved successfully", match, nil)
}

// CreateMatch handles POST /api/v1/matches
func (c *Controller) CreateMatch(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateMatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	match, err := c.service.CreateMatch(ctx.Request.Context(), userID, req)
	if err != nil {
		c.fail(ctx, err, "Failed to create match")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Match created successfully", match, nil)
}

// JoinMatch handles POST /api/v1/matches/:id/join
func (c *Controller) JoinMatch(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req JoinMatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	match, err := c.service.JoinMatch(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err, "Failed to join match")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Joined match successfully", match, nil)
}

func (c *Controller) fail(ctx *gin.Context, err error, message string) {
	statusCode := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.Is(err, ErrMatchNotFound), errors.Is(err, venues.ErrVenueNotFound):
		statusCode, detail = http.StatusNotFound, err.Error()
	case errors.Is(err, ErrMatchFull),
		errors.Is(err, ErrAlreadyJoined),
		errors.Is(err, ErrMatchStarted):
		statusCode, detail = http.StatusConflict, err.Error()
	case errors.Is(err, ErrInvalidMatchID),
		errors.Is(err, ErrInvalidSchedule),
		errors.Is(err, ErrStartInPast),
		errors.Is(err, ErrInvalidDifficulty),
		errors.Is(err, ErrInvalidSlotTotal),
		errors.Is(err, venues.ErrInvalidVenueID):
		statusCode, detail = http.StatusBadRequest, err.Error()
	}

	c.log.LogHTTPError(ctx, err, statusCode)
	response.RespondJSON(ctx, "error", statusCode, message, nil, detail)
}
