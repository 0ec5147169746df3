package venues

import "github.com/shopspring/decimal"

// ListQuery mirrors the catalogue query string. Numeric filters are kept as
// strings so malformed values can be ignored instead of failing the request.
type ListQuery struct {
	Q         string `form:"q"`
	Category  string `form:"category"`
	MinPrice  string `form:"min_price"`
	MaxPrice  string `form:"max_price"`
	MinRating string `form:"min_rating"`
	Sort      string `form:"sort"`
	Page      string `form:"page"`
	Limit     string `form:"limit"`
}

type CreateVenueRequest struct {
	Name         string          `json:"name" binding:"required,min=2,max=200"`
	Category     string          `json:"category" binding:"required"`
	Address      string          `json:"address" binding:"max=1000"`
	Thumbnail    string          `json:"thumbnail" binding:"omitempty,url"`
	Rating       float64         `json:"rating" binding:"min=0,max=5"`
	PricePerHour decimal.Decimal `json:"price_per_hour" binding:"required"`
	IsAvailable  *bool           `json:"is_available"`
}

type UpdateVenueRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=2,max=200"`
	Category     *string          `json:"category"`
	Address      *string          `json:"address" binding:"omitempty,max=1000"`
	Thumbnail    *string          `json:"thumbnail" binding:"omitempty,url"`
	Rating       *float64         `json:"rating" binding:"omitempty,min=0,max=5"`
	PricePerHour *decimal.Decimal `json:"price_per_hour"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

type SlotsQuery struct {
	Date string `form:"date" binding:"required"`
}
