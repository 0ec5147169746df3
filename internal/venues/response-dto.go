package venues

import (
	"time"

	"github.com/shopspring/decimal"
)

type VenueResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Address      string          `json:"address"`
	Thumbnail    string          `json:"thumbnail,omitempty"`
	Rating       float64         `json:"rating"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
	IsAvailable  bool            `json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
}

type VenueListResponse struct {
	Results  []VenueResponse `json:"results"`
	Page     int             `json:"page"`
	NumPages int             `json:"num_pages"`
	Total    int64           `json:"total"`
}

type CategoryResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type SlotResponse struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Label  string `json:"label"`
	Booked bool   `json:"booked"`
}

type SlotsResponse struct {
	VenueID string         `json:"venue_id"`
	Date    string         `json:"date"`
	Slots   []SlotResponse `json:"slots"`
}
