package promos

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromoResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Code            string    `json:"code"`
	Scope           string    `json:"scope"`
	Description     string    `json:"description"`
	DiscountPercent int       `json:"discount_percent"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	MaxUses         int       `json:"max_uses"`
	RemainingUses   int       `json:"remaining_uses"`
	IsActive        bool      `json:"is_active"`
	Status          string    `json:"status"`
}

type PromoListResponse struct {
	Results  []PromoResponse `json:"results"`
	Page     int             `json:"page"`
	NumPages int             `json:"num_pages"`
	Total    int64           `json:"total"`
}

type CheckPromoResponse struct {
	Code            string          `json:"code"`
	Scope           string          `json:"scope"`
	Valid           bool            `json:"valid"`
	Message         string          `json:"message"`
	DiscountPercent int             `json:"discount_percent"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	RemainingUses   int             `json:"remaining_uses"`
}
