package promos

import "time"

type CreatePromoRequest struct {
	Title           string    `json:"title" validate:"required,min=3,max=200"`
	Code            string    `json:"code" validate:"omitempty,min=4,max=32"`
	Scope           string    `json:"scope" validate:"omitempty,oneof=VENUE SHOP venue shop"`
	Description     string    `json:"description" validate:"max=2000"`
	DiscountPercent int       `json:"discount_percent" validate:"required,min=1,max=100"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	MaxUses         int       `json:"max_uses" validate:"required,min=1"`
}

// UpdatePromoRequest changes only the fields that are present. The code is
// fixed once issued.
type UpdatePromoRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Scope           *string    `json:"scope" validate:"omitempty,oneof=VENUE SHOP venue shop"`
	Description     *string    `json:"description" validate:"omitempty,max=2000"`
	DiscountPercent *int       `json:"discount_percent" validate:"omitempty,min=1,max=100"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	MaxUses         *int       `json:"max_uses" validate:"omitempty,min=1"`
	IsActive        *bool      `json:"is_active"`
}

type ListPromosQuery struct {
	Scope string `form:"scope"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

type CheckPromoQuery struct {
	Code   string `form:"code" binding:"required"`
	Scope  string `form:"scope"`
	Amount string `form:"amount" binding:"required"`
}
