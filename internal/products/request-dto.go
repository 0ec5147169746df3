package products

import "github.com/shopspring/decimal"

// ListProductsQuery accepts repeated category params, as in ?category=tennis&category=running
type ListProductsQuery struct {
	Q        string   `form:"q"`
	Category []string `form:"category"`
	Page     string   `form:"page"`
	Limit    string   `form:"limit"`
}

type CheckoutRequest struct {
	Quantity  int    `json:"quantity" form:"quantity" validate:"omitempty,min=1,max=20"`
	PromoCode string `json:"promo_code" form:"promo_code" validate:"max=32"`
}

type CreateProductRequest struct {
	Title     string          `json:"title" validate:"required,min=2,max=255"`
	Content   string          `json:"content" validate:"max=5000"`
	Category  string          `json:"category" validate:"required"`
	Thumbnail string          `json:"thumbnail" validate:"omitempty,url"`
	Brand     string          `json:"brand" validate:"max=100"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock" validate:"min=0"`
}

type ListPurchasesQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
