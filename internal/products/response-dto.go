package products

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Category  string          `json:"category"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	Brand     string          `json:"brand,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Rating    float64         `json:"rating"`
	Stock     int             `json:"stock"`
	InStock   bool            `json:"in_stock"`
}

type ProductListResponse struct {
	Results  []ProductResponse `json:"results"`
	Page     int               `json:"page"`
	NumPages int               `json:"num_pages"`
	Total    int64             `json:"total"`
}

// CheckoutResponse mirrors the booking creation payload so clients can show
// promo outcomes the same way
type CheckoutResponse struct {
	Success         bool            `json:"success"`
	Message         string          `json:"message"`
	PurchaseID      string          `json:"purchase_id"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DiscountPercent int             `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PromoApplied    bool            `json:"promo_applied"`
	PromoMessage    string          `json:"promo_message,omitempty"`
	RemainingStock  int             `json:"remaining_stock"`
}

type PurchaseResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductTitle    string          `json:"product_title,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DiscountPercent int             `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PromoCode       string          `json:"promo_code,omitempty"`
	PurchasedAt     time.Time       `json:"purchased_at"`
}

type PurchaseListResponse struct {
	Purchases  []PurchaseResponse `json:"purchases"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	Total      int64              `json:"total"`
}
