package bookings

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBookingResponse is returned by a successful booking request
type CreateBookingResponse struct {
	Success         bool            `json:"success"`
	Message         string          `json:"message"`
	BookingID       string          `json:"booking_id"`
	VenueID         string          `json:"venue_id"`
	BookingDate     string          `json:"booking_date"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DiscountPercent int             `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PromoApplied    bool            `json:"promo_applied"`
	PromoMessage    string          `json:"promo_message,omitempty"`
	Status          string          `json:"status"`
}

type BookingResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	VenueID         string          `json:"venue_id"`
	BookingDate     string          `json:"booking_date"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DiscountPercent int             `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PromoCode       string          `json:"promo_code,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
}
