package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking reserves a venue for [StartTime, EndTime) on BookingDate.
// Dates are YYYY-MM-DD and times HH:MM in the business time zone.
type Booking struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	VenueID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_bookings_venue_date,priority:1" json:"venue_id"`
	BookingDate     string          `gorm:"type:varchar(10);not null;index:idx_bookings_venue_date,priority:2" json:"booking_date"`
	StartTime       string          `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime         string          `gorm:"type:varchar(5);not null" json:"end_time"`
	BasePrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	DiscountPercent int             `gorm:"not null" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount_amount"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	PromoID         *uuid.UUID      `gorm:"type:uuid;index" json:"promo_id,omitempty"`
	PromoCode       string          `gorm:"type:varchar(32)" json:"promo_code,omitempty"`
	Status          Status          `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	return nil
}

// StartsAt returns the absolute start instant of the booking in loc
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+clockLayout, b.BookingDate+" "+b.StartTime, loc)
}

// HasStarted reports whether the booking start is at or before now
func (b *Booking) HasStarted(now time.Time, loc *time.Location) bool {
	start, err := b.StartsAt(loc)
	if err != nil {
		return true
	}
	return !now.Before(start)
}

func (b *Booking) Window() string {
	return b.StartTime + "-" + b.EndTime
}

func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:              b.ID.String(),
		UserID:          b.UserID.String(),
		VenueID:         b.VenueID.String(),
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		BasePrice:       b.BasePrice,
		DiscountPercent: b.DiscountPercent,
		DiscountAmount:  b.DiscountAmount,
		TotalPrice:      b.TotalPrice,
		PromoCode:       b.PromoCode,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		CancelledAt:     b.CancelledAt,
		ConfirmedAt:     b.ConfirmedAt,
		CompletedAt:     b.CompletedAt,
	}
	return resp
}
