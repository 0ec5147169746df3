package promos

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Scope is the purchase domain a promo code can be redeemed in
type Scope string

const (
	ScopeVenue Scope = "VENUE"
	ScopeShop  Scope = "SHOP"
)

func (s Scope) IsValid() bool {
	return s == ScopeVenue || s == ScopeShop
}

// ParseScope accepts any casing and defaults to VENUE when empty
func ParseScope(raw string) (Scope, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ScopeVenue, nil
	}
	s := Scope(strings.ToUpper(raw))
	if !s.IsValid() {
		return "", ErrInvalidScope
	}
	return s, nil
}

const (
	StatusInactive   = "inactive"
	StatusNotStarted = "not_started"
	StatusExpired    = "expired"
	StatusExhausted  = "exhausted"
	StatusActive     = "active"
)

type Promo struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string     `gorm:"type:varchar(200);not null" json:"title"`
	Code            string     `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	Scope           Scope      `gorm:"type:varchar(10);not null;index" json:"scope"`
	Description     string     `gorm:"type:text" json:"description"`
	DiscountPercent int        `gorm:"not null" json:"discount_percent"`
	StartDate       time.Time  `gorm:"not null;index" json:"start_date"`
	EndDate         time.Time  `gorm:"not null;index" json:"end_date"`
	MaxUses         int        `gorm:"not null" json:"max_uses"`
	CurrentUses     int        `gorm:"not null" json:"current_uses"`
	Version         int        `gorm:"not null" json:"-"`
	IsActive        bool       `gorm:"not null;index" json:"is_active"`
	CreatedBy       *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Promo) TableName() string {
	return "promos"
}

func (p *Promo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	return nil
}

func (p *Promo) RemainingUses() int {
	if p.CurrentUses >= p.MaxUses {
		return 0
	}
	return p.MaxUses - p.CurrentUses
}

// StatusAt derives the display status of the promo at the given instant
func (p *Promo) StatusAt(now time.Time) string {
	switch {
	case !p.IsActive:
		return StatusInactive
	case now.Before(p.StartDate):
		return StatusNotStarted
	case now.After(p.EndDate):
		return StatusExpired
	case p.RemainingUses() <= 0:
		return StatusExhausted
	default:
		return StatusActive
	}
}

// PromoUsage records one successful redemption. ReferenceID is the booking
// for VENUE promos and the purchase for SHOP promos.
type PromoUsage struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PromoID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"promo_id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Scope          Scope           `gorm:"type:varchar(10);not null" json:"scope"`
	ReferenceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"reference_id"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount_amount"`
	UsedAt         time.Time       `gorm:"not null" json:"used_at"`
}

func (PromoUsage) TableName() string {
	return "promo_usages"
}

func (u *PromoUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.UsedAt.IsZero() {
		u.UsedAt = time.Now().UTC()
	}
	return nil
}

func (p *Promo) ToResponse(now time.Time) PromoResponse {
	return PromoResponse{
		ID:              p.ID.String(),
		Title:           p.Title,
		Code:            p.Code,
		Scope:           string(p.Scope),
		Description:     p.Description,
		DiscountPercent: p.DiscountPercent,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		MaxUses:         p.MaxUses,
		RemainingUses:   p.RemainingUses(),
		IsActive:        p.IsActive,
		Status:          p.StatusAt(now),
	}
}
