package products

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Category string

const (
	CategoryBadminton  Category = "badminton"
	CategoryBasketball Category = "basketball"
	CategoryTennis     Category = "tennis"
	CategoryFootball   Category = "football"
	CategorySwimming   Category = "swimming"
	CategoryRunning    Category = "running"
	CategoryVolleyball Category = "volleyball"
)

var Categories = []Category{
	CategoryBadminton,
	CategoryBasketball,
	CategoryTennis,
	CategoryFootball,
	CategorySwimming,
	CategoryRunning,
	CategoryVolleyball,
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func parseCategory(raw string) Category {
	return Category(strings.ToLower(strings.TrimSpace(raw)))
}

// Product is a shop item. Stock only moves through checkout or an admin edit.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string          `gorm:"type:varchar(255);not null" json:"title"`
	Content   string          `gorm:"type:text" json:"content"`
	Category  Category        `gorm:"type:varchar(20);not null;index" json:"category"`
	Thumbnail string          `gorm:"type:text" json:"thumbnail"`
	Brand     string          `gorm:"type:varchar(100)" json:"brand"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Rating    float64         `gorm:"not null;default:0" json:"rating"`
	Stock     int             `gorm:"not null" json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Purchase is one completed checkout
type Purchase struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	BasePrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	DiscountPercent int             `gorm:"not null;default:0" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount_amount"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	PromoID         *uuid.UUID      `gorm:"type:uuid" json:"promo_id,omitempty"`
	PromoCode       string          `gorm:"type:varchar(32)" json:"promo_code,omitempty"`
	PurchasedAt     time.Time       `gorm:"not null" json:"purchased_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Purchase) TableName() string {
	return "purchases"
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.PurchasedAt = p.PurchasedAt.UTC()
	return nil
}

func findForUpdate(tx *gorm.DB, id uuid.UUID) (*Product, error) {
	var product Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		Category:  string(p.Category),
		Thumbnail: p.Thumbnail,
		Brand:     p.Brand,
		Price:     p.Price,
		Rating:    p.Rating,
		Stock:     p.Stock,
		InStock:   p.Stock > 0,
	}
}

func (p *Purchase) ToResponse() PurchaseResponse {
	resp := PurchaseResponse{
		ID:              p.ID.String(),
		ProductID:       p.ProductID.String(),
		Quantity:        p.Quantity,
		UnitPrice:       p.UnitPrice,
		BasePrice:       p.BasePrice,
		DiscountPercent: p.DiscountPercent,
		DiscountAmount:  p.DiscountAmount,
		TotalPrice:      p.TotalPrice,
		PromoCode:       p.PromoCode,
		PurchasedAt:     p.PurchasedAt,
	}
	if p.Product != nil {
		resp.ProductTitle = p.Product.Title
	}
	return resp
}
