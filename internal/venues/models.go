package venues

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Category string

const (
	CategorySepakBola  Category = "sepak bola"
	CategoryFutsal     Category = "futsal"
	CategoryMiniSoccer Category = "mini soccer"
	CategoryBasketball Category = "basketball"
	CategoryTennis     Category = "tennis"
	CategoryBadminton  Category = "badminton"
	CategoryPadel      Category = "padel"
	CategoryPickleBall Category = "pickle ball"
	CategorySquash     Category = "squash"
	CategoryVoli       Category = "voli"
	CategoryBiliard    Category = "biliard"
	CategoryGolf       Category = "golf"
	CategoryShooting   Category = "shooting"
	CategoryTennisMeja Category = "tennis meja"
)

// Categories is the ordered list shown to clients
var Categories = []Category{
	CategorySepakBola, CategoryFutsal, CategoryMiniSoccer, CategoryBasketball,
	CategoryTennis, CategoryBadminton, CategoryPadel, CategoryPickleBall,
	CategorySquash, CategoryVoli, CategoryBiliard, CategoryGolf,
	CategoryShooting, CategoryTennisMeja,
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Venue is a bookable sports facility
type Venue struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(200);not null;index" json:"name"`
	Category     Category        `gorm:"type:varchar(20);not null;index" json:"category"`
	Address      string          `gorm:"type:text" json:"address"`
	Thumbnail    string          `gorm:"type:varchar(500)" json:"thumbnail,omitempty"`
	Rating       float64         `gorm:"not null" json:"rating"`
	PricePerHour decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_per_hour"`
	IsAvailable  bool            `gorm:"not null;index" json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Venue) TableName() string {
	return "venues"
}

func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// FindForUpdate loads a venue inside tx and holds a row lock on it until
// the transaction ends. Bookings on the same venue serialize on this lock.
func FindForUpdate(tx *gorm.DB, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&venue).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

// ToResponse converts a venue into its API shape
func (v *Venue) ToResponse() VenueResponse {
	return VenueResponse{
		ID:           v.ID.String(),
		Name:         v.Name,
		Category:     string(v.Category),
		Address:      v.Address,
		Thumbnail:    v.Thumbnail,
		Rating:       v.Rating,
		PricePerHour: v.PricePerHour,
		IsAvailable:  v.IsAvailable,
		CreatedAt:    v.CreatedAt,
	}
}
