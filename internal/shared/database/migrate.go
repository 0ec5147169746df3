package database

import (
	"venyuk/internal/bookings"
	"venyuk/internal/matches"
	"venyuk/internal/products"
	"venyuk/internal/promos"
	"venyuk/internal/venues"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&venues.Venue{},
		&promos.Promo{},
		&promos.PromoUsage{},
		&bookings.Booking{},
		&matches.Match{},
		&matches.Participant{},
		&products.Product{},
		&products.Purchase{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
