package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the Postgres-only constraints and indexes backing
// the booking and promo invariants
func MigrateConstraints(db *gorm.DB) error {
	statements := []string{
		// conflict detection scans active bookings of one venue on one date
		`CREATE INDEX IF NOT EXISTS idx_bookings_active_slot
			ON bookings (venue_id, booking_date, start_time, end_time)
			WHERE status IN ('pending', 'confirmed');`,

		// promo codes are matched case-insensitively
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_promos_code_upper
			ON promos (UPPER(code));`,

		`ALTER TABLE promos DROP CONSTRAINT IF EXISTS chk_promos_usage;`,
		`ALTER TABLE promos ADD CONSTRAINT chk_promos_usage
			CHECK (current_uses >= 0 AND current_uses <= max_uses);`,

		`ALTER TABLE matches DROP CONSTRAINT IF EXISTS chk_matches_slots;`,
		`ALTER TABLE matches ADD CONSTRAINT chk_matches_slots
			CHECK (slot_filled >= 0 AND slot_filled <= slot_total);`,

		`ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_stock;`,
		`ALTER TABLE products ADD CONSTRAINT chk_products_stock
			CHECK (stock >= 0);`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
