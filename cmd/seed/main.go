package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"venyuk/internal/matches"
	"venyuk/internal/products"
	"venyuk/internal/promos"
	"venyuk/internal/shared/config"
	"venyuk/internal/shared/database"
	"venyuk/internal/shared/middleware"
	"venyuk/internal/venues"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Seeder struct {
	db  *database.DB
	cfg *config.Config
	now time.Time
}

func main() {
	fmt.Println("🌱 Starting Venyuk Database Seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, cfg: cfg, now: time.Now().In(cfg.Booking.Location())}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates every service table, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"purchases",
		"products",
		"match_participants",
		"matches",
		"promo_usages",
		"bookings",
		"promos",
		"venues",
	}

	tx := s.db.PostgreSQL.Begin()
	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return tx.Commit().Error
}

// SeedAll seeds venues, promos, matches and shop products and prints dev tokens
func (s *Seeder) SeedAll() error {
	ctx := context.Background()
	adminID, userID := uuid.New(), uuid.New()

	venueIDs, err := s.SeedVenues()
	if err != nil {
		return fmt.Errorf("failed to seed venues: %w", err)
	}

	if err := s.SeedPromos(adminID); err != nil {
		return fmt.Errorf("failed to seed promos: %w", err)
	}

	if err := s.SeedMatches(userID, venueIDs); err != nil {
		return fmt.Errorf("failed to seed matches: %w", err)
	}

	if err := s.SeedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return s.PrintTokens(adminID, userID)
}

func (s *Seeder) SeedVenues() ([]uuid.UUID, error) {
	fmt.Println("  🏟️  Seeding venues...")

	venueData := []struct {
		name     string
		category venues.Category
		address  string
		rating   float64
		price    int64
	}{
		{"Senayan Futsal Arena", venues.CategoryFutsal, "Jl. Pintu Satu Senayan, Jakarta Pusat", 4.6, 150000},
		{"Kemang Mini Soccer", venues.CategoryMiniSoccer, "Jl. Kemang Raya No. 12, Jakarta Selatan", 4.4, 450000},
		{"GOR Rawamangun", venues.CategoryBadminton, "Jl. Pemuda, Jakarta Timur", 4.2, 50000},
		{"Padel Pantai Indah", venues.CategoryPadel, "Jl. Pantai Indah Utara, Jakarta Utara", 4.8, 350000},
		{"Menteng Tennis Club", venues.CategoryTennis, "Jl. Taman Suropati, Jakarta Pusat", 4.5, 200000},
		{"Cilandak Basketball Court", venues.CategoryBasketball, "Jl. TB Simatupang, Jakarta Selatan", 4.1, 250000},
		{"Kelapa Gading Squash", venues.CategorySquash, "Jl. Boulevard Raya, Jakarta Utara", 4.0, 120000},
		{"Tebet Pickle Ball", venues.CategoryPickleBall, "Jl. Tebet Raya No. 40, Jakarta Selatan", 4.3, 100000},
	}

	ids := make([]uuid.UUID, 0, len(venueData))
	for _, v := range venueData {
		venue := venues.Venue{
			Name:         v.name,
			Category:     v.category,
			Address:      v.address,
			Rating:       v.rating,
			PricePerHour: decimal.NewFromInt(v.price),
			IsAvailable:  true,
		}
		if err := s.db.PostgreSQL.Create(&venue).Error; err != nil {
			return nil, fmt.Errorf("failed to create venue %s: %w", v.name, err)
		}
		ids = append(ids, venue.ID)
		fmt.Printf("    ✅ Created venue: %s (%s, %s/h)\n", venue.Name, venue.Category, venue.PricePerHour)
	}

	return ids, nil
}

func (s *Seeder) SeedPromos(adminID uuid.UUID) error {
	fmt.Println("  🏷️  Seeding promos...")

	promoData := []struct {
		title   string
		scope   promos.Scope
		percent int
		days    int
		maxUses int
		used    int
	}{
		{"Weekday Warmup", promos.ScopeVenue, 20, 30, 10, 5},
		{"New Player Welcome", promos.ScopeVenue, 15, 60, 100, 0},
		{"Last Call", promos.ScopeVenue, 50, 7, 1, 1},
		{"Gear Up", promos.ScopeShop, 10, 30, 50, 0},
	}

	start := s.now.AddDate(0, 0, -1)
	for _, p := range promoData {
		promo := promos.Promo{
			Title:           p.title,
			Code:            promos.GenerateCode(p.scope, p.percent, start),
			Scope:           p.scope,
			DiscountPercent: p.percent,
			StartDate:       start,
			EndDate:         s.now.AddDate(0, 0, p.days),
			MaxUses:         p.maxUses,
			CurrentUses:     p.used,
			IsActive:        true,
			CreatedBy:       &adminID,
		}
		if err := s.db.PostgreSQL.Create(&promo).Error; err != nil {
			return fmt.Errorf("failed to create promo %s: %w", p.title, err)
		}
		fmt.Printf("    ✅ Created promo: %s (%d%%, %d/%d left)\n", promo.Code, promo.DiscountPercent, promo.RemainingUses(), promo.MaxUses)
	}

	return nil
}

func (s *Seeder) SeedMatches(creatorID uuid.UUID, venueIDs []uuid.UUID) error {
	fmt.Println("  🤝 Seeding matches...")

	tomorrow := time.Date(s.now.Year(), s.now.Month(), s.now.Day()+1, 19, 0, 0, 0, s.now.Location())
	difficulties := []matches.Difficulty{
		matches.DifficultyBeginner,
		matches.DifficultyIntermediate,
		matches.DifficultyAdvanced,
	}

	for i, venueID := range venueIDs[:3] {
		start := tomorrow.AddDate(0, 0, i)
		match := matches.Match{
			VenueID:    venueID,
			CreatorID:  creatorID,
			SlotTotal:  10 - 2*i,
			StartTime:  start,
			EndTime:    start.Add(2 * time.Hour),
			Difficulty: difficulties[i],
		}
		if err := s.db.PostgreSQL.Omit("Venue", "Participants").Create(&match).Error; err != nil {
			return fmt.Errorf("failed to create match: %w", err)
		}
		fmt.Printf("    ✅ Created match: %s at %s (%d slots)\n", match.Difficulty, start.Format("02 Jan 2006 15:04"), match.SlotTotal)
	}

	return nil
}

func (s *Seeder) SeedProducts() error {
	fmt.Println("  🛒 Seeding products...")

	productData := []struct {
		title    string
		category products.Category
		brand    string
		price    int64
		stock    int
		rating   float64
	}{
		{"Astrox 88D Racket", products.CategoryBadminton, "Yonex", 2150000, 8, 4.8},
		{"Aerobite Shuttlecock (12)", products.CategoryBadminton, "Victor", 135000, 40, 4.5},
		{"Evolution Basketball Size 7", products.CategoryBasketball, "Wilson", 950000, 15, 4.7},
		{"Pure Drive Tennis Racket", products.CategoryTennis, "Babolat", 3200000, 5, 4.6},
		{"Mercurial Vapor Boots", products.CategoryFootball, "Nike", 1850000, 12, 4.4},
		{"Competition Goggles", products.CategorySwimming, "Speedo", 320000, 25, 4.2},
		{"Ultraboost Running Shoes", products.CategoryRunning, "Adidas", 2700000, 10, 4.6},
		{"V200W Volleyball", products.CategoryVolleyball, "Mikasa", 1150000, 1, 4.9},
	}

	for _, p := range productData {
		product := products.Product{
			Title:    p.title,
			Category: p.category,
			Brand:    p.brand,
			Price:    decimal.NewFromInt(p.price),
			Stock:    p.stock,
			Rating:   p.rating,
		}
		if err := s.db.PostgreSQL.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to create product %s: %w", p.title, err)
		}
		fmt.Printf("    ✅ Created product: %s (%s, stock %d)\n", product.Title, product.Price, product.Stock)
	}

	return nil
}

// PrintTokens issues day-long tokens for manual API testing
func (s *Seeder) PrintTokens(adminID, userID uuid.UUID) error {
	adminToken, err := middleware.IssueAccessToken(s.cfg.JWT.Secret, adminID, middleware.RoleAdmin, 24*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to issue admin token: %w", err)
	}
	userToken, err := middleware.IssueAccessToken(s.cfg.JWT.Secret, userID, middleware.RoleUser, 24*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to issue user token: %w", err)
	}

	fmt.Println("\n🔑 Dev tokens (24h):")
	fmt.Printf("  admin %s\n    Bearer %s\n", adminID, adminToken)
	fmt.Printf("  user  %s\n    Bearer %s\n", userID, userToken)
	return nil
}
