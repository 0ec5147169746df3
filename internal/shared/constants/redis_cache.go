package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// Pattern: venyuk:{module}:{operation}:{identifier}:{params?}
// Venue listing, detail and slot TTLs come from config.RedisConfig.

// Semi-Static Data (changes occasionally)
const (
	TTL_SEMI_STATIC_LONG  = 4 * time.Hour    // venue categories
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // active promo listings
)

const (
	CACHE_PREFIX = "venyuk"
)

// Venue Cache Keys
const (
	CACHE_KEY_VENUES_LIST       = CACHE_PREFIX + ":venues:list"    // + :<filter hash>
	CACHE_KEY_VENUE_DETAIL      = CACHE_PREFIX + ":venues:detail:" // + venue-id
	CACHE_KEY_VENUE_CATEGORIES  = CACHE_PREFIX + ":venues:categories"
	CACHE_KEY_VENUE_SLOTS       = CACHE_PREFIX + ":slots:" // + venue-id:date
	CACHE_KEY_VENUE_SLOTS_VENUE = CACHE_PREFIX + ":slots:" // + venue-id:*
	CACHE_KEY_VENUE_SLOTS_GEN   = CACHE_PREFIX + ":slotgen:" // + venue-id:date
)

// Slot generations outlive every slot grid written under them
const TTL_SLOT_GENERATION = 24 * time.Hour

// Promo Cache Keys
const (
	CACHE_KEY_PROMOS_ALL    = CACHE_PREFIX + ":promos:*"
	CACHE_KEY_PROMOS_ACTIVE = CACHE_PREFIX + ":promos:active" // + :scope:X:page:Y
)

func BuildVenueListKey(fingerprint string) string {
	return CACHE_KEY_VENUES_LIST + ":" + fingerprint
}

func BuildVenueDetailKey(venueID string) string {
	return CACHE_KEY_VENUE_DETAIL + venueID
}

func BuildVenueSlotsKey(venueID, date string, generation int64) string {
	return fmt.Sprintf("%s%s:%s:g%d", CACHE_KEY_VENUE_SLOTS, venueID, date, generation)
}

func BuildVenueSlotsGenerationKey(venueID, date string) string {
	return CACHE_KEY_VENUE_SLOTS_GEN + venueID + ":" + date
}

func BuildVenueSlotsPattern(venueID string) string {
	return CACHE_KEY_VENUE_SLOTS_VENUE + venueID + ":*"
}

func BuildActivePromosKey(scope string, page, limit int) string {
	return fmt.Sprintf("%s:scope:%s:page:%d:limit:%d", CACHE_KEY_PROMOS_ACTIVE, scope, page, limit)
}
