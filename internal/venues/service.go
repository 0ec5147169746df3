package venues

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venyuk/internal/shared/config"
	"venyuk/internal/shared/constants"
	"venyuk/pkg/cache"
	"venyuk/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrVenueNotFound    = errors.New("venue not found")
	ErrInvalidVenueID   = errors.New("invalid venue ID")
	ErrInvalidCategory  = errors.New("invalid venue category")
	ErrInvalidPrice     = errors.New("price per hour must be greater than zero")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrVenueUnavailable = errors.New("venue is not available for booking")
)

// TimeWindow is an occupied [Start, End) range on a single day, in HH:MM
type TimeWindow struct {
	Start string
	End   string
}

// BookingWindowSource reports the windows already held by active bookings.
// It is implemented by the bookings repository.
type BookingWindowSource interface {
	ActiveWindows(ctx context.Context, venueID uuid.UUID, date string) ([]TimeWindow, error)
}

type Service interface {
	ListVenues(ctx context.Context, query ListQuery) (*VenueListResponse, error)
	GetVenue(ctx context.Context, id string) (*VenueResponse, error)
	GetCategories(ctx context.Context) ([]CategoryResponse, error)
	GetSlots(ctx context.Context, id, date string) (*SlotsResponse, error)

	CreateVenue(ctx context.Context, req CreateVenueRequest) (*VenueResponse, error)
	UpdateVenue(ctx context.Context, id string, req UpdateVenueRequest) (*VenueResponse, error)
	SetAvailability(ctx context.Context, id string, available bool) (*VenueResponse, error)

	// InvalidateSlots drops the cached slot grid for one venue and date
	InvalidateSlots(ctx context.Context, venueID uuid.UUID, date string)
}

type service struct {
	repo    Repository
	windows BookingWindowSource
	cache   cache.Service
	cfg     *config.Config
	log     *logger.Logger
}

func NewService(repo Repository, windows BookingWindowSource, cacheService cache.Service, cfg *config.Config) Service {
	return &service{
		repo:    repo,
		windows: windows,
		cache:   cacheService,
		cfg:     cfg,
		log:     logger.GetDefault(),
	}
}

func (s *service) ListVenues(ctx context.Context, query ListQuery) (*VenueListResponse, error) {
	filter := normalizeQuery(query)
	key := constants.BuildVenueListKey(filter.Fingerprint())

	var result VenueListResponse
	err := s.cache.GetOrSet(ctx, key, s.cfg.Redis.CacheTTL, func() (interface{}, error) {
		venues, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}

		list := VenueListResponse{
			Results:  make([]VenueResponse, 0, len(venues)),
			Page:     filter.Page,
			NumPages: numPages(total, filter.Limit),
			Total:    total,
		}
		for i := range venues {
			list.Results = append(list.Results, venues[i].ToResponse())
		}
		return list, nil
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	return &result, nil
}

func (s *service) GetVenue(ctx context.Context, id string) (*VenueResponse, error) {
	venueID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidVenueID
	}

	var result VenueResponse
	err = s.cache.GetOrSet(ctx, constants.BuildVenueDetailKey(venueID.String()), s.cfg.Redis.CacheTTL, func() (interface{}, error) {
		venue, err := s.repo.GetByID(ctx, venueID)
		if err != nil {
			return nil, err
		}
		return venue.ToResponse(), nil
	}, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *service) GetCategories(ctx context.Context) ([]CategoryResponse, error) {
	var result []CategoryResponse
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_VENUE_CATEGORIES, constants.TTL_SEMI_STATIC_LONG, func() (interface{}, error) {
		categories := make([]CategoryResponse, 0, len(Categories))
		for _, c := range Categories {
			categories = append(categories, CategoryResponse{Value: string(c), Label: categoryLabel(c)})
		}
		return categories, nil
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetSlots(ctx context.Context, id, date string) (*SlotsResponse, error) {
	venueID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidVenueID
	}
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return nil, ErrInvalidDate
	}
	date = day.Format(time.DateOnly)

	var result SlotsResponse
	key := constants.BuildVenueSlotsKey(venueID.String(), date, s.slotGeneration(ctx, venueID, date))
	err = s.cache.GetOrSet(ctx, key, s.cfg.Redis.SlotsTTL, func() (interface{}, error) {
		if _, err := s.repo.GetByID(ctx, venueID); err != nil {
			return nil, err
		}
		windows, err := s.windows.ActiveWindows(ctx, venueID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to load booked windows: %w", err)
		}
		return SlotsResponse{
			VenueID: venueID.String(),
			Date:    date,
			Slots:   BuildSlots(s.cfg.Booking.OpenHour, s.cfg.Booking.CloseHour, windows),
		}, nil
	}, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *service) CreateVenue(ctx context.Context, req CreateVenueRequest) (*VenueResponse, error) {
	category := Category(strings.ToLower(strings.TrimSpace(req.Category)))
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if !req.PricePerHour.IsPositive() {
		return nil, ErrInvalidPrice
	}

	venue := &Venue{
		Name:         strings.TrimSpace(req.Name),
		Category:     category,
		Address:      strings.TrimSpace(req.Address),
		Thumbnail:    req.Thumbnail,
		Rating:       req.Rating,
		PricePerHour: req.PricePerHour.Round(2),
		IsAvailable:  true,
	}
	if req.IsAvailable != nil {
		venue.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	s.invalidateVenue(ctx, venue.ID)

	resp := venue.ToResponse()
	return &resp, nil
}

func (s *service) UpdateVenue(ctx context.Context, id string, req UpdateVenueRequest) (*VenueResponse, error) {
	venueID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidVenueID
	}

	venue, err := s.repo.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		venue.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		category := Category(strings.ToLower(strings.TrimSpace(*req.Category)))
		if !category.IsValid() {
			return nil, ErrInvalidCategory
		}
		venue.Category = category
	}
	if req.Address != nil {
		venue.Address = strings.TrimSpace(*req.Address)
	}
	if req.Thumbnail != nil {
		venue.Thumbnail = *req.Thumbnail
	}
	if req.Rating != nil {
		venue.Rating = *req.Rating
	}
	if req.PricePerHour != nil {
		if !req.PricePerHour.IsPositive() {
			return nil, ErrInvalidPrice
		}
		venue.PricePerHour = req.PricePerHour.Round(2)
	}

	if err := s.repo.Save(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}

	s.invalidateVenue(ctx, venue.ID)

	resp := venue.ToResponse()
	return &resp, nil
}

func (s *service) SetAvailability(ctx context.Context, id string, available bool) (*VenueResponse, error) {
	venueID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidVenueID
	}

	if err := s.repo.SetAvailability(ctx, venueID, available); err != nil {
		return nil, err
	}
	s.invalidateVenue(ctx, venueID)

	venue, err := s.repo.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	resp := venue.ToResponse()
	return &resp, nil
}

// slotGeneration is read before the grid is computed. A grid computed from a
// snapshot older than the last InvalidateSlots lands under a retired key.
func (s *service) slotGeneration(ctx context.Context, venueID uuid.UUID, date string) int64 {
	var gen int64
	if err := s.cache.Get(ctx, constants.BuildVenueSlotsGenerationKey(venueID.String(), date), &gen); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("Failed to read slot generation", "venue_id", venueID, "date", date, "error", err)
	}
	return gen
}

func (s *service) InvalidateSlots(ctx context.Context, venueID uuid.UUID, date string) {
	key := constants.BuildVenueSlotsGenerationKey(venueID.String(), date)
	if _, err := s.cache.Incr(ctx, key, constants.TTL_SLOT_GENERATION); err != nil {
		s.log.Warn("Failed to invalidate slot cache", "key", key, "error", err)
	}
}

func (s *service) invalidateVenue(ctx context.Context, venueID uuid.UUID) {
	if err := s.cache.DeletePattern(ctx, constants.CACHE_KEY_VENUES_LIST+":*"); err != nil {
		s.log.Warn("Failed to invalidate venue list cache", "error", err)
	}
	if err := s.cache.Delete(ctx, constants.BuildVenueDetailKey(venueID.String())); err != nil {
		s.log.Warn("Failed to invalidate venue detail cache", "venue_id", venueID, "error", err)
	}
	if err := s.cache.DeletePattern(ctx, constants.BuildVenueSlotsPattern(venueID.String())); err != nil {
		s.log.Warn("Failed to invalidate venue slots cache", "venue_id", venueID, "error", err)
	}
}
