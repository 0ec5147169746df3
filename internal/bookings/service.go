package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venyuk/internal/notifications"
	"venyuk/internal/promos"
	"venyuk/internal/shared/config"
	"venyuk/internal/shared/metrics"
	"venyuk/internal/venues"
	"venyuk/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidBookingID  = errors.New("invalid booking ID")
	ErrForbidden         = errors.New("you do not have access to this booking")
	ErrInvalidTransition = errors.New("booking status does not allow this change")
	ErrAlreadyStarted    = errors.New("booking has already started")
	ErrCreateFailed      = errors.New("failed to create booking, please try again")
	ErrUpdateFailed      = errors.New("failed to update booking, please try again")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// SlotInvalidator drops cached availability for a venue and date
type SlotInvalidator interface {
	InvalidateSlots(ctx context.Context, venueID uuid.UUID, date string)
}

// PromoListingInvalidator drops cached promo listings after a redemption
type PromoListingInvalidator interface {
	InvalidateListings(ctx context.Context)
}

// Service interface defines the contract for booking business logic
type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, venueID string, req CreateBookingRequest) (*CreateBookingResponse, error)
	EditBooking(ctx context.Context, userID uuid.UUID, bookingID string, req EditBookingRequest) (*BookingResponse, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*BookingResponse, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*BookingResponse, error)
	CompleteBooking(ctx context.Context, bookingID string) (*BookingResponse, error)

	GetBooking(ctx context.Context, requesterID uuid.UUID, isAdmin bool, bookingID string) (*BookingResponse, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*BookingListResponse, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	resolver   *promos.Resolver
	slots      SlotInvalidator
	promoCache PromoListingInvalidator
	publisher  notifications.Publisher
	rules      config.BookingConfig
	loc        *time.Location
	now        func() time.Time
	log        *logger.Logger
}

// NewService wires the booking orchestrator. A nil now uses time.Now.
func NewService(
	db *gorm.DB,
	repo Repository,
	resolver *promos.Resolver,
	slots SlotInvalidator,
	promoCache PromoListingInvalidator,
	publisher notifications.Publisher,
	rules config.BookingConfig,
	now func() time.Time,
) Service {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &service{
		db:         db,
		repo:       repo,
		resolver:   resolver,
		slots:      slots,
		promoCache: promoCache,
		publisher:  publisher,
		rules:      rules,
		loc:        rules.Location(),
		now:        now,
		log:        logger.GetDefault(),
	}
}

// CreateBooking runs the whole booking request in one transaction: lock the
// venue, validate, detect conflicts, price with the optional promo, insert.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, venueID string, req CreateBookingRequest) (*CreateBookingResponse, error) {
	venueUUID, err := uuid.Parse(venueID)
	if err != nil {
		return nil, venues.ErrInvalidVenueID
	}

	now := s.now()
	var (
		booking    *Booking
		resolution *promos.Resolution
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		venue, err := venues.FindForUpdate(tx.WithContext(ctx), venueUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return venues.ErrVenueNotFound
			}
			return fmt.Errorf("lock venue: %w", err)
		}
		if !venue.IsAvailable {
			return venues.ErrVenueUnavailable
		}

		window, err := ValidateWindow(TimeInput{
			BookingDate: req.BookingDate,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
		}, now, WindowRules{Location: s.loc, MinDuration: s.rules.MinDuration})
		if err != nil {
			return err
		}

		conflicts, err := FindConflicts(ctx, tx, ConflictQuery{
			VenueID: venue.ID,
			Date:    window.Date,
			Start:   window.Start,
			End:     window.End,
		})
		if err != nil {
			return fmt.Errorf("detect conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return &ConflictError{}
		}

		base := PriceFor(venue.PricePerHour, window.Duration)
		resolution, err = s.resolver.Resolve(ctx, tx, req.PromoCode, promos.ScopeVenue, base)
		if err != nil {
			return fmt.Errorf("resolve promo: %w", err)
		}

		booking = &Booking{
			UserID:          userID,
			VenueID:         venue.ID,
			BookingDate:     window.Date,
			StartTime:       window.Start,
			EndTime:         window.End,
			BasePrice:       resolution.BasePrice,
			DiscountPercent: resolution.DiscountPercent,
			DiscountAmount:  resolution.DiscountAmount,
			TotalPrice:      resolution.FinalPrice,
			Status:          StatusPending,
		}
		if resolution.Applied {
			booking.PromoID = &resolution.Promo.ID
			booking.PromoCode = resolution.Promo.Code
		}

		if err := s.repo.Create(ctx, tx, booking); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		if err := s.resolver.RecordUsage(ctx, tx, resolution, userID, booking.ID); err != nil {
			return fmt.Errorf("record promo usage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.rejectCreate(ctx, err, venueUUID)
	}

	s.afterCreate(ctx, booking, resolution)

	return &CreateBookingResponse{
		Success:         true,
		Message:         "Booking created successfully",
		BookingID:       booking.ID.String(),
		VenueID:         booking.VenueID.String(),
		BookingDate:     booking.BookingDate,
		StartTime:       booking.StartTime,
		EndTime:         booking.EndTime,
		BasePrice:       booking.BasePrice,
		DiscountPercent: booking.DiscountPercent,
		DiscountAmount:  booking.DiscountAmount,
		TotalPrice:      booking.TotalPrice,
		PromoApplied:    resolution.Applied,
		PromoMessage:    resolution.Message,
		Status:          string(booking.Status),
	}, nil
}

// rejectCreate counts the rejection and hides unexpected failures behind
// the generic create error
func (s *service) rejectCreate(ctx context.Context, err error, venueID uuid.UUID) error {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		metrics.IncBookingRejected("validation")
		return err
	case errors.Is(err, ErrSlotConflict):
		metrics.IncBookingRejected("conflict")
		return err
	case errors.Is(err, venues.ErrVenueNotFound):
		metrics.IncBookingRejected("venue_not_found")
		return err
	case errors.Is(err, venues.ErrVenueUnavailable):
		metrics.IncBookingRejected("venue_unavailable")
		return err
	}

	metrics.IncBookingRejected("error")
	s.log.ErrorWithContext(ctx, "Booking transaction failed", err, map[string]interface{}{
		"venue_id": venueID.String(),
	})
	return ErrCreateFailed
}

func (s *service) afterCreate(ctx context.Context, booking *Booking, resolution *promos.Resolution) {
	s.slots.InvalidateSlots(ctx, booking.VenueID, booking.BookingDate)

	if resolution.Applied {
		s.promoCache.InvalidateListings(ctx)
		metrics.IncPromoRedeemed(string(promos.ScopeVenue))
		s.log.LogPromoApplied(ctx, resolution.Promo.Code, booking.UserID.String(), resolution.RemainingUses())
	} else if resolution.Code != "" {
		s.log.LogPromoRejected(ctx, resolution.Code, resolution.Message)
	}

	metrics.IncBookingCreated(resolution.Applied)
	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.VenueID.String(), booking.UserID.String(), booking.TotalPrice.String())
	s.publish(ctx, notifications.EventBookingCreated, booking)
}

// EditBooking moves a booking the caller owns to a new date and time. The
// price is recomputed from the venue's current rate and the discount the
// booking already earned; no promo use is consumed.
func (s *service) EditBooking(ctx context.Context, userID uuid.UUID, bookingID string, req EditBookingRequest) (*BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrInvalidBookingID
	}

	now := s.now()
	var (
		booking *Booking
		oldDate string
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err = s.repo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if booking.UserID != userID {
			return ErrForbidden
		}
		if booking.Status.IsTerminal() {
			return ErrInvalidTransition
		}
		if booking.HasStarted(now, s.loc) {
			return ErrAlreadyStarted
		}

		venue, err := venues.FindForUpdate(tx.WithContext(ctx), booking.VenueID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return venues.ErrVenueNotFound
			}
			return fmt.Errorf("lock venue: %w", err)
		}

		window, err := ValidateWindow(TimeInput{
			BookingDate: req.BookingDate,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
		}, now, WindowRules{
			Location:    s.loc,
			MinDuration: s.rules.MinDuration,
			MaxDuration: s.rules.MaxEditDuration,
		})
		if err != nil {
			return err
		}

		conflicts, err := FindConflicts(ctx, tx, ConflictQuery{
			VenueID:   venue.ID,
			Date:      window.Date,
			Start:     window.Start,
			End:       window.End,
			ExcludeID: &booking.ID,
		})
		if err != nil {
			return fmt.Errorf("detect conflicts: %w", err)
		}
		if s.rules.AllowSelfOverlapOnEdit {
			conflicts = withoutOwner(conflicts, userID)
		}
		if len(conflicts) > 0 {
			return &ConflictError{Windows: conflictWindows(conflicts)}
		}

		base := PriceFor(venue.PricePerHour, window.Duration)
		discount, total := promos.ApplyDiscount(base, booking.DiscountPercent)

		oldDate = booking.BookingDate
		booking.BookingDate = window.Date
		booking.StartTime = window.Start
		booking.EndTime = window.End
		booking.BasePrice = base
		booking.DiscountAmount = discount
		booking.TotalPrice = total

		if err := s.repo.Save(ctx, tx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.unexpected(ctx, "Booking edit failed", err, id)
	}

	s.slots.InvalidateSlots(ctx, booking.VenueID, oldDate)
	if oldDate != booking.BookingDate {
		s.slots.InvalidateSlots(ctx, booking.VenueID, booking.BookingDate)
	}
	s.publish(ctx, notifications.EventBookingUpdated, booking)

	resp := booking.ToResponse()
	return &resp, nil
}

func withoutOwner(conflicts []Booking, userID uuid.UUID) []Booking {
	kept := conflicts[:0]
	for _, c := range conflicts {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	return kept
}

// CancelBooking cancels a booking the caller owns whose start has not passed
func (s *service) CancelBooking(ctx context.Context, userID uuid.UUID, bookingID string) (*BookingResponse, error) {
	booking, from, err := s.transition(ctx, bookingID, StatusCancelled, func(b *Booking, now time.Time) error {
		if b.UserID != userID {
			return ErrForbidden
		}
		if b.Status.CanTransitionTo(StatusCancelled) && b.HasStarted(now, s.loc) {
			return ErrAlreadyStarted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.LogBookingCancelled(ctx, booking.ID.String(), userID.String())
	s.afterTransition(ctx, booking, from, notifications.EventBookingCancelled)
	s.slots.InvalidateSlots(ctx, booking.VenueID, booking.BookingDate)

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) ConfirmBooking(ctx context.Context, bookingID string) (*BookingResponse, error) {
	booking, from, err := s.transition(ctx, bookingID, StatusConfirmed, nil)
	if err != nil {
		return nil, err
	}
	s.afterTransition(ctx, booking, from, notifications.EventBookingConfirmed)

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) CompleteBooking(ctx context.Context, bookingID string) (*BookingResponse, error) {
	booking, from, err := s.transition(ctx, bookingID, StatusCompleted, nil)
	if err != nil {
		return nil, err
	}
	s.afterTransition(ctx, booking, from, notifications.EventBookingCompleted)

	resp := booking.ToResponse()
	return &resp, nil
}

// transition moves a locked booking to status `to` after guard passes
func (s *service) transition(ctx context.Context, bookingID string, to Status, guard func(*Booking, time.Time) error) (*Booking, Status, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, "", ErrInvalidBookingID
	}

	now := s.now()
	var (
		booking *Booking
		from    Status
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err = s.repo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(booking, now); err != nil {
				return err
			}
		}
		if !booking.Status.CanTransitionTo(to) {
			return ErrInvalidTransition
		}

		from = booking.Status
		booking.Status = to
		stamp := now.UTC()
		switch to {
		case StatusCancelled:
			booking.CancelledAt = &stamp
		case StatusConfirmed:
			booking.ConfirmedAt = &stamp
		case StatusCompleted:
			booking.CompletedAt = &stamp
		}

		if err := s.repo.Save(ctx, tx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, "", s.unexpected(ctx, "Booking status change failed", err, id)
	}

	return booking, from, nil
}

func (s *service) afterTransition(ctx context.Context, booking *Booking, from Status, event notifications.EventType) {
	metrics.IncBookingTransition(string(booking.Status))
	s.log.LogBookingStatusChanged(ctx, booking.ID.String(), string(from), string(booking.Status))
	s.publish(ctx, event, booking)
}

// unexpected passes known errors through and replaces anything else with
// ErrUpdateFailed after logging it
func (s *service) unexpected(ctx context.Context, msg string, err error, bookingID uuid.UUID) error {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, ErrSlotConflict),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrAlreadyStarted),
		errors.Is(err, venues.ErrVenueNotFound):
		return err
	}

	s.log.ErrorWithContext(ctx, msg, err, map[string]interface{}{"booking_id": bookingID.String()})
	return ErrUpdateFailed
}

func (s *service) publish(ctx context.Context, eventType notifications.EventType, booking *Booking) {
	event := &notifications.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID.String(),
		VenueID:     booking.VenueID.String(),
		UserID:      booking.UserID.String(),
		BookingDate: booking.BookingDate,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Status:      string(booking.Status),
		TotalPrice:  booking.TotalPrice.String(),
		PromoCode:   booking.PromoCode,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish booking event", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
			"type":       string(eventType),
		})
	}
}

func (s *service) GetBooking(ctx context.Context, requesterID uuid.UUID, isAdmin bool, bookingID string) (*BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requesterID {
		return nil, ErrForbidden
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*BookingListResponse, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = defaultPageSize
	}
	if query.Limit > maxPageSize {
		query.Limit = maxPageSize
	}

	bookings, total, err := s.repo.ListByUser(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	result := &BookingListResponse{
		Bookings:   make([]BookingResponse, 0, len(bookings)),
		Page:       query.Page,
		Limit:      query.Limit,
		TotalCount: total,
		TotalPages: CalculateTotalPages(total, query.Limit),
	}
	for i := range bookings {
		result.Bookings = append(result.Bookings, bookings[i].ToResponse())
	}
	return result, nil
}
