package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"venyuk/internal/notifications"
	"venyuk/internal/promos"
	"venyuk/internal/shared/config"
	"venyuk/internal/shared/testutil"
	"venyuk/internal/venues"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingSlots struct {
	mu    sync.Mutex
	dates []string
}

func (r *recordingSlots) InvalidateSlots(_ context.Context, venueID uuid.UUID, date string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, venueID.String()+"|"+date)
}

type countingPromoCache struct{ calls int }

func (c *countingPromoCache) InvalidateListings(context.Context) { c.calls++ }

type capturePublisher struct {
	events []*notifications.BookingEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, e *notifications.BookingEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

type harness struct {
	db        *gorm.DB
	svc       Service
	promoRepo promos.Repository
	slots     *recordingSlots
	promos    *countingPromoCache
	publisher *capturePublisher
	now       time.Time
}

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func newHarness(t *testing.T, mutate func(*config.BookingConfig)) *harness {
	t.Helper()

	db := testutil.NewDB(t, &venues.Venue{}, &promos.Promo{}, &promos.PromoUsage{}, &Booking{})
	rules := config.BookingConfig{
		Timezone:        "Asia/Jakarta",
		MinDuration:     time.Hour,
		MaxEditDuration: 12 * time.Hour,
		OpenHour:        7,
		CloseHour:       22,
	}
	if mutate != nil {
		mutate(&rules)
	}

	h := &harness{
		db:        db,
		promoRepo: promos.NewRepository(db),
		slots:     &recordingSlots{},
		promos:    &countingPromoCache{},
		publisher: &capturePublisher{},
		now:       time.Date(2025, time.October, 10, 9, 0, 0, 0, jakarta(t)),
	}
	clock := func() time.Time { return h.now }
	h.svc = NewService(
		db,
		NewRepository(db),
		promos.NewResolver(h.promoRepo, clock),
		h.slots,
		h.promos,
		h.publisher,
		rules,
		clock,
	)
	return h
}

func (h *harness) venue(t *testing.T, pricePerHour int64) *venues.Venue {
	t.Helper()
	v := &venues.Venue{
		Name:         "Arena " + uuid.NewString()[:8],
		Category:     venues.CategoryFutsal,
		PricePerHour: decimal.NewFromInt(pricePerHour),
		IsAvailable:  true,
	}
	require.NoError(t, h.db.Create(v).Error)
	return v
}

func (h *harness) book(t *testing.T, user uuid.UUID, venueID uuid.UUID, date, start, end, promo string) (*CreateBookingResponse, error) {
	t.Helper()
	return h.svc.CreateBooking(context.Background(), user, venueID.String(), CreateBookingRequest{
		BookingDate: date,
		StartTime:   start,
		EndTime:     end,
		PromoCode:   promo,
	})
}

func (h *harness) countBookings(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(&Booking{}).Count(&n).Error)
	return n
}

const tomorrow = "2025-10-11"

func TestCreateBooking_NoPromo(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	user := uuid.New()

	res, err := h.book(t, user, v.ID, tomorrow, "18:00", "20:00", "")
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "pending", res.Status)
	assert.True(t, res.TotalPrice.Equal(decimal.NewFromInt(100000)), res.TotalPrice.String())
	assert.True(t, res.BasePrice.Equal(decimal.NewFromInt(100000)))
	assert.False(t, res.PromoApplied)

	stored, err := NewRepository(h.db).GetByID(context.Background(), uuid.MustParse(res.BookingID))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Equal(t, user, stored.UserID)
	assert.Nil(t, stored.PromoID)

	assert.Equal(t, []string{v.ID.String() + "|" + tomorrow}, h.slots.dates)
	require.Len(t, h.publisher.events, 1)
	assert.Equal(t, notifications.EventBookingCreated, h.publisher.events[0].Type)
	assert.True(t, decimal.RequireFromString(h.publisher.events[0].TotalPrice).Equal(decimal.NewFromInt(100000)))
}

func TestCreateBooking_SameSlotSecondUserRejected(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)

	first, err := h.book(t, uuid.New(), v.ID, tomorrow, "18:00", "20:00", "")
	require.NoError(t, err)

	_, err = h.book(t, uuid.New(), v.ID, tomorrow, "19:00", "21:00", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotConflict)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Empty(t, conflict.Windows, "create flow only returns the generic message")

	assert.EqualValues(t, 1, h.countBookings(t))
	stored, err := NewRepository(h.db).GetByID(context.Background(), uuid.MustParse(first.BookingID))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Equal(t, "18:00", stored.StartTime)
}

func TestCreateBooking_AdjacentAndOtherVenueAllowed(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	other := h.venue(t, 70000)

	_, err := h.book(t, uuid.New(), v.ID, tomorrow, "18:00", "20:00", "")
	require.NoError(t, err)

	_, err = h.book(t, uuid.New(), v.ID, tomorrow, "20:00", "21:00", "")
	assert.NoError(t, err)
	_, err = h.book(t, uuid.New(), v.ID, tomorrow, "16:00", "18:00", "")
	assert.NoError(t, err)
	_, err = h.book(t, uuid.New(), other.ID, tomorrow, "18:00", "20:00", "")
	assert.NoError(t, err)
	_, err = h.book(t, uuid.New(), v.ID, "2025-10-12", "18:00", "20:00", "")
	assert.NoError(t, err)

	assert.EqualValues(t, 5, h.countBookings(t))
}

func TestCreateBooking_PromoApplied(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	promo := &promos.Promo{
		Title:           "October",
		Code:            "VENUE20-OCT25-AB12",
		Scope:           promos.ScopeVenue,
		DiscountPercent: 20,
		StartDate:       h.now.AddDate(0, 0, -3),
		EndDate:         h.now.AddDate(0, 0, 20),
		MaxUses:         10,
		CurrentUses:     5,
		IsActive:        true,
	}
	require.NoError(t, h.promoRepo.Create(context.Background(), promo))

	res, err := h.book(t, uuid.New(), v.ID, tomorrow, "18:00", "20:00", "venue20-oct25-ab12")
	require.NoError(t, err)

	assert.True(t, res.PromoApplied)
	assert.True(t, res.TotalPrice.Equal(decimal.NewFromInt(80000)), res.TotalPrice.String())
	assert.True(t, res.DiscountAmount.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, 20, res.DiscountPercent)

	stored, err := h.promoRepo.GetByID(context.Background(), promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.RemainingUses())

	booking, err := NewRepository(h.db).GetByID(context.Background(), uuid.MustParse(res.BookingID))
	require.NoError(t, err)
	require.NotNil(t, booking.PromoID)
	assert.Equal(t, promo.ID, *booking.PromoID)
	assert.Equal(t, "VENUE20-OCT25-AB12", booking.PromoCode)

	var usage promos.PromoUsage
	require.NoError(t, h.db.Where("reference_id = ?", booking.ID).First(&usage).Error)
	assert.True(t, usage.DiscountAmount.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, promos.ScopeVenue, usage.Scope)
	assert.Equal(t, 1, h.promos.calls)
}

func TestCreateBooking_BadPromoFallsBackToFullPrice(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	expired := &promos.Promo{
		Title:           "Old",
		Code:            "OLD10",
		Scope:           promos.ScopeVenue,
		DiscountPercent: 10,
		StartDate:       h.now.AddDate(0, -2, 0),
		EndDate:         h.now.AddDate(0, 0, -1),
		MaxUses:         10,
		CurrentUses:     2,
		IsActive:        true,
	}
	require.NoError(t, h.promoRepo.Create(context.Background(), expired))

	attempts := []struct{ code, start, end string }{
		{"OLD10", "08:00", "09:00"},
		{"DOESNOTEXIST", "10:00", "11:00"},
	}
	for _, a := range attempts {
		res, err := h.book(t, uuid.New(), v.ID, tomorrow, a.start, a.end, a.code)
		require.NoError(t, err, a.code)
		assert.False(t, res.PromoApplied, a.code)
		assert.NotEmpty(t, res.PromoMessage, a.code)
		assert.True(t, res.TotalPrice.Equal(decimal.NewFromInt(50000)), a.code)
		assert.True(t, res.DiscountAmount.IsZero(), a.code)
	}

	stored, err := h.promoRepo.GetByID(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.RemainingUses())
	assert.Equal(t, 0, h.promos.calls)
}

func TestCreateBooking_ValidationWritesNothing(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)

	cases := map[string]CreateBookingRequest{
		"end before start":  {BookingDate: tomorrow, StartTime: "20:00", EndTime: "18:00"},
		"end equals start":  {BookingDate: tomorrow, StartTime: "18:00", EndTime: "18:00"},
		"past date":         {BookingDate: "2025-10-09", StartTime: "18:00", EndTime: "20:00"},
		"too short":         {BookingDate: tomorrow, StartTime: "18:00", EndTime: "18:30"},
		"missing date":      {StartTime: "18:00", EndTime: "20:00"},
		"malformed time":    {BookingDate: tomorrow, StartTime: "6pm", EndTime: "20:00"},
		"malformed date":    {BookingDate: "11/10/2025", StartTime: "18:00", EndTime: "20:00"},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.svc.CreateBooking(context.Background(), uuid.New(), v.ID.String(), req)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Message)
		})
	}

	assert.EqualValues(t, 0, h.countBookings(t))
	assert.Empty(t, h.publisher.events)
}

func TestCreateBooking_VenueChecks(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	require.NoError(t, h.db.Model(v).Update("is_available", false).Error)

	_, err := h.book(t, uuid.New(), v.ID, tomorrow, "18:00", "20:00", "")
	assert.ErrorIs(t, err, venues.ErrVenueUnavailable)

	_, err = h.book(t, uuid.New(), uuid.New(), tomorrow, "18:00", "20:00", "")
	assert.ErrorIs(t, err, venues.ErrVenueNotFound)

	_, err = h.svc.CreateBooking(context.Background(), uuid.New(), "nope", CreateBookingRequest{})
	assert.ErrorIs(t, err, venues.ErrInvalidVenueID)
}

func TestCreateBooking_PublishFailureDoesNotFailRequest(t *testing.T) {
	h := newHarness(t, nil)
	h.publisher.err = errors.New("broker down")
	v := h.venue(t, 50000)

	res, err := h.book(t, uuid.New(), v.ID, tomorrow, "18:00", "20:00", "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.EqualValues(t, 1, h.countBookings(t))
}

func TestCancelBooking_FreesSlot(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	owner := uuid.New()

	first, err := h.book(t, owner, v.ID, tomorrow, "18:00", "20:00", "")
	require.NoError(t, err)

	_, err = h.book(t, uuid.New(), v.ID, tomorrow, "18:00", "20:00", "")
	require.ErrorIs(t, err, ErrSlotConflict)

	cancelled, err := h.svc.CancelBooking(context.Background(), owner, first.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = h.book(t, uuid.New(), v.ID, tomorrow, "18:00", "20:00", "")
	assert.NoError(t, err)
}

func TestCreateBooking_EarlierTodayRejected(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	owner := uuid.New()

	// 09:00 in Jakarta: 07:00-08:00 is over, 10:00-11:00 is still ahead
	_, err := h.book(t, owner, v.ID, "2025-10-10", "07:00", "08:00", "")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "start_time", validationErr.Field)
	assert.EqualValues(t, 0, h.countBookings(t))

	later, err := h.book(t, owner, v.ID, "2025-10-10", "10:00", "11:00", "")
	require.NoError(t, err)
	cancelled, err := h.svc.CancelBooking(context.Background(), owner, later.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
}

func TestCancelBooking_Rules(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	owner := uuid.New()

	res, err := h.book(t, owner, v.ID, tomorrow, "18:00", "20:00", "")
	require.NoError(t, err)

	_, err = h.svc.CancelBooking(context.Background(), uuid.New(), res.BookingID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.CancelBooking(context.Background(), owner, uuid.NewString())
	assert.ErrorIs(t, err, ErrBookingNotFound)

	started, err := h.book(t, owner, v.ID, "2025-10-10", "10:00", "11:00", "")
	require.NoError(t, err)
	h.now = h.now.Add(90 * time.Minute)
	_, err = h.svc.CancelBooking(context.Background(), owner, started.BookingID)
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	_, err = h.svc.CancelBooking(context.Background(), owner, res.BookingID)
	require.NoError(t, err)
	_, err = h.svc.CancelBooking(context.Background(), owner, res.BookingID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLifecycle_ConfirmComplete(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	owner := uuid.New()

	res, err := h.book(t, owner, v.ID, tomorrow, "18:00", "20:00", "")
	require.NoError(t, err)

	_, err = h.svc.CompleteBooking(context.Background(), res.BookingID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "pending cannot jump to completed")

	confirmed, err := h.svc.ConfirmBooking(context.Background(), res.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)

	// confirmed bookings still hold the slot
	_, err = h.book(t, uuid.New(), v.ID, tomorrow, "19:00", "20:00", "")
	assert.ErrorIs(t, err, ErrSlotConflict)

	completed, err := h.svc.CompleteBooking(context.Background(), res.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)

	_, err = h.svc.CancelBooking(context.Background(), owner, res.BookingID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = h.svc.ConfirmBooking(context.Background(), res.BookingID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	types := make([]notifications.EventType, 0, len(h.publisher.events))
	for _, e := range h.publisher.events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []notifications.EventType{
		notifications.EventBookingCreated,
		notifications.EventBookingConfirmed,
		notifications.EventBookingCompleted,
	}, types)
}

func TestEditBooking(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	owner := uuid.New()
	ctx := context.Background()

	mine, err := h.book(t, owner, v.ID, tomorrow, "18:00", "20:00", "")
	require.NoError(t, err)
	_, err = h.book(t, uuid.New(), v.ID, tomorrow, "21:00", "22:00", "")
	require.NoError(t, err)

	t.Run("overlapping itself is fine", func(t *testing.T) {
		updated, err := h.svc.EditBooking(ctx, owner, mine.BookingID, EditBookingRequest{BookingDate: tomorrow, StartTime: "19:00", EndTime: "21:00"})
		require.NoError(t, err)
		assert.Equal(t, "19:00", updated.StartTime)
		assert.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(100000)))
	})

	t.Run("conflict lists windows", func(t *testing.T) {
		_, err := h.svc.EditBooking(ctx, owner, mine.BookingID, EditBookingRequest{BookingDate: tomorrow, StartTime: "20:00", EndTime: "22:00"})
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []string{"21:00-22:00"}, conflict.Windows)
	})

	t.Run("duration cap", func(t *testing.T) {
		_, err := h.svc.EditBooking(ctx, owner, mine.BookingID, EditBookingRequest{BookingDate: "2025-10-12", StartTime: "00:00", EndTime: "13:00"})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("not owner", func(t *testing.T) {
		_, err := h.svc.EditBooking(ctx, uuid.New(), mine.BookingID, EditBookingRequest{BookingDate: tomorrow, StartTime: "10:00", EndTime: "11:00"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("move to another day invalidates both dates", func(t *testing.T) {
		h.slots.dates = nil
		updated, err := h.svc.EditBooking(ctx, owner, mine.BookingID, EditBookingRequest{BookingDate: "2025-10-12", StartTime: "10:00", EndTime: "13:00"})
		require.NoError(t, err)
		assert.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(150000)))
		assert.ElementsMatch(t, []string{
			v.ID.String() + "|" + tomorrow,
			v.ID.String() + "|2025-10-12",
		}, h.slots.dates)
	})
}

func TestEditBooking_KeepsDiscountWithoutNewUse(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	owner := uuid.New()
	promo := &promos.Promo{
		Title:           "Half",
		Code:            "HALF50",
		Scope:           promos.ScopeVenue,
		DiscountPercent: 50,
		StartDate:       h.now.AddDate(0, 0, -1),
		EndDate:         h.now.AddDate(0, 0, 10),
		MaxUses:         3,
		IsActive:        true,
	}
	require.NoError(t, h.promoRepo.Create(context.Background(), promo))

	res, err := h.book(t, owner, v.ID, tomorrow, "18:00", "20:00", "HALF50")
	require.NoError(t, err)
	require.True(t, res.PromoApplied)

	updated, err := h.svc.EditBooking(context.Background(), owner, res.BookingID, EditBookingRequest{BookingDate: tomorrow, StartTime: "17:00", EndTime: "20:00"})
	require.NoError(t, err)
	assert.True(t, updated.BasePrice.Equal(decimal.NewFromInt(150000)))
	assert.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(75000)))

	stored, err := h.promoRepo.GetByID(context.Background(), promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentUses)
}

func TestEditBooking_SelfOverlapOption(t *testing.T) {
	h := newHarness(t, func(c *config.BookingConfig) { c.AllowSelfOverlapOnEdit = true })
	v := h.venue(t, 50000)
	owner := uuid.New()

	a, err := h.book(t, owner, v.ID, tomorrow, "10:00", "11:00", "")
	require.NoError(t, err)
	_, err = h.book(t, owner, v.ID, tomorrow, "12:00", "13:00", "")
	require.NoError(t, err)

	_, err = h.svc.EditBooking(context.Background(), owner, a.BookingID, EditBookingRequest{BookingDate: tomorrow, StartTime: "11:00", EndTime: "13:00"})
	assert.NoError(t, err)
}

func TestGetAndListBookings(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	owner := uuid.New()
	ctx := context.Background()

	a, err := h.book(t, owner, v.ID, tomorrow, "08:00", "09:00", "")
	require.NoError(t, err)
	_, err = h.book(t, owner, v.ID, tomorrow, "10:00", "11:00", "")
	require.NoError(t, err)
	_, err = h.book(t, uuid.New(), v.ID, tomorrow, "12:00", "13:00", "")
	require.NoError(t, err)
	_, err = h.svc.CancelBooking(ctx, owner, a.BookingID)
	require.NoError(t, err)

	got, err := h.svc.GetBooking(ctx, owner, false, a.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)

	_, err = h.svc.GetBooking(ctx, uuid.New(), false, a.BookingID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.GetBooking(ctx, uuid.New(), true, a.BookingID)
	assert.NoError(t, err)

	all, err := h.svc.ListUserBookings(ctx, owner, BookingListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.TotalCount)
	assert.Equal(t, 1, all.TotalPages)

	pending, err := h.svc.ListUserBookings(ctx, owner, BookingListQuery{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending.Bookings, 1)
	assert.Equal(t, "10:00", pending.Bookings[0].StartTime)
}

func TestActiveWindows(t *testing.T) {
	h := newHarness(t, nil)
	v := h.venue(t, 50000)
	owner := uuid.New()

	a, err := h.book(t, owner, v.ID, tomorrow, "08:00", "09:00", "")
	require.NoError(t, err)
	_, err = h.book(t, owner, v.ID, tomorrow, "18:00", "20:00", "")
	require.NoError(t, err)
	_, err = h.svc.CancelBooking(context.Background(), owner, a.BookingID)
	require.NoError(t, err)

	windows, err := NewRepository(h.db).ActiveWindows(context.Background(), v.ID, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, []venues.TimeWindow{{Start: "18:00", End: "20:00"}}, windows)
}
