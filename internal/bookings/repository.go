package bookings

import (
	"context"
	"errors"
	"math"

	"venyuk/internal/venues"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository interface for booking persistence. Methods taking tx run inside
// the caller's transaction.
type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *Booking) error
	Save(ctx context.Context, tx *gorm.DB, booking *Booking) error
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)

	// ActiveWindows satisfies venues.BookingWindowSource
	ActiveWindows(ctx context.Context, venueID uuid.UUID, date string) ([]venues.TimeWindow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *repository) Save(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	return tx.WithContext(ctx).Save(booking).Error
}

func (r *repository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)

	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("booking_date DESC, start_time DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) ActiveWindows(ctx context.Context, venueID uuid.UUID, date string) ([]venues.TimeWindow, error) {
	var rows []Booking
	err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where("venue_id = ? AND booking_date = ?", venueID, date).
		Where("status IN ?", ActiveStatuses()).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	windows := make([]venues.TimeWindow, 0, len(rows))
	for _, row := range rows {
		windows = append(windows, venues.TimeWindow{Start: row.StartTime, End: row.EndTime})
	}
	return windows, nil
}

// CalculateTotalPages returns the number of pages for totalCount items
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
