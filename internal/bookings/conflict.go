package bookings

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSlotConflict = errors.New("the selected time slot is already booked")

// ConflictError carries the windows that collide with a requested range.
// Windows is empty when the caller should only see the generic message.
type ConflictError struct {
	Windows []string
}

func (e *ConflictError) Error() string {
	if len(e.Windows) == 0 {
		return ErrSlotConflict.Error()
	}
	return ErrSlotConflict.Error() + ": " + strings.Join(e.Windows, ", ")
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}

// ConflictQuery selects the active bookings overlapping [Start, End) on
// one venue and date. ExcludeID skips the booking being edited.
type ConflictQuery struct {
	VenueID   uuid.UUID
	Date      string
	Start     string
	End       string
	ExcludeID *uuid.UUID
}

// FindConflicts runs q inside tx. Overlap is half open, so a booking that
// ends exactly when another starts does not conflict.
func FindConflicts(ctx context.Context, tx *gorm.DB, q ConflictQuery) ([]Booking, error) {
	var conflicts []Booking

	query := tx.WithContext(ctx).
		Where("venue_id = ? AND booking_date = ?", q.VenueID, q.Date).
		Where("status IN ?", ActiveStatuses()).
		Where("start_time < ? AND end_time > ?", q.End, q.Start)
	if q.ExcludeID != nil {
		query = query.Where("id <> ?", *q.ExcludeID)
	}

	if err := query.Order("start_time ASC").Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

func conflictWindows(conflicts []Booking) []string {
	windows := make([]string, 0, len(conflicts))
	for i := range conflicts {
		windows = append(windows, conflicts[i].Window())
	}
	return windows
}
