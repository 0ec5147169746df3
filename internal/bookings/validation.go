package bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ValidationError describes a rejected booking input field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TimeInput is the raw date and time range supplied by a client
type TimeInput struct {
	BookingDate string
	StartTime   string
	EndTime     string
}

// Window is a validated and normalized booking range
type Window struct {
	Date     string
	Start    string
	End      string
	Duration time.Duration
}

// WindowRules bounds what ValidateWindow accepts. A zero MaxDuration means no cap.
type WindowRules struct {
	Location    *time.Location
	MinDuration time.Duration
	MaxDuration time.Duration
}

func parseClock(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(clockLayout, raw); err == nil {
		return t, true
	}
	// seconds are accepted only on the minute so the stored HH:MM matches
	if t, err := time.Parse("15:04:05", raw); err == nil && t.Second() == 0 {
		return t, true
	}
	return time.Time{}, false
}

// ValidateWindow checks a booking range against the clock and rules and
// returns its normalized form. Nothing is read from or written to storage.
func ValidateWindow(in TimeInput, now time.Time, rules WindowRules) (*Window, error) {
	loc := rules.Location
	if loc == nil {
		loc = time.UTC
	}

	if strings.TrimSpace(in.BookingDate) == "" {
		return nil, invalid("booking_date", "booking date is required")
	}
	if strings.TrimSpace(in.StartTime) == "" {
		return nil, invalid("start_time", "start time is required")
	}
	if strings.TrimSpace(in.EndTime) == "" {
		return nil, invalid("end_time", "end time is required")
	}

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(in.BookingDate), loc)
	if err != nil {
		return nil, invalid("booking_date", "booking date must be in YYYY-MM-DD format")
	}

	localNow := now.In(loc)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	if date.Before(today) {
		return nil, invalid("booking_date", "booking date cannot be in the past")
	}

	start, ok := parseClock(in.StartTime)
	if !ok {
		return nil, invalid("start_time", "start time must be in HH:MM format")
	}
	end, ok := parseClock(in.EndTime)
	if !ok {
		return nil, invalid("end_time", "end time must be in HH:MM format")
	}

	startsAt := time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, loc)
	if !startsAt.After(localNow) {
		return nil, invalid("start_time", "start time has already passed")
	}

	if !end.After(start) {
		return nil, invalid("end_time", "end time must be after start time")
	}

	duration := end.Sub(start)
	if rules.MinDuration > 0 && duration < rules.MinDuration {
		return nil, invalid("end_time", "booking must last at least %s", humanDuration(rules.MinDuration))
	}
	if rules.MaxDuration > 0 && duration > rules.MaxDuration {
		return nil, invalid("end_time", "booking cannot last more than %s", humanDuration(rules.MaxDuration))
	}

	return &Window{
		Date:     date.Format(dateLayout),
		Start:    start.Format(clockLayout),
		End:      end.Format(clockLayout),
		Duration: duration,
	}, nil
}

func humanDuration(d time.Duration) string {
	if d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}

// PriceFor charges pricePerHour pro rata for duration, rounded to 2 places
func PriceFor(pricePerHour decimal.Decimal, duration time.Duration) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(duration / time.Minute))
	return pricePerHour.Mul(minutes).Div(decimal.NewFromInt(60)).Round(2)
}
