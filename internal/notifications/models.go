package notifications

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingUpdated   EventType = "booking.updated"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCompleted EventType = "booking.completed"
)

// BookingEvent is the message published whenever a booking changes
type BookingEvent struct {
	Type        EventType `json:"type"`
	BookingID   string    `json:"booking_id"`
	VenueID     string    `json:"venue_id"`
	UserID      string    `json:"user_id"`
	BookingDate string    `json:"booking_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Status      string    `json:"status"`
	TotalPrice  string    `json:"total_price"`
	PromoCode   string    `json:"promo_code,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey keeps every event of one venue on the same partition
func (e *BookingEvent) PartitionKey() string {
	return e.VenueID
}
