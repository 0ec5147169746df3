package matches

import "time"

type CreateMatchRequest struct {
	VenueID    string    `json:"venue_id" validate:"required,uuid"`
	SlotTotal  int       `json:"slot_total" validate:"required,min=1,max=100"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Difficulty string    `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
}

type JoinMatchRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"required,min=6,max=20"`
}

type ListMatchesQuery struct {
	Category string `form:"category"`
	Upcoming bool   `form:"upcoming"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
