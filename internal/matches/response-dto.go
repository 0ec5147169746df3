package matches

import "time"

type MatchResponse struct {
	ID         string    `json:"id"`
	VenueID    string    `json:"venue_id"`
	VenueName  string    `json:"venue_name,omitempty"`
	Category   string    `json:"category,omitempty"`
	CreatorID  string    `json:"creator_id"`
	SlotTotal  int       `json:"slot_total"`
	SlotFilled int       `json:"slot_filled"`
	SlotsLeft  int       `json:"slots_left"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ParticipantResponse struct {
	UserID   string    `json:"user_id"`
	FullName string    `json:"full_name"`
	Phone    string    `json:"phone"`
	JoinedAt time.Time `json:"joined_at"`
}

type MatchDetailResponse struct {
	MatchResponse
	Participants []ParticipantResponse `json:"participants"`
}

type MatchListResponse struct {
	Matches    []MatchResponse `json:"matches"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalCount int64           `json:"total_count"`
	TotalPages int             `json:"total_pages"`
}
