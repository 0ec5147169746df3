package matches

import (
	"time"

	"venyuk/internal/venues"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func ParseDifficulty(raw string) (Difficulty, bool) {
	switch d := Difficulty(raw); d {
	case "":
		return DifficultyBeginner, true
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return d, true
	}
	return "", false
}

// Match is a community game hosted at a venue that other users can join
type Match struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	VenueID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"venue_id"`
	CreatorID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"creator_id"`
	SlotTotal    int           `gorm:"not null" json:"slot_total"`
	SlotFilled   int           `gorm:"not null;default:0" json:"slot_filled"`
	StartTime    time.Time     `gorm:"not null;index" json:"start_time"`
	EndTime      time.Time     `gorm:"not null" json:"end_time"`
	Difficulty   Difficulty    `gorm:"type:varchar(20);not null;default:'beginner'" json:"difficulty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Venue        *venues.Venue `gorm:"foreignKey:VenueID" json:"-"`
	Participants []Participant `gorm:"foreignKey:MatchID" json:"participants,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.StartTime = m.StartTime.UTC()
	m.EndTime = m.EndTime.UTC()
	return nil
}

func (m *Match) IsFull() bool {
	return m.SlotFilled >= m.SlotTotal
}

func (m *Match) HasStarted(now time.Time) bool {
	return !now.Before(m.StartTime)
}

// Participant is one user's seat in a match
type Participant struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MatchID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_participant" json:"match_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_participant" json:"user_id"`
	FullName string    `gorm:"type:varchar(100);not null" json:"full_name"`
	Phone    string    `gorm:"type:varchar(20);not null" json:"phone"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
}

func (Participant) TableName() string {
	return "match_participants"
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now().UTC()
	}
	return nil
}

func findForUpdate(tx *gorm.DB, id uuid.UUID) (*Match, error) {
	var match Match
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&match, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (m *Match) ToResponse() MatchResponse {
	resp := MatchResponse{
		ID:         m.ID.String(),
		VenueID:    m.VenueID.String(),
		CreatorID:  m.CreatorID.String(),
		SlotTotal:  m.SlotTotal,
		SlotFilled: m.SlotFilled,
		SlotsLeft:  m.SlotTotal - m.SlotFilled,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		Difficulty: string(m.Difficulty),
		CreatedAt:  m.CreatedAt,
	}
	if m.Venue != nil {
		resp.VenueName = m.Venue.Name
		resp.Category = string(m.Venue.Category)
	}
	return resp
}
