package matches

import (
	"context"
	"errors"
	"time"

	"venyuk/internal/venues"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows the match listing. A nil From lists past matches too.
type ListFilter struct {
	Category string
	From     *time.Time
	Offset   int
	Limit    int
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Match, int64, error)
	GetWithParticipants(ctx context.Context, id uuid.UUID) (*Match, error)
	Create(ctx context.Context, match *Match) error

	LockForJoin(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Match, error)
	HasParticipant(ctx context.Context, tx *gorm.DB, matchID, userID uuid.UUID) (bool, error)
	AddParticipant(ctx context.Context, tx *gorm.DB, participant *Participant) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Match, int64, error) {
	var (
		matches []Match
		total   int64
	)

	query := r.db.WithContext(ctx).Model(&Match{})
	if filter.Category != "" {
		venueIDs := r.db.Model(&venues.Venue{}).Select("id").Where("category = ?", filter.Category)
		query = query.Where("venue_id IN (?)", venueIDs)
	}
	if filter.From != nil {
		query = query.Where("start_time >= ?", filter.From.UTC())
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Venue").
		Order("start_time ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&matches).Error
	if err != nil {
		return nil, 0, err
	}

	return matches, total, nil
}

func (r *repository) GetWithParticipants(ctx context.Context, id uuid.UUID) (*Match, error) {
	var match Match
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		First(&match, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *repository) Create(ctx context.Context, match *Match) error {
	return r.db.WithContext(ctx).Omit("Venue", "Participants").Create(match).Error
}

func (r *repository) LockForJoin(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Match, error) {
	match, err := findForUpdate(tx.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *repository) HasParticipant(ctx context.Context, tx *gorm.DB, matchID, userID uuid.UUID) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&Participant{}).
		Where("match_id = ? AND user_id = ?", matchID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddParticipant takes one slot and records the participant. The slot
// update is guarded so slot_filled never passes slot_total.
func (r *repository) AddParticipant(ctx context.Context, tx *gorm.DB, participant *Participant) error {
	result := tx.WithContext(ctx).
		Model(&Match{}).
		Where("id = ? AND slot_filled < slot_total", participant.MatchID).
		UpdateColumn("slot_filled", gorm.Expr("slot_filled + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMatchFull
	}

	return tx.WithContext(ctx).Create(participant).Error
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
