package matches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venyuk/internal/shared/metrics"
	"venyuk/internal/venues"
	"venyuk/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrInvalidMatchID    = errors.New("invalid match ID")
	ErrMatchFull         = errors.New("match is already full")
	ErrAlreadyJoined     = errors.New("you have already joined this match")
	ErrMatchStarted      = errors.New("match has already started")
	ErrInvalidSchedule   = errors.New("end time must be after start time")
	ErrStartInPast       = errors.New("match cannot start in the past")
	ErrInvalidDifficulty = errors.New("difficulty must be beginner, intermediate or advanced")
	ErrInvalidSlotTotal  = errors.New("slot total must be at least 1")
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// VenueLookup resolves the venue a match is hosted at
type VenueLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*venues.Venue, error)
}

type Service interface {
	ListMatches(ctx context.Context, query ListMatchesQuery) (*MatchListResponse, error)
	GetMatch(ctx context.Context, matchID string) (*MatchDetailResponse, error)
	CreateMatch(ctx context.Context, creatorID uuid.UUID, req CreateMatchRequest) (*MatchResponse, error)
	JoinMatch(ctx context.Context, userID uuid.UUID, matchID string, req JoinMatchRequest) (*MatchResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	venues VenueLookup
	now    func() time.Time
	log    *logger.Logger
}

func NewService(db *gorm.DB, repo Repository, venues VenueLookup, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		db:     db,
		repo:   repo,
		venues: venues,
		now:    now,
		log:    logger.GetDefault(),
	}
}

func (s *service) ListMatches(ctx context.Context, query ListMatchesQuery) (*MatchListResponse, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = defaultPageSize
	}
	if query.Limit > maxPageSize {
		query.Limit = maxPageSize
	}

	filter := ListFilter{
		Category: strings.ToLower(strings.TrimSpace(query.Category)),
		Offset:   (query.Page - 1) * query.Limit,
		Limit:    query.Limit,
	}
	if query.Upcoming {
		now := s.now()
		filter.From = &now
	}

	matches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	result := &MatchListResponse{
		Matches:    make([]MatchResponse, 0, len(matches)),
		Page:       query.Page,
		Limit:      query.Limit,
		TotalCount: total,
		TotalPages: totalPages(total, query.Limit),
	}
	for i := range matches {
		result.Matches = append(result.Matches, matches[i].ToResponse())
	}
	return result, nil
}

func (s *service) GetMatch(ctx context.Context, matchID string) (*MatchDetailResponse, error) {
	id, err := uuid.Parse(matchID)
	if err != nil {
		return nil, ErrInvalidMatchID
	}

	match, err := s.repo.GetWithParticipants(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &MatchDetailResponse{
		MatchResponse: match.ToResponse(),
		Participants:  make([]ParticipantResponse, 0, len(match.Participants)),
	}
	for _, p := range match.Participants {
		detail.Participants = append(detail.Participants, ParticipantResponse{
			UserID:   p.UserID.String(),
			FullName: p.FullName,
			Phone:    p.Phone,
			JoinedAt: p.JoinedAt,
		})
	}
	return detail, nil
}

func (s *service) CreateMatch(ctx context.Context, creatorID uuid.UUID, req CreateMatchRequest) (*MatchResponse, error) {
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, venues.ErrInvalidVenueID
	}
	difficulty, ok := ParseDifficulty(req.Difficulty)
	if !ok {
		return nil, ErrInvalidDifficulty
	}
	if req.SlotTotal < 1 {
		return nil, ErrInvalidSlotTotal
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidSchedule
	}
	if req.StartTime.Before(s.now()) {
		return nil, ErrStartInPast
	}

	venue, err := s.venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}

	match := &Match{
		VenueID:    venue.ID,
		CreatorID:  creatorID,
		SlotTotal:  req.SlotTotal,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Difficulty: difficulty,
	}
	if err := s.repo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	match.Venue = venue

	s.log.InfoWithContext(ctx, "Match created", map[string]interface{}{
		"match_id":   match.ID.String(),
		"venue_id":   venue.ID.String(),
		"creator_id": creatorID.String(),
		"slot_total": match.SlotTotal,
	})

	resp := match.ToResponse()
	return &resp, nil
}

// JoinMatch seats the caller in a match. The match row stays locked for the
// whole transaction so concurrent joins are applied one at a time.
func (s *service) JoinMatch(ctx context.Context, userID uuid.UUID, matchID string, req JoinMatchRequest) (*MatchResponse, error) {
	id, err := uuid.Parse(matchID)
	if err != nil {
		return nil, ErrInvalidMatchID
	}

	now := s.now()
	var match *Match

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		match, err = s.repo.LockForJoin(ctx, tx, id)
		if err != nil {
			return err
		}
		if match.HasStarted(now) {
			return ErrMatchStarted
		}

		joined, err := s.repo.HasParticipant(ctx, tx, match.ID, userID)
		if err != nil {
			return fmt.Errorf("check participant: %w", err)
		}
		if joined {
			return ErrAlreadyJoined
		}
		if match.IsFull() {
			return ErrMatchFull
		}

		if err := s.repo.AddParticipant(ctx, tx, &Participant{
			MatchID:  match.ID,
			UserID:   userID,
			FullName: strings.TrimSpace(req.FullName),
			Phone:    strings.TrimSpace(req.Phone),
			JoinedAt: now.UTC(),
		}); err != nil {
			return err
		}
		match.SlotFilled++
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMatchNotFound),
			errors.Is(err, ErrMatchStarted),
			errors.Is(err, ErrAlreadyJoined),
			errors.Is(err, ErrMatchFull):
			return nil, err
		}
		s.log.ErrorWithContext(ctx, "Match join failed", err, map[string]interface{}{"match_id": id.String()})
		return nil, fmt.Errorf("failed to join match: %w", err)
	}

	metrics.IncMatchJoined()
	s.log.InfoWithContext(ctx, "Match joined", map[string]interface{}{
		"match_id":    match.ID.String(),
		"user_id":     userID.String(),
		"slot_filled": match.SlotFilled,
	})

	resp := match.ToResponse()
	return &resp, nil
}
