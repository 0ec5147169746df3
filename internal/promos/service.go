package promos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venyuk/internal/shared/constants"
	"venyuk/pkg/cache"
	"venyuk/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize    = 9
	maxPageSize        = 50
	maxCodeGenAttempts = 10
)

var (
	ErrInvalidScope   = errors.New("scope must be VENUE or SHOP")
	ErrInvalidCode    = errors.New("code may only contain letters, digits and dashes")
	ErrCodeTaken      = errors.New("promo code already exists")
	ErrInvalidAmount  = errors.New("amount must be a positive number")
	ErrInvalidPromoID = errors.New("invalid promo ID")
	ErrInvalidWindow  = errors.New("end date must be after start date")
	ErrMaxUsesTooLow  = errors.New("max uses cannot be lower than uses already taken")
)

type Service interface {
	ListActive(ctx context.Context, query ListPromosQuery) (*PromoListResponse, error)
	GetByCode(ctx context.Context, code string) (*PromoResponse, error)
	CheckCode(ctx context.Context, query CheckPromoQuery) (*CheckPromoResponse, error)
	Create(ctx context.Context, req CreatePromoRequest, createdBy uuid.UUID) (*PromoResponse, error)
	Update(ctx context.Context, id string, req UpdatePromoRequest) (*PromoResponse, error)
	Deactivate(ctx context.Context, id string) error

	// InvalidateListings drops cached active-promo pages
	InvalidateListings(ctx context.Context)
}

type service struct {
	repo     Repository
	resolver *Resolver
	cache    cache.Service
	now      func() time.Time
	log      *logger.Logger
}

func NewService(repo Repository, resolver *Resolver, cacheService cache.Service, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     repo,
		resolver: resolver,
		cache:    cacheService,
		now:      now,
		log:      logger.GetDefault(),
	}
}

func (s *service) ListActive(ctx context.Context, query ListPromosQuery) (*PromoListResponse, error) {
	var scope Scope
	if strings.TrimSpace(query.Scope) != "" {
		parsed, err := ParseScope(query.Scope)
		if err != nil {
			return nil, err
		}
		scope = parsed
	}

	page, limit := query.Page, query.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var result PromoListResponse
	key := constants.BuildActivePromosKey(string(scope), page, limit)
	err := s.cache.GetOrSet(ctx, key, constants.TTL_SEMI_STATIC_QUICK, func() (interface{}, error) {
		now := s.now().UTC()
		promos, total, err := s.repo.ListActive(ctx, scope, now, (page-1)*limit, limit)
		if err != nil {
			return nil, err
		}

		list := PromoListResponse{
			Results: make([]PromoResponse, 0, len(promos)),
			Page:    page,
			Total:   total,
		}
		list.NumPages = int((total + int64(limit) - 1) / int64(limit))
		if list.NumPages == 0 {
			list.NumPages = 1
		}
		for i := range promos {
			list.Results = append(list.Results, promos[i].ToResponse(now))
		}
		return list, nil
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list promos: %w", err)
	}

	return &result, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*PromoResponse, error) {
	promo, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := promo.ToResponse(s.now().UTC())
	return &resp, nil
}

func (s *service) CheckCode(ctx context.Context, query CheckPromoQuery) (*CheckPromoResponse, error) {
	scope, err := ParseScope(query.Scope)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(query.Amount))
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	res, err := s.resolver.Preview(ctx, query.Code, scope, amount)
	if err != nil {
		return nil, err
	}

	return &CheckPromoResponse{
		Code:            res.Code,
		Scope:           string(scope),
		Valid:           res.Applied,
		Message:         res.Message,
		DiscountPercent: res.DiscountPercent,
		BasePrice:       res.BasePrice,
		DiscountAmount:  res.DiscountAmount,
		FinalPrice:      res.FinalPrice,
		RemainingUses:   res.RemainingUses(),
	}, nil
}

func (s *service) Create(ctx context.Context, req CreatePromoRequest, createdBy uuid.UUID) (*PromoResponse, error) {
	scope, err := ParseScope(req.Scope)
	if err != nil {
		return nil, err
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidWindow
	}

	code := NormalizeCode(req.Code)
	if code != "" {
		if !validCode(code) {
			return nil, ErrInvalidCode
		}
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCodeTaken
		}
	} else {
		code, err = s.uniqueCode(ctx, scope, req.DiscountPercent, req.StartDate)
		if err != nil {
			return nil, err
		}
	}

	promo := &Promo{
		Title:           strings.TrimSpace(req.Title),
		Code:            code,
		Scope:           scope,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MaxUses:         req.MaxUses,
		IsActive:        true,
	}
	if createdBy != uuid.Nil {
		promo.CreatedBy = &createdBy
	}

	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, fmt.Errorf("failed to create promo: %w", err)
	}
	s.InvalidateListings(ctx)

	s.log.InfoWithContext(ctx, "Promo Created", map[string]interface{}{
		"code":     promo.Code,
		"scope":    string(promo.Scope),
		"discount": promo.DiscountPercent,
		"max_uses": promo.MaxUses,
	})

	resp := promo.ToResponse(s.now().UTC())
	return &resp, nil
}

func (s *service) uniqueCode(ctx context.Context, scope Scope, percent int, startDate time.Time) (string, error) {
	for i := 0; i < maxCodeGenAttempts; i++ {
		code := GenerateCode(scope, percent, startDate)
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique promo code after %d attempts", maxCodeGenAttempts)
}

func (s *service) Update(ctx context.Context, id string, req UpdatePromoRequest) (*PromoResponse, error) {
	promoID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidPromoID
	}

	promo, err := s.repo.Update(ctx, promoID, func(p *Promo) error {
		if req.Title != nil {
			p.Title = strings.TrimSpace(*req.Title)
		}
		if req.Scope != nil {
			scope, err := ParseScope(*req.Scope)
			if err != nil {
				return err
			}
			p.Scope = scope
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.DiscountPercent != nil {
			p.DiscountPercent = *req.DiscountPercent
		}
		if req.StartDate != nil {
			p.StartDate = req.StartDate.UTC()
		}
		if req.EndDate != nil {
			p.EndDate = req.EndDate.UTC()
		}
		if !p.EndDate.After(p.StartDate) {
			return ErrInvalidWindow
		}
		if req.MaxUses != nil {
			if *req.MaxUses < p.CurrentUses {
				return ErrMaxUsesTooLow
			}
			p.MaxUses = *req.MaxUses
		}
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.InvalidateListings(ctx)

	s.log.InfoWithContext(ctx, "Promo Updated", map[string]interface{}{
		"code":      promo.Code,
		"scope":     string(promo.Scope),
		"discount":  promo.DiscountPercent,
		"max_uses":  promo.MaxUses,
		"is_active": promo.IsActive,
	})

	resp := promo.ToResponse(s.now().UTC())
	return &resp, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	promoID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidPromoID
	}
	if err := s.repo.Deactivate(ctx, promoID); err != nil {
		return err
	}
	s.InvalidateListings(ctx)
	return nil
}

func (s *service) InvalidateListings(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.CACHE_KEY_PROMOS_ALL); err != nil {
		s.log.Warn("Failed to invalidate promo cache", "error", err)
	}
}
