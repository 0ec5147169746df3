package promos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrPromoNotFound   = errors.New("promo code not found")
	ErrPromoInactive   = errors.New("promo code is not active")
	ErrPromoNotStarted = errors.New("promo code is not valid yet")
	ErrPromoExpired    = errors.New("promo code has expired")
	ErrPromoScope      = errors.New("promo code does not apply to this purchase")
	ErrPromoExhausted  = errors.New("promo code has no remaining uses")
)

var hundred = decimal.NewFromInt(100)

// Resolution is the priced outcome of applying an optional code to a base
// price. A code that cannot be used leaves Applied false and FinalPrice equal
// to BasePrice; Message says why.
type Resolution struct {
	Code            string
	Applied         bool
	Message         string
	Promo           *Promo
	DiscountPercent int
	BasePrice       decimal.Decimal
	DiscountAmount  decimal.Decimal
	FinalPrice      decimal.Decimal
}

func (r *Resolution) RemainingUses() int {
	if r.Promo == nil {
		return 0
	}
	return r.Promo.RemainingUses()
}

// ApplyDiscount returns the discount and the final price, both rounded to
// two decimal places
func ApplyDiscount(base decimal.Decimal, percent int) (discount, final decimal.Decimal) {
	discount = base.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(2)
	final = base.Sub(discount).Round(2)
	return discount, final
}

// Check reports why a promo cannot be used for scope at now, or nil
func Check(p *Promo, scope Scope, now time.Time) error {
	switch {
	case !p.IsActive:
		return ErrPromoInactive
	case now.Before(p.StartDate):
		return ErrPromoNotStarted
	case now.After(p.EndDate):
		return ErrPromoExpired
	case p.Scope != scope:
		return ErrPromoScope
	case p.RemainingUses() <= 0:
		return ErrPromoExhausted
	}
	return nil
}

type Resolver struct {
	repo Repository
	now  func() time.Time
}

func NewResolver(repo Repository, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{repo: repo, now: now}
}

func undiscounted(code string, base decimal.Decimal, reason error) *Resolution {
	res := &Resolution{
		Code:           code,
		BasePrice:      base,
		DiscountAmount: decimal.Zero,
		FinalPrice:     base,
	}
	if reason != nil {
		res.Message = reason.Error()
	}
	return res
}

// Resolve prices base with code inside tx. The promo row is locked and its
// usage counter claimed with a version check, so a returned Applied
// resolution already holds one use. Only unexpected database failures are
// returned as errors.
func (r *Resolver) Resolve(ctx context.Context, tx *gorm.DB, code string, scope Scope, base decimal.Decimal) (*Resolution, error) {
	code = NormalizeCode(code)
	base = base.Round(2)
	if code == "" {
		return undiscounted("", base, nil), nil
	}

	promo, err := r.repo.FindByCodeForUpdate(ctx, tx, code)
	if err != nil {
		if errors.Is(err, ErrPromoNotFound) {
			return undiscounted(code, base, err), nil
		}
		return nil, err
	}

	if err := Check(promo, scope, r.now().UTC()); err != nil {
		res := undiscounted(code, base, err)
		res.Promo = promo
		return res, nil
	}

	claimed, err := r.repo.Claim(ctx, tx, promo.ID, promo.Version)
	if err != nil {
		return nil, err
	}
	if !claimed {
		res := undiscounted(code, base, ErrPromoExhausted)
		res.Promo = promo
		return res, nil
	}
	promo.CurrentUses++
	promo.Version++

	discount, final := ApplyDiscount(base, promo.DiscountPercent)
	return &Resolution{
		Code:            promo.Code,
		Applied:         true,
		Message:         "promo applied",
		Promo:           promo,
		DiscountPercent: promo.DiscountPercent,
		BasePrice:       base,
		DiscountAmount:  discount,
		FinalPrice:      final,
	}, nil
}

// RecordUsage writes the usage row for an applied resolution inside tx.
// referenceID is the booking or purchase the discount went to.
func (r *Resolver) RecordUsage(ctx context.Context, tx *gorm.DB, res *Resolution, userID, referenceID uuid.UUID) error {
	if res == nil || !res.Applied {
		return nil
	}
	return r.repo.CreateUsage(ctx, tx, &PromoUsage{
		PromoID:        res.Promo.ID,
		UserID:         userID,
		Scope:          res.Promo.Scope,
		ReferenceID:    referenceID,
		DiscountAmount: res.DiscountAmount,
		UsedAt:         r.now().UTC(),
	})
}

// Preview runs the same rules as Resolve without locking or claiming a use
func (r *Resolver) Preview(ctx context.Context, code string, scope Scope, base decimal.Decimal) (*Resolution, error) {
	code = NormalizeCode(code)
	base = base.Round(2)

	promo, err := r.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrPromoNotFound) {
			return undiscounted(code, base, err), nil
		}
		return nil, err
	}

	if err := Check(promo, scope, r.now().UTC()); err != nil {
		res := undiscounted(code, base, err)
		res.Promo = promo
		return res, nil
	}

	discount, final := ApplyDiscount(base, promo.DiscountPercent)
	return &Resolution{
		Code:            promo.Code,
		Applied:         true,
		Message:         "promo is valid",
		Promo:           promo,
		DiscountPercent: promo.DiscountPercent,
		BasePrice:       base,
		DiscountAmount:  discount,
		FinalPrice:      final,
	}, nil
}
