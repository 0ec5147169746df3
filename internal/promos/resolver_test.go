package promos

import (
	"context"
	"testing"
	"time"

	"venyuk/internal/shared/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, time.October, 10, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newPromoDB(t *testing.T) (*gorm.DB, Repository) {
	t.Helper()
	db := testutil.NewDB(t, &Promo{}, &PromoUsage{})
	return db, NewRepository(db)
}

func seedPromo(t *testing.T, repo Repository, code string, percent, maxUses, used int, mutate func(*Promo)) *Promo {
	t.Helper()
	p := &Promo{
		Title:           "Promo " + code,
		Code:            code,
		Scope:           ScopeVenue,
		DiscountPercent: percent,
		StartDate:       fixedNow.AddDate(0, 0, -5),
		EndDate:         fixedNow.AddDate(0, 0, 20),
		MaxUses:         maxUses,
		CurrentUses:     used,
		IsActive:        true,
	}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func resolveInTx(t *testing.T, db *gorm.DB, r *Resolver, code string, scope Scope, base decimal.Decimal) *Resolution {
	t.Helper()
	var res *Resolution
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = r.Resolve(context.Background(), tx, code, scope, base)
		if err != nil {
			return err
		}
		return r.RecordUsage(context.Background(), tx, res, uuid.New(), uuid.New())
	})
	require.NoError(t, err)
	return res
}

func TestResolve_AppliesDiscountAndConsumesOneUse(t *testing.T) {
	db, repo := newPromoDB(t)
	r := NewResolver(repo, clock)
	seeded := seedPromo(t, repo, "VENUE20-OCT25-AB12", 20, 10, 5, nil)

	res := resolveInTx(t, db, r, "venue20-oct25-ab12", ScopeVenue, decimal.NewFromInt(100000))

	require.True(t, res.Applied)
	assert.True(t, res.FinalPrice.Equal(decimal.NewFromInt(80000)), res.FinalPrice.String())
	assert.True(t, res.DiscountAmount.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, 20, res.DiscountPercent)
	assert.Equal(t, 4, res.RemainingUses())

	stored, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.RemainingUses())
	assert.Equal(t, 1, stored.Version)

	var usages int64
	require.NoError(t, db.Model(&PromoUsage{}).Where("promo_id = ?", seeded.ID).Count(&usages).Error)
	assert.EqualValues(t, 1, usages)
}

func TestResolve_UnusableCodesKeepPriceAndUses(t *testing.T) {
	db, repo := newPromoDB(t)
	r := NewResolver(repo, clock)

	seedPromo(t, repo, "EXPIRED10", 10, 10, 0, func(p *Promo) {
		p.StartDate = fixedNow.AddDate(0, -2, 0)
		p.EndDate = fixedNow.AddDate(0, 0, -1)
	})
	seedPromo(t, repo, "FUTURE10", 10, 10, 0, func(p *Promo) {
		p.StartDate = fixedNow.AddDate(0, 0, 1)
	})
	seedPromo(t, repo, "SHOP15", 15, 10, 0, func(p *Promo) { p.Scope = ScopeShop })
	seedPromo(t, repo, "USEDUP50", 50, 3, 3, nil)
	off := seedPromo(t, repo, "OFF25", 25, 10, 0, nil)
	require.NoError(t, repo.Deactivate(context.Background(), off.ID))

	base := decimal.NewFromInt(100000)
	cases := []struct {
		code string
		want error
	}{
		{"EXPIRED10", ErrPromoExpired},
		{"FUTURE10", ErrPromoNotStarted},
		{"SHOP15", ErrPromoScope},
		{"USEDUP50", ErrPromoExhausted},
		{"OFF25", ErrPromoInactive},
		{"NOPE-0000", ErrPromoNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			res := resolveInTx(t, db, r, tc.code, ScopeVenue, base)
			assert.False(t, res.Applied)
			assert.True(t, res.FinalPrice.Equal(base))
			assert.True(t, res.DiscountAmount.IsZero())
			assert.Equal(t, tc.want.Error(), res.Message)

			if p, err := repo.GetByCode(context.Background(), tc.code); err == nil {
				assert.Equal(t, 0, p.Version)
			}
		})
	}

	var usages int64
	require.NoError(t, db.Model(&PromoUsage{}).Count(&usages).Error)
	assert.EqualValues(t, 0, usages)
}

func TestResolve_EmptyCode(t *testing.T) {
	db, repo := newPromoDB(t)
	r := NewResolver(repo, clock)

	res := resolveInTx(t, db, r, "  ", ScopeVenue, decimal.NewFromInt(50000))
	assert.False(t, res.Applied)
	assert.Empty(t, res.Message)
	assert.True(t, res.FinalPrice.Equal(decimal.NewFromInt(50000)))
}

func TestResolve_LastUseOnlyOnce(t *testing.T) {
	db, repo := newPromoDB(t)
	r := NewResolver(repo, clock)
	seedPromo(t, repo, "LAST1", 30, 1, 0, nil)

	first := resolveInTx(t, db, r, "LAST1", ScopeVenue, decimal.NewFromInt(10000))
	second := resolveInTx(t, db, r, "LAST1", ScopeVenue, decimal.NewFromInt(10000))

	assert.True(t, first.Applied)
	assert.False(t, second.Applied)
	assert.Equal(t, ErrPromoExhausted.Error(), second.Message)
}

func TestClaim_StaleVersionIsRejected(t *testing.T) {
	db, repo := newPromoDB(t)
	p := seedPromo(t, repo, "RACE10", 10, 10, 0, nil)
	ctx := context.Background()

	ok, err := repo.Claim(ctx, db, p.ID, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Claim(ctx, db, p.ID, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentUses)
}

func TestPreview_DoesNotConsume(t *testing.T) {
	_, repo := newPromoDB(t)
	r := NewResolver(repo, clock)
	p := seedPromo(t, repo, "PEEK20", 20, 5, 0, nil)

	res, err := r.Preview(context.Background(), "peek20", ScopeVenue, decimal.NewFromInt(75000))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.True(t, res.FinalPrice.Equal(decimal.NewFromInt(60000)))

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentUses)
}

func TestApplyDiscount_Rounding(t *testing.T) {
	discount, final := ApplyDiscount(decimal.RequireFromString("33333.33"), 15)
	assert.Equal(t, "5000", discount.String())
	assert.Equal(t, "28333.33", final.String())

	discount, final = ApplyDiscount(decimal.NewFromInt(90000), 100)
	assert.True(t, discount.Equal(decimal.NewFromInt(90000)))
	assert.True(t, final.IsZero())
}

func TestStatusAt(t *testing.T) {
	p := &Promo{IsActive: true, StartDate: fixedNow.Add(-time.Hour), EndDate: fixedNow.Add(time.Hour), MaxUses: 2}
	assert.Equal(t, StatusActive, p.StatusAt(fixedNow))
	assert.Equal(t, StatusNotStarted, p.StatusAt(fixedNow.Add(-2*time.Hour)))
	assert.Equal(t, StatusExpired, p.StatusAt(fixedNow.Add(2*time.Hour)))

	p.CurrentUses = 2
	assert.Equal(t, StatusExhausted, p.StatusAt(fixedNow))

	p.IsActive = false
	assert.Equal(t, StatusInactive, p.StatusAt(fixedNow))
}
