package promos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository interface for promo operations. Methods taking tx run inside
// the caller's transaction.
type Repository interface {
	Create(ctx context.Context, promo *Promo) error
	GetByID(ctx context.Context, id uuid.UUID) (*Promo, error)
	GetByCode(ctx context.Context, code string) (*Promo, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListActive(ctx context.Context, scope Scope, now time.Time, offset, limit int) ([]Promo, int64, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Update(ctx context.Context, id uuid.UUID, apply func(*Promo) error) (*Promo, error)

	FindByCodeForUpdate(ctx context.Context, tx *gorm.DB, code string) (*Promo, error)
	Claim(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int) (bool, error)
	CreateUsage(ctx context.Context, tx *gorm.DB, usage *PromoUsage) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, promo *Promo) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Promo, error) {
	var promo Promo
	if err := r.db.WithContext(ctx).First(&promo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	return &promo, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Promo, error) {
	var promo Promo
	err := r.db.WithContext(ctx).Where("UPPER(code) = ?", NormalizeCode(code)).First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	return &promo, nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Promo{}).Where("UPPER(code) = ?", NormalizeCode(code)).Count(&count).Error
	return count > 0, err
}

func (r *repository) ListActive(ctx context.Context, scope Scope, now time.Time, offset, limit int) ([]Promo, int64, error) {
	var promos []Promo
	var total int64

	query := r.db.WithContext(ctx).Model(&Promo{}).
		Where("is_active = ? AND end_date >= ?", true, now.UTC())
	if scope != "" {
		query = query.Where("scope = ?", scope)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("start_date DESC, code ASC").Offset(offset).Limit(limit).Find(&promos).Error
	if err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Promo{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPromoNotFound
	}
	return nil
}

// Update applies changes to the locked row and bumps its version, so a claim
// prepared against the old row fails its version check
func (r *repository) Update(ctx context.Context, id uuid.UUID, apply func(*Promo) error) (*Promo, error) {
	var promo Promo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&promo, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPromoNotFound
			}
			return err
		}
		if err := apply(&promo); err != nil {
			return err
		}
		promo.Version++
		return tx.Save(&promo).Error
	})
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *repository) FindByCodeForUpdate(ctx context.Context, tx *gorm.DB, code string) (*Promo, error) {
	var promo Promo
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("UPPER(code) = ?", NormalizeCode(code)).
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	return &promo, nil
}

// Claim takes one use if the row still carries version and has uses left
func (r *repository) Claim(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int) (bool, error) {
	result := tx.WithContext(ctx).Model(&Promo{}).
		Where("id = ? AND version = ? AND current_uses < max_uses", id, version).
		Updates(map[string]interface{}{
			"current_uses": gorm.Expr("current_uses + 1"),
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) CreateUsage(ctx context.Context, tx *gorm.DB, usage *PromoUsage) error {
	return tx.WithContext(ctx).Create(usage).Error
}
