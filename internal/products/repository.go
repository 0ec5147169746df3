package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	Query      string
	Categories []Category
	Offset     int
	Limit      int
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Product, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, product *Product) error
	ListPurchases(ctx context.Context, userID uuid.UUID, offset, limit int) ([]Purchase, int64, error)

	LockForCheckout(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Product, error)
	TakeStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error
	CreatePurchase(ctx context.Context, tx *gorm.DB, purchase *Purchase) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Product, int64, error) {
	var (
		products []Product
		total    int64
	)

	query := r.db.WithContext(ctx).Model(&Product{})
	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(brand) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("title ASC").Offset(filter.Offset).Limit(filter.Limit).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) Create(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) ListPurchases(ctx context.Context, userID uuid.UUID, offset, limit int) ([]Purchase, int64, error) {
	var (
		purchases []Purchase
		total     int64
	)

	query := r.db.WithContext(ctx).Model(&Purchase{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Product").
		Order("purchased_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

func (r *repository) LockForCheckout(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Product, error) {
	product, err := findForUpdate(tx.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// TakeStock decrements stock only while enough is left
func (r *repository) TakeStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error {
	result := tx.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOutOfStock
	}
	return nil
}

func (r *repository) CreatePurchase(ctx context.Context, tx *gorm.DB, purchase *Purchase) error {
	return tx.WithContext(ctx).Omit("Product").Create(purchase).Error
}
