package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"venyuk/internal/bookings"
	"venyuk/internal/promos"
	"venyuk/internal/shared/metrics"
	"venyuk/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProductID = errors.New("invalid product ID")
	ErrInvalidCategory  = errors.New("invalid product category")
	ErrInvalidPrice     = errors.New("price must be greater than zero")
	ErrOutOfStock       = errors.New("not enough stock left for this product")
	ErrCheckoutFailed   = errors.New("failed to complete purchase, please try again")
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// PromoListingInvalidator drops cached promo listings after a redemption
type PromoListingInvalidator interface {
	InvalidateListings(ctx context.Context)
}

type Service interface {
	ListProducts(ctx context.Context, query ListProductsQuery) (*ProductListResponse, error)
	GetProduct(ctx context.Context, productID string) (*ProductResponse, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error)

	Checkout(ctx context.Context, userID uuid.UUID, productID string, req CheckoutRequest) (*CheckoutResponse, error)
	ListPurchases(ctx context.Context, userID uuid.UUID, query ListPurchasesQuery) (*PurchaseListResponse, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	resolver   *promos.Resolver
	promoCache PromoListingInvalidator
	now        func() time.Time
	log        *logger.Logger
}

func NewService(db *gorm.DB, repo Repository, resolver *promos.Resolver, promoCache PromoListingInvalidator, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		db:         db,
		repo:       repo,
		resolver:   resolver,
		promoCache: promoCache,
		now:        now,
		log:        logger.GetDefault(),
	}
}

func (s *service) ListProducts(ctx context.Context, query ListProductsQuery) (*ProductListResponse, error) {
	page, _ := strconv.Atoi(strings.TrimSpace(query.Page))
	limit, _ := strconv.Atoi(strings.TrimSpace(query.Limit))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := ListFilter{
		Query:  strings.TrimSpace(query.Q),
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
	// unknown categories are dropped rather than rejected
	for _, raw := range query.Category {
		if c := parseCategory(raw); c.IsValid() {
			filter.Categories = append(filter.Categories, c)
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result := &ProductListResponse{
		Results:  make([]ProductResponse, 0, len(items)),
		Page:     page,
		NumPages: bookings.CalculateTotalPages(total, limit),
		Total:    total,
	}
	for i := range items {
		result.Results = append(result.Results, items[i].ToResponse())
	}
	return result, nil
}

func (s *service) GetProduct(ctx context.Context, productID string) (*ProductResponse, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrInvalidProductID
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := product.ToResponse()
	return &resp, nil
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	category := parseCategory(req.Category)
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if !req.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	product := &Product{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Category:  category,
		Thumbnail: req.Thumbnail,
		Brand:     req.Brand,
		Price:     req.Price.Round(2),
		Stock:     req.Stock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.log.InfoWithContext(ctx, "Product Created", map[string]interface{}{
		"product_id": product.ID.String(),
		"category":   string(product.Category),
		"stock":      product.Stock,
	})

	resp := product.ToResponse()
	return &resp, nil
}

// Checkout buys quantity units of a product in one transaction: lock the
// product, price it with the optional SHOP promo, take the stock, record the
// purchase. A promo that cannot be used leaves the full price.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, productID string, req CheckoutRequest) (*CheckoutResponse, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrInvalidProductID
	}
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	var (
		product    *Product
		purchase   *Purchase
		resolution *promos.Resolution
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err = s.repo.LockForCheckout(ctx, tx, id)
		if err != nil {
			return err
		}
		if product.Stock < quantity {
			return ErrOutOfStock
		}

		base := product.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
		resolution, err = s.resolver.Resolve(ctx, tx, req.PromoCode, promos.ScopeShop, base)
		if err != nil {
			return fmt.Errorf("resolve promo: %w", err)
		}

		if err := s.repo.TakeStock(ctx, tx, product.ID, quantity); err != nil {
			return err
		}
		product.Stock -= quantity

		purchase = &Purchase{
			UserID:          userID,
			ProductID:       product.ID,
			Quantity:        quantity,
			UnitPrice:       product.Price,
			BasePrice:       resolution.BasePrice,
			DiscountPercent: resolution.DiscountPercent,
			DiscountAmount:  resolution.DiscountAmount,
			TotalPrice:      resolution.FinalPrice,
			PurchasedAt:     s.now(),
		}
		if resolution.Applied {
			purchase.PromoID = &resolution.Promo.ID
			purchase.PromoCode = resolution.Promo.Code
		}

		if err := s.repo.CreatePurchase(ctx, tx, purchase); err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}

		if err := s.resolver.RecordUsage(ctx, tx, resolution, userID, purchase.ID); err != nil {
			return fmt.Errorf("record promo usage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.rejectCheckout(ctx, err, id)
	}

	s.afterCheckout(ctx, purchase, resolution)

	return &CheckoutResponse{
		Success:         true,
		Message:         "Purchase completed successfully",
		PurchaseID:      purchase.ID.String(),
		ProductID:       purchase.ProductID.String(),
		Quantity:        purchase.Quantity,
		UnitPrice:       purchase.UnitPrice,
		BasePrice:       purchase.BasePrice,
		DiscountPercent: purchase.DiscountPercent,
		DiscountAmount:  purchase.DiscountAmount,
		TotalPrice:      purchase.TotalPrice,
		PromoApplied:    resolution.Applied,
		PromoMessage:    resolution.Message,
		RemainingStock:  product.Stock,
	}, nil
}

func (s *service) rejectCheckout(ctx context.Context, err error, productID uuid.UUID) error {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return err
	case errors.Is(err, ErrOutOfStock):
		metrics.IncProductPurchaseRejected("out_of_stock")
		return err
	}

	metrics.IncProductPurchaseRejected("error")
	s.log.ErrorWithContext(ctx, "Checkout transaction failed", err, map[string]interface{}{
		"product_id": productID.String(),
	})
	return ErrCheckoutFailed
}

func (s *service) afterCheckout(ctx context.Context, purchase *Purchase, resolution *promos.Resolution) {
	if resolution.Applied {
		s.promoCache.InvalidateListings(ctx)
		metrics.IncPromoRedeemed(string(promos.ScopeShop))
		s.log.LogPromoApplied(ctx, resolution.Promo.Code, purchase.UserID.String(), resolution.RemainingUses())
	} else if resolution.Code != "" {
		s.log.LogPromoRejected(ctx, resolution.Code, resolution.Message)
	}

	metrics.IncProductPurchased(resolution.Applied)
	s.log.InfoWithContext(ctx, "Product Purchased", map[string]interface{}{
		"purchase_id": purchase.ID.String(),
		"product_id":  purchase.ProductID.String(),
		"user_id":     purchase.UserID.String(),
		"quantity":    purchase.Quantity,
		"total_price": purchase.TotalPrice.String(),
	})
}

func (s *service) ListPurchases(ctx context.Context, userID uuid.UUID, query ListPurchasesQuery) (*PurchaseListResponse, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = defaultPageSize
	}
	if query.Limit > maxPageSize {
		query.Limit = maxPageSize
	}

	purchases, total, err := s.repo.ListPurchases(ctx, userID, (query.Page-1)*query.Limit, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	result := &PurchaseListResponse{
		Purchases:  make([]PurchaseResponse, 0, len(purchases)),
		Page:       query.Page,
		TotalPages: bookings.CalculateTotalPages(total, query.Limit),
		Total:      total,
	}
	for i := range purchases {
		result.Purchases = append(result.Purchases, purchases[i].ToResponse())
	}
	return result, nil
}
