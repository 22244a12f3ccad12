package repository

import (
	"context"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ProductSortableFields = []string{"created_at", "updated_at", "name", "price", "inventory"}

var productSearchableFields = []string{"name", "description"}

type ProductFilter struct {
	SearchTerm string
	Category   string // category name, exact match
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	FindActiveByID(ctx context.Context, productID string) (*model.Product, error)
	FindMany(ctx context.Context, filter ProductFilter, page pagination.Page) ([]*model.Product, int64, error)
	Update(ctx context.Context, productID string, fields map[string]interface{}) (*model.Product, error)
	SoftDelete(ctx context.Context, productID string) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID returns a non-deleted product regardless of its status.
func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", productID, false).
		First(&product).Error
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindActiveByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND is_deleted = ? AND status = ?", productID, false, model.ProductStatusActive).
		First(&product).Error
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, filter ProductFilter, page pagination.Page) ([]*model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_deleted = ? AND status = ?", false, model.ProductStatusActive).
		Scopes(pagination.Search(filter.SearchTerm, productSearchableFields...))

	if filter.Category != "" {
		query = query.Where("category_id IN (?)",
			r.db.Model(&model.Category{}).Select("id").Where("name = ?", filter.Category))
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*model.Product
	err := query.
		Preload("Category").
		Scopes(pagination.Paginate(page)).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepoImpl) Update(ctx context.Context, productID string, fields map[string]interface{}) (*model.Product, error) {
	fields["updated_at"] = time.Now()
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND is_deleted = ?", productID, false).
		Updates(fields).Error
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, productID)
}

func (r *productRepoImpl) SoftDelete(ctx context.Context, productID string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND is_deleted = ?", productID, false).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
