package repository

import (
	"context"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/pagination"

	"gorm.io/gorm"
)

var ShopSortableFields = []string{"created_at", "updated_at", "name"}

var shopSearchableFields = []string{"name", "description"}

type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	FindByID(ctx context.Context, shopID string) (*model.Shop, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByVendorID(ctx context.Context, vendorID string) (bool, error)
	FindByVendorEmail(ctx context.Context, email string) (*model.Shop, error)
	FindMany(ctx context.Context, searchTerm string, page pagination.Page) ([]*model.Shop, int64, error)
}

type shopRepoImpl struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepoImpl{
		db: db,
	}
}

func (r *shopRepoImpl) Create(ctx context.Context, shop *model.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *shopRepoImpl) FindByID(ctx context.Context, shopID string) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", shopID, false).
		First(&shop).Error
	if err != nil {
		return nil, err
	}

	return &shop, nil
}

func (r *shopRepoImpl) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Shop{}).
		Where("name = ?", name).
		Count(&count).Error

	return count > 0, err
}

func (r *shopRepoImpl) ExistsByVendorID(ctx context.Context, vendorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Shop{}).
		Where("vendor_id = ?", vendorID).
		Count(&count).Error

	return count > 0, err
}

func (r *shopRepoImpl) FindByVendorEmail(ctx context.Context, email string) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Where("vendor_id IN (?)", r.db.Model(&model.Vendor{}).Select("id").Where("email = ?", email)).
		First(&shop).Error
	if err != nil {
		return nil, err
	}

	return &shop, nil
}

func (r *shopRepoImpl) FindMany(ctx context.Context, searchTerm string, page pagination.Page) ([]*model.Shop, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Shop{}).
		Where("is_deleted = ?", false).
		Scopes(pagination.Search(searchTerm, shopSearchableFields...))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shops []*model.Shop
	if err := query.Scopes(pagination.Paginate(page)).Find(&shops).Error; err != nil {
		return nil, 0, err
	}

	return shops, total, nil
}
