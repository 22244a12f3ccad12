package repository

import (
	"context"

	"marketplace-backend/internal/model"

	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *model.Vendor) error
	FindByEmail(ctx context.Context, email string) (*model.Vendor, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type vendorRepoImpl struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepoImpl{
		db: db,
	}
}

func (r *vendorRepoImpl) Create(ctx context.Context, vendor *model.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *vendorRepoImpl) FindByEmail(ctx context.Context, email string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}

	return &vendor, nil
}

func (r *vendorRepoImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vendor{}).
		Where("email = ?", email).
		Count(&count).Error

	return count > 0, err
}
