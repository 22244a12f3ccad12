package repository

import (
	"context"

	"marketplace-backend/internal/model"

	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(ctx context.Context, follow *model.FollowedShop) error
	Find(ctx context.Context, customerID, shopID string) (*model.FollowedShop, error)
	Delete(ctx context.Context, followID string) error
	FindByCustomer(ctx context.Context, customerID string) ([]*model.FollowedShop, error)
	FindFollowers(ctx context.Context, shopID string) ([]*model.FollowedShop, error)
}

type followRepoImpl struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepoImpl{
		db: db,
	}
}

func (r *followRepoImpl) Create(ctx context.Context, follow *model.FollowedShop) error {
	return r.db.WithContext(ctx).Omit("Customer", "Shop").Create(follow).Error
}

func (r *followRepoImpl) Find(ctx context.Context, customerID, shopID string) (*model.FollowedShop, error) {
	var follow model.FollowedShop
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND shop_id = ?", customerID, shopID).
		First(&follow).Error
	if err != nil {
		return nil, err
	}

	return &follow, nil
}

func (r *followRepoImpl) Delete(ctx context.Context, followID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", followID).Delete(&model.FollowedShop{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *followRepoImpl) FindByCustomer(ctx context.Context, customerID string) ([]*model.FollowedShop, error) {
	var follows []*model.FollowedShop
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&follows).Error

	return follows, err
}

func (r *followRepoImpl) FindFollowers(ctx context.Context, shopID string) ([]*model.FollowedShop, error) {
	var follows []*model.FollowedShop
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Find(&follows).Error

	return follows, err
}
