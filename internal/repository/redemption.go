package repository

import (
	"context"

	"marketplace-backend/internal/model"

	"gorm.io/gorm"
)

// RedemptionRepository stores CustomerCoupon rows, one per coupon use.
type RedemptionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, redemption *model.CustomerCoupon) error
	Count(ctx context.Context, customerID, couponID string) (int64, error)
}

type redemptionRepoImpl struct {
	db *gorm.DB
}

func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepoImpl{
		db: db,
	}
}

func (r *redemptionRepoImpl) Create(ctx context.Context, tx *gorm.DB, redemption *model.CustomerCoupon) error {
	return tx.WithContext(ctx).Create(redemption).Error
}

func (r *redemptionRepoImpl) Count(ctx context.Context, customerID, couponID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CustomerCoupon{}).
		Where("customer_id = ? AND coupon_id = ?", customerID, couponID).
		Count(&count).Error

	return count, err
}
