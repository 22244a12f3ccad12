package repository

import (
	"context"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/pagination"

	"gorm.io/gorm"
)

var CouponSortableFields = []string{"created_at", "updated_at", "code", "start_time", "end_time", "discount_amount"}

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	FindByID(ctx context.Context, couponID string) (*model.Coupon, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindValidByCode(ctx context.Context, code string, now time.Time) (*model.Coupon, error)
	Update(ctx context.Context, couponID string, fields map[string]interface{}) (*model.Coupon, error)
	Delete(ctx context.Context, couponID string) error
	FindMany(ctx context.Context, page pagination.Page) ([]*model.Coupon, int64, error)
	IncrementUsedCount(ctx context.Context, tx *gorm.DB, couponID string) (*model.Coupon, error)
}

type couponRepoImpl struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepoImpl{
		db: db,
	}
}

func (r *couponRepoImpl) Create(ctx context.Context, coupon *model.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepoImpl) FindByID(ctx context.Context, couponID string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Where("id = ?", couponID).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *couponRepoImpl) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("code = ?", code).
		Count(&count).Error

	return count > 0, err
}

// FindValidByCode only checks that the coupon has not ended; the start time is not
// enforced.
func (r *couponRepoImpl) FindValidByCode(ctx context.Context, code string, now time.Time) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ? AND end_time >= ?", code, now).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *couponRepoImpl) Update(ctx context.Context, couponID string, fields map[string]interface{}) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", couponID).First(&coupon).Error; err != nil {
			return err
		}

		if len(fields) > 0 {
			fields["updated_at"] = time.Now()
			if err := tx.Model(&coupon).Updates(fields).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", couponID).First(&coupon).Error
	})

	return &coupon, err
}

func (r *couponRepoImpl) Delete(ctx context.Context, couponID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", couponID).
		Delete(&model.Coupon{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *couponRepoImpl) FindMany(ctx context.Context, page pagination.Page) ([]*model.Coupon, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Coupon{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var coupons []*model.Coupon
	if err := query.Scopes(pagination.Paginate(page)).Find(&coupons).Error; err != nil {
		return nil, 0, err
	}

	return coupons, total, nil
}

// IncrementUsedCount reads usedCount and writes it back plus one. It is not an atomic
// SQL increment: two concurrent transactions can read the same value.
func (r *couponRepoImpl) IncrementUsedCount(ctx context.Context, tx *gorm.DB, couponID string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := tx.WithContext(ctx).Where("id = ?", couponID).First(&coupon).Error; err != nil {
		return nil, err
	}

	coupon.UsedCount++
	err := tx.WithContext(ctx).Model(&coupon).Updates(map[string]interface{}{
		"used_count": coupon.UsedCount,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}
