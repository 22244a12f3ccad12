package repository

import (
	"context"
	"errors"
	"time"

	"marketplace-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecentViewedRepository interface {
	// Touch records that the customer viewed the product now, creating the row on first view.
	Touch(ctx context.Context, customerID, productID string, viewedAt time.Time) (*model.RecentViewedProduct, error)
	FindLatest(ctx context.Context, customerID string, limit int) ([]*model.RecentViewedProduct, error)
	Delete(ctx context.Context, customerID, viewID string) error
}

type recentViewedRepoImpl struct {
	db *gorm.DB
}

func NewRecentViewedRepository(db *gorm.DB) RecentViewedRepository {
	return &recentViewedRepoImpl{
		db: db,
	}
}

func (r *recentViewedRepoImpl) Touch(ctx context.Context, customerID, productID string, viewedAt time.Time) (*model.RecentViewedProduct, error) {
	var view model.RecentViewedProduct
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("customer_id = ? AND product_id = ?", customerID, productID).First(&view).Error
		if err == nil {
			view.ViewedAt = viewedAt
			return tx.Model(&view).Update("viewed_at", viewedAt).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		view = model.RecentViewedProduct{
			ID:         uuid.NewString(),
			CustomerID: customerID,
			ProductID:  productID,
			ViewedAt:   viewedAt,
		}
		return tx.Omit("Product").Create(&view).Error
	})
	if err != nil {
		return nil, err
	}

	return &view, nil
}

func (r *recentViewedRepoImpl) FindLatest(ctx context.Context, customerID string, limit int) ([]*model.RecentViewedProduct, error) {
	var views []*model.RecentViewedProduct
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("viewed_at DESC").
		Limit(limit).
		Find(&views).Error

	return views, err
}

func (r *recentViewedRepoImpl) Delete(ctx context.Context, customerID, viewID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", viewID, customerID).
		Delete(&model.RecentViewedProduct{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
