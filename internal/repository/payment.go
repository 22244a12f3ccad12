package repository

import (
	"context"
	"time"

	"marketplace-backend/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, tx *gorm.DB, paymentID string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, paymentID string, status model.PaymentStatus) error
	Delete(ctx context.Context, paymentID string) error
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, paymentID string) (*model.Payment, error) {
	if tx == nil {
		tx = r.db
	}

	var payment model.Payment
	err := tx.WithContext(ctx).
		Where("id = ?", paymentID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// UpdateStatus returns gorm.ErrRecordNotFound when no payment has paymentID.
func (r *paymentRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, paymentID string, status model.PaymentStatus) error {
	if tx == nil {
		tx = r.db
	}

	if _, err := r.FindByID(ctx, tx, paymentID); err != nil {
		return err
	}

	return tx.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *paymentRepoImpl) Delete(ctx context.Context, paymentID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", paymentID).
		Delete(&model.Payment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
