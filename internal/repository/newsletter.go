package repository

import (
	"context"

	"marketplace-backend/internal/model"

	"gorm.io/gorm"
)

type NewsletterRepository interface {
	Create(ctx context.Context, subscriber *model.NewsletterSubscriber) error
	FindByEmail(ctx context.Context, email string) (*model.NewsletterSubscriber, error)
	FindAll(ctx context.Context) ([]*model.NewsletterSubscriber, error)
}

type newsletterRepoImpl struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepoImpl{
		db: db,
	}
}

func (r *newsletterRepoImpl) Create(ctx context.Context, subscriber *model.NewsletterSubscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

func (r *newsletterRepoImpl) FindByEmail(ctx context.Context, email string) (*model.NewsletterSubscriber, error) {
	var subscriber model.NewsletterSubscriber
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&subscriber).Error; err != nil {
		return nil, err
	}

	return &subscriber, nil
}

func (r *newsletterRepoImpl) FindAll(ctx context.Context) ([]*model.NewsletterSubscriber, error) {
	var subscribers []*model.NewsletterSubscriber
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subscribers).Error

	return subscribers, err
}
