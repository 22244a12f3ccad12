package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (*model.NewsletterSubscriber, error)
	GetSubscribers(ctx context.Context) ([]*model.NewsletterSubscriber, error)
}

type newsletterServiceImpl struct {
	newsletterRepo repository.NewsletterRepository
}

func NewNewsletterService(newsletterRepo repository.NewsletterRepository) NewsletterService {
	return &newsletterServiceImpl{
		newsletterRepo: newsletterRepo,
	}
}

// Subscribe returns the existing subscription when the address is already on the list.
func (s *newsletterServiceImpl) Subscribe(ctx context.Context, email string) (*model.NewsletterSubscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.newsletterRepo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}

	subscriber := &model.NewsletterSubscriber{
		ID:    uuid.NewString(),
		Email: email,
	}
	if err := s.newsletterRepo.Create(ctx, subscriber); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.newsletterRepo.FindByEmail(ctx, email)
		}
		return nil, fmt.Errorf("store subscriber in db: %w", err)
	}

	return subscriber, nil
}

func (s *newsletterServiceImpl) GetSubscribers(ctx context.Context) ([]*model.NewsletterSubscriber, error) {
	subscribers, err := s.newsletterRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find subscribers: %w", err)
	}
	if subscribers == nil {
		subscribers = []*model.NewsletterSubscriber{}
	}

	return subscribers, nil
}
