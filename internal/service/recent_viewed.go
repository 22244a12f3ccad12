package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"

	"gorm.io/gorm"
)

// RecentViewedLimit caps the recently viewed list returned to a customer.
const RecentViewedLimit = 10

type RecentViewedService interface {
	AddRecentViewed(ctx context.Context, principal model.Principal, productID string) (*model.RecentViewedProduct, error)
	GetRecentViewed(ctx context.Context, principal model.Principal) ([]*model.RecentViewedProduct, error)
	RemoveRecentViewed(ctx context.Context, principal model.Principal, viewID string) error
}

type recentViewedServiceImpl struct {
	customerRepo     repository.CustomerRepository
	productRepo      repository.ProductRepository
	recentViewedRepo repository.RecentViewedRepository
	now              func() time.Time
}

func NewRecentViewedService(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	recentViewedRepo repository.RecentViewedRepository,
) RecentViewedService {
	return &recentViewedServiceImpl{
		customerRepo:     customerRepo,
		productRepo:      productRepo,
		recentViewedRepo: recentViewedRepo,
		now:              time.Now,
	}
}

// AddRecentViewed moves an already viewed product back to the top of the list.
func (s *recentViewedServiceImpl) AddRecentViewed(ctx context.Context, principal model.Principal, productID string) (*model.RecentViewedProduct, error) {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, principal.Email)
	if err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindActiveByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	view, err := s.recentViewedRepo.Touch(ctx, customer.ID, productID, s.now())
	if err != nil {
		return nil, fmt.Errorf("store recent view: %w", err)
	}

	return view, nil
}

func (s *recentViewedServiceImpl) GetRecentViewed(ctx context.Context, principal model.Principal) ([]*model.RecentViewedProduct, error) {
	customer, err := s.customerRepo.FindByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("You are not authorized")
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}

	views, err := s.recentViewedRepo.FindLatest(ctx, customer.ID, RecentViewedLimit)
	if err != nil {
		return nil, fmt.Errorf("find recent views: %w", err)
	}
	if views == nil {
		views = []*model.RecentViewedProduct{}
	}

	return views, nil
}

func (s *recentViewedServiceImpl) RemoveRecentViewed(ctx context.Context, principal model.Principal, viewID string) error {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, principal.Email)
	if err != nil {
		return err
	}

	if err := s.recentViewedRepo.Delete(ctx, customer.ID, viewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.BadRequest("Item not added")
		}
		return fmt.Errorf("delete recent view: %w", err)
	}

	return nil
}
