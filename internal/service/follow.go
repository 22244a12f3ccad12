package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowService interface {
	FollowShop(ctx context.Context, principal model.Principal, shopID string) (*model.FollowedShop, error)
	UnfollowShop(ctx context.Context, principal model.Principal, shopID string) error
	GetFollowedShops(ctx context.Context, principal model.Principal) ([]*model.FollowedShop, error)
	GetFollowers(ctx context.Context, shopID string) ([]*model.FollowedShop, error)
}

type followServiceImpl struct {
	customerRepo repository.CustomerRepository
	shopRepo     repository.ShopRepository
	followRepo   repository.FollowRepository
}

func NewFollowService(
	customerRepo repository.CustomerRepository,
	shopRepo repository.ShopRepository,
	followRepo repository.FollowRepository,
) FollowService {
	return &followServiceImpl{
		customerRepo: customerRepo,
		shopRepo:     shopRepo,
		followRepo:   followRepo,
	}
}

func (s *followServiceImpl) FollowShop(ctx context.Context, principal model.Principal, shopID string) (*model.FollowedShop, error) {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, principal.Email)
	if err != nil {
		return nil, err
	}
	if err := s.ensureShop(ctx, shopID); err != nil {
		return nil, err
	}

	_, err = s.followRepo.Find(ctx, customer.ID, shopID)
	if err == nil {
		return nil, apperror.Conflict("You have already followed the shop")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find follow: %w", err)
	}

	follow := &model.FollowedShop{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		ShopID:     shopID,
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		// lost a race with a concurrent follow
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("You have already followed the shop")
		}
		return nil, fmt.Errorf("store follow in db: %w", err)
	}

	return follow, nil
}

func (s *followServiceImpl) UnfollowShop(ctx context.Context, principal model.Principal, shopID string) error {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, principal.Email)
	if err != nil {
		return err
	}
	if err := s.ensureShop(ctx, shopID); err != nil {
		return err
	}

	follow, err := s.followRepo.Find(ctx, customer.ID, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("You have already unfollowed the shop")
		}
		return fmt.Errorf("find follow: %w", err)
	}

	if err := s.followRepo.Delete(ctx, follow.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("You have already unfollowed the shop")
		}
		return fmt.Errorf("delete follow: %w", err)
	}

	return nil
}

func (s *followServiceImpl) GetFollowedShops(ctx context.Context, principal model.Principal) ([]*model.FollowedShop, error) {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, principal.Email)
	if err != nil {
		return nil, err
	}

	follows, err := s.followRepo.FindByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("find followed shops: %w", err)
	}
	if follows == nil {
		follows = []*model.FollowedShop{}
	}

	return follows, nil
}

func (s *followServiceImpl) GetFollowers(ctx context.Context, shopID string) ([]*model.FollowedShop, error) {
	if err := s.ensureShop(ctx, shopID); err != nil {
		return nil, err
	}

	follows, err := s.followRepo.FindFollowers(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("find followers: %w", err)
	}
	if follows == nil {
		follows = []*model.FollowedShop{}
	}

	return follows, nil
}

func (s *followServiceImpl) ensureShop(ctx context.Context, shopID string) error {
	if _, err := s.shopRepo.FindByID(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.BadRequest("Shop does not exist")
		}
		return fmt.Errorf("find shop: %w", err)
	}
	return nil
}
