package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/pagination"
	"marketplace-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService interface {
	CreateReview(ctx context.Context, principal model.Principal, req *dto.CreateReviewRequest) (*model.Review, error)
	UpdateReview(ctx context.Context, principal model.Principal, reviewID string, req *dto.UpdateReviewRequest) (*model.Review, error)
	DeleteReview(ctx context.Context, principal model.Principal, reviewID string) error
	GetProductReviews(ctx context.Context, productID string) (*dto.ReviewSummary, error)
	GetShopReviews(ctx context.Context, shopID string) (*dto.ReviewSummary, error)
	GetAllReviews(ctx context.Context, filter dto.ReviewFilter, opts pagination.Options) (*pagination.Result[*model.Review], error)
}

type reviewServiceImpl struct {
	customerRepo repository.CustomerRepository
	shopRepo     repository.ShopRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	reviewRepo   repository.ReviewRepository
}

func NewReviewService(
	customerRepo repository.CustomerRepository,
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	reviewRepo repository.ReviewRepository,
) ReviewService {
	return &reviewServiceImpl{
		customerRepo: customerRepo,
		shopRepo:     shopRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		reviewRepo:   reviewRepo,
	}
}

// CreateReview accepts a review only from a customer holding a paid order for the product.
func (s *reviewServiceImpl) CreateReview(ctx context.Context, principal model.Principal, req *dto.CreateReviewRequest) (*model.Review, error) {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, principal.Email)
	if err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Product does not exist")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	orders, err := s.orderRepo.FindPaidByCustomerAndProduct(ctx, customer.ID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("find paid orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, apperror.Forbidden("You can only review products you have purchased")
	}

	review := &model.Review{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		ProductID:  req.ProductID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("store review in db: %w", err)
	}

	return review, nil
}

func (s *reviewServiceImpl) UpdateReview(ctx context.Context, principal model.Principal, reviewID string, req *dto.UpdateReviewRequest) (*model.Review, error) {
	if _, err := s.findOwnReview(ctx, principal, reviewID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Comment != nil {
		fields["comment"] = *req.Comment
	}

	review, err := s.reviewRepo.Update(ctx, reviewID, fields)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	return review, nil
}

func (s *reviewServiceImpl) DeleteReview(ctx context.Context, principal model.Principal, reviewID string) error {
	if _, err := s.findOwnReview(ctx, principal, reviewID); err != nil {
		return err
	}

	if err := s.reviewRepo.SoftDelete(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.BadRequest("Review does not exist")
		}
		return fmt.Errorf("delete review: %w", err)
	}

	return nil
}

func (s *reviewServiceImpl) GetProductReviews(ctx context.Context, productID string) (*dto.ReviewSummary, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	reviews, rating, err := s.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product reviews: %w", err)
	}

	return newReviewSummary(reviews, rating), nil
}

func (s *reviewServiceImpl) GetShopReviews(ctx context.Context, shopID string) (*dto.ReviewSummary, error) {
	if _, err := s.shopRepo.FindByID(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Shop not found")
		}
		return nil, fmt.Errorf("find shop: %w", err)
	}

	reviews, rating, err := s.reviewRepo.FindByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("find shop reviews: %w", err)
	}

	return newReviewSummary(reviews, rating), nil
}

func (s *reviewServiceImpl) GetAllReviews(ctx context.Context, filter dto.ReviewFilter, opts pagination.Options) (*pagination.Result[*model.Review], error) {
	page := pagination.Calculate(opts, repository.ReviewSortableFields...)

	reviews, total, err := s.reviewRepo.FindMany(ctx, repository.ReviewQuery{
		SearchTerm: filter.SearchTerm,
		ShopID:     filter.ShopID,
		Filters:    filter.Equality(),
	}, page)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}

	return pagination.NewResult(page, total, reviews), nil
}

func (s *reviewServiceImpl) findOwnReview(ctx context.Context, principal model.Principal, reviewID string) (*model.Review, error) {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, principal.Email)
	if err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Review does not exist")
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review.CustomerID != customer.ID {
		return nil, apperror.Forbidden("You can only change your own review")
	}

	return review, nil
}

func newReviewSummary(reviews []*model.Review, rating float64) *dto.ReviewSummary {
	if reviews == nil {
		reviews = []*model.Review{}
	}
	return &dto.ReviewSummary{Reviews: reviews, Rating: rating}
}
