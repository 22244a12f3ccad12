package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/pagination"
	"marketplace-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CouponService interface {
	CreateCoupon(ctx context.Context, req *dto.CreateCouponRequest) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, couponID string, req *dto.UpdateCouponRequest) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, couponID string) error
	GetAllCoupons(ctx context.Context, opts pagination.Options) (*pagination.Result[*model.Coupon], error)
	GetCoupon(ctx context.Context, couponID string) (*model.Coupon, error)
	ApplyCoupon(ctx context.Context, principal model.Principal, code string) (*model.Coupon, error)
}

type couponServiceImpl struct {
	db             *gorm.DB
	customerRepo   repository.CustomerRepository
	couponRepo     repository.CouponRepository
	redemptionRepo repository.RedemptionRepository
	outboxRepo     repository.OutboxRepository
	now            func() time.Time
}

func NewCouponService(
	db *gorm.DB,
	customerRepo repository.CustomerRepository,
	couponRepo repository.CouponRepository,
	redemptionRepo repository.RedemptionRepository,
	outboxRepo repository.OutboxRepository,
) CouponService {
	return &couponServiceImpl{
		db:             db,
		customerRepo:   customerRepo,
		couponRepo:     couponRepo,
		redemptionRepo: redemptionRepo,
		outboxRepo:     outboxRepo,
		now:            time.Now,
	}
}

type couponRedeemedEvent struct {
	CouponID   string `json:"couponId"`
	Code       string `json:"code"`
	CustomerID string `json:"customerId"`
	UsedCount  int32  `json:"usedCount"`
}

// validateCouponWindow rejects a window that has already passed and one that does not
// start before it ends.
func validateCouponWindow(start, end, now time.Time) error {
	if start.Before(now) && !end.After(now) {
		return apperror.BadRequest("Start time and end time cannot both be in the past")
	}
	if !start.Before(end) {
		return apperror.BadRequest("Start time must be before end time")
	}
	return nil
}

func (s *couponServiceImpl) CreateCoupon(ctx context.Context, req *dto.CreateCouponRequest) (*model.Coupon, error) {
	code := strings.TrimSpace(req.Code)

	exists, err := s.couponRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("check coupon code: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("Coupon already exists")
	}

	if err := validateCouponWindow(req.StartTime, req.EndTime, s.now()); err != nil {
		return nil, err
	}

	coupon := &model.Coupon{
		ID:             uuid.NewString(),
		Code:           code,
		DiscountAmount: req.DiscountAmount,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		UsageLimit:     req.UsageLimit,
	}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("store coupon in db: %w", err)
	}

	return coupon, nil
}

// UpdateCoupon checks the window only when both times are supplied.
func (s *couponServiceImpl) UpdateCoupon(ctx context.Context, couponID string, req *dto.UpdateCouponRequest) (*model.Coupon, error) {
	current, err := s.findCoupon(ctx, couponID)
	if err != nil {
		return nil, err
	}

	// a single supplied time is checked against the stored other end
	if req.StartTime != nil || req.EndTime != nil {
		start, end := current.StartTime, current.EndTime
		if req.StartTime != nil {
			start = *req.StartTime
		}
		if req.EndTime != nil {
			end = *req.EndTime
		}
		if err := validateCouponWindow(start, end, s.now()); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code != current.Code {
			exists, err := s.couponRepo.ExistsByCode(ctx, code)
			if err != nil {
				return nil, fmt.Errorf("check coupon code: %w", err)
			}
			if exists {
				return nil, apperror.Conflict("Coupon already exists")
			}
		}
		fields["code"] = code
	}
	if req.DiscountAmount != nil {
		fields["discount_amount"] = *req.DiscountAmount
	}
	if req.StartTime != nil {
		fields["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		fields["end_time"] = *req.EndTime
	}
	if req.UsageLimit != nil {
		fields["usage_limit"] = *req.UsageLimit
	}

	coupon, err := s.couponRepo.Update(ctx, couponID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Coupon does not exist")
		}
		return nil, fmt.Errorf("update coupon: %w", err)
	}

	return coupon, nil
}

func (s *couponServiceImpl) DeleteCoupon(ctx context.Context, couponID string) error {
	if err := s.couponRepo.Delete(ctx, couponID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.BadRequest("Coupon does not exist")
		}
		return fmt.Errorf("delete coupon: %w", err)
	}

	return nil
}

func (s *couponServiceImpl) GetAllCoupons(ctx context.Context, opts pagination.Options) (*pagination.Result[*model.Coupon], error) {
	page := pagination.Calculate(opts, repository.CouponSortableFields...)

	coupons, total, err := s.couponRepo.FindMany(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("find coupons: %w", err)
	}

	return pagination.NewResult(page, total, coupons), nil
}

func (s *couponServiceImpl) GetCoupon(ctx context.Context, couponID string) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Coupon not found")
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}

	return coupon, nil
}

func (s *couponServiceImpl) ApplyCoupon(ctx context.Context, principal model.Principal, code string) (*model.Coupon, error) {
	customer, coupon, err := s.checkRedemption(ctx, principal.Email, code)
	if err != nil {
		return nil, err
	}

	return s.redeem(ctx, customer, coupon)
}

// checkRedemption runs outside any transaction, so two concurrent requests can both
// pass the usage limit check.
func (s *couponServiceImpl) checkRedemption(ctx context.Context, email, code string) (*model.Customer, *model.Coupon, error) {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, email)
	if err != nil {
		return nil, nil, err
	}

	coupon, err := s.couponRepo.FindValidByCode(ctx, strings.TrimSpace(code), s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.BadRequest("Invalid Coupon Code")
		}
		return nil, nil, fmt.Errorf("find coupon: %w", err)
	}

	used, err := s.redemptionRepo.Count(ctx, customer.ID, coupon.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("count coupon redemptions: %w", err)
	}
	if used >= int64(coupon.UsageLimit) {
		return nil, nil, apperror.BadRequest(fmt.Sprintf("You cannot use the coupon more than %d times", coupon.UsageLimit))
	}

	return customer, coupon, nil
}

func (s *couponServiceImpl) redeem(ctx context.Context, customer *model.Customer, coupon *model.Coupon) (*model.Coupon, error) {
	var updated *model.Coupon
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.redemptionRepo.Create(ctx, tx, &model.CustomerCoupon{
			ID:         uuid.NewString(),
			CustomerID: customer.ID,
			CouponID:   coupon.ID,
		})
		if err != nil {
			return fmt.Errorf("store coupon redemption: %w", err)
		}

		updated, err = s.couponRepo.IncrementUsedCount(ctx, tx, coupon.ID)
		if err != nil {
			return fmt.Errorf("increment coupon used count: %w", err)
		}

		err = s.outboxRepo.Create(ctx, tx, coupon.ID, model.EventCouponRedeemed, couponRedeemedEvent{
			CouponID:   coupon.ID,
			Code:       coupon.Code,
			CustomerID: customer.ID,
			UsedCount:  updated.UsedCount,
		})
		if err != nil {
			return fmt.Errorf("store coupon event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *couponServiceImpl) findCoupon(ctx context.Context, couponID string) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Coupon does not exist")
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}

	return coupon, nil
}
