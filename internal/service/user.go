package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService creates customer and vendor profiles. Credentials are issued elsewhere;
// a profile is matched to a caller by the email in the bearer token.
type UserService interface {
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*model.Customer, error)
	CreateVendor(ctx context.Context, req *dto.CreateVendorRequest) (*model.Vendor, error)
}

type userServiceImpl struct {
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
}

func NewUserService(
	customerRepo repository.CustomerRepository,
	vendorRepo repository.VendorRepository,
) UserService {
	return &userServiceImpl{
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
	}
}

func (s *userServiceImpl) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*model.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.customerRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check customer email: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("Customer already exists")
	}

	customer := &model.Customer{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("store customer in db: %w", err)
	}

	return customer, nil
}

func (s *userServiceImpl) CreateVendor(ctx context.Context, req *dto.CreateVendorRequest) (*model.Vendor, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.vendorRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check vendor email: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("Vendor already exists")
	}

	vendor := &model.Vendor{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		PhoneNumber: req.PhoneNumber,
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("store vendor in db: %w", err)
	}

	return vendor, nil
}

func findCustomerByEmail(ctx context.Context, repo repository.CustomerRepository, email string) (*model.Customer, error) {
	customer, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Customer not found")
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}

	return customer, nil
}
