package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/cache"
	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/pagination"
	"marketplace-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type CatalogService interface {
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*model.Category, error)
	GetCategories(ctx context.Context) ([]*model.Category, error)
	CreateShop(ctx context.Context, principal model.Principal, req *dto.CreateShopRequest) (*model.Shop, error)
	GetShops(ctx context.Context, searchTerm string, opts pagination.Options) (*pagination.Result[*model.Shop], error)
	CreateProduct(ctx context.Context, principal model.Principal, req *dto.CreateProductRequest) (*model.Product, error)
	GetProducts(ctx context.Context, query dto.ProductQuery, opts pagination.Options) (*pagination.Result[*model.Product], error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	UpdateProduct(ctx context.Context, principal model.Principal, productID string, req *dto.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, principal model.Principal, productID string) error
}

type catalogServiceImpl struct {
	categoryRepo repository.CategoryRepository
	vendorRepo   repository.VendorRepository
	shopRepo     repository.ShopRepository
	productRepo  repository.ProductRepository
	productCache cache.ProductCache // nil disables caching
	sf           singleflight.Group
	log          zerolog.Logger
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	vendorRepo repository.VendorRepository,
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	productCache cache.ProductCache,
	log zerolog.Logger,
) CatalogService {
	return &catalogServiceImpl{
		categoryRepo: categoryRepo,
		vendorRepo:   vendorRepo,
		shopRepo:     shopRepo,
		productRepo:  productRepo,
		productCache: productCache,
		log:          log,
	}
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*model.Category, error) {
	name := strings.TrimSpace(req.Name)

	exists, err := s.categoryRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("Category already exists")
	}

	category := &model.Category{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("store category in db: %w", err)
	}

	return category, nil
}

func (s *catalogServiceImpl) GetCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	if categories == nil {
		categories = []*model.Category{}
	}

	return categories, nil
}

func (s *catalogServiceImpl) CreateShop(ctx context.Context, principal model.Principal, req *dto.CreateShopRequest) (*model.Shop, error) {
	vendor, err := s.vendorRepo.FindByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Vendor not found")
		}
		return nil, fmt.Errorf("find vendor: %w", err)
	}

	owns, err := s.shopRepo.ExistsByVendorID(ctx, vendor.ID)
	if err != nil {
		return nil, fmt.Errorf("check vendor shop: %w", err)
	}
	if owns {
		return nil, apperror.Conflict("Vendor already owns a shop")
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.shopRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check shop name: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("Shop already exists")
	}

	shop := &model.Shop{
		ID:          uuid.NewString(),
		Name:        name,
		Description: req.Description,
		VendorID:    vendor.ID,
	}
	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("store shop in db: %w", err)
	}

	return shop, nil
}

func (s *catalogServiceImpl) GetShops(ctx context.Context, searchTerm string, opts pagination.Options) (*pagination.Result[*model.Shop], error) {
	page := pagination.Calculate(opts, repository.ShopSortableFields...)

	shops, total, err := s.shopRepo.FindMany(ctx, searchTerm, page)
	if err != nil {
		return nil, fmt.Errorf("find shops: %w", err)
	}

	return pagination.NewResult(page, total, shops), nil
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, principal model.Principal, req *dto.CreateProductRequest) (*model.Product, error) {
	shop, err := s.shopRepo.FindByVendorEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Shop not found")
		}
		return nil, fmt.Errorf("find vendor shop: %w", err)
	}

	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Category does not exist")
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Inventory:   req.Inventory,
		Discount:    req.Discount,
		CategoryID:  req.CategoryID,
		ShopID:      shop.ID,
		Status:      model.ProductStatusActive,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("store product in db: %w", err)
	}

	return product, nil
}

func (s *catalogServiceImpl) GetProducts(ctx context.Context, query dto.ProductQuery, opts pagination.Options) (*pagination.Result[*model.Product], error) {
	filter := repository.ProductFilter{
		SearchTerm: query.SearchTerm,
		Category:   query.Category,
	}

	if query.MinPrice != "" {
		minPrice, err := decimal.NewFromString(query.MinPrice)
		if err != nil {
			return nil, apperror.BadRequest("minPrice must be a number")
		}
		filter.MinPrice = &minPrice
	}
	if query.MaxPrice != "" {
		maxPrice, err := decimal.NewFromString(query.MaxPrice)
		if err != nil {
			return nil, apperror.BadRequest("maxPrice must be a number")
		}
		filter.MaxPrice = &maxPrice
	}

	page := pagination.Calculate(opts, repository.ProductSortableFields...)
	products, total, err := s.productRepo.FindMany(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	return pagination.NewResult(page, total, products), nil
}

// GetProduct reads through the product cache. Concurrent misses for the same id share
// one database read. Cache failures are logged and fall back to the database.
func (s *catalogServiceImpl) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	if s.productCache != nil {
		product, err := s.productCache.Get(ctx, productID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn().Err(err).Str("product_id", productID).Msg("product cache get")
		}
	}

	v, err, _ := s.sf.Do(productID, func() (interface{}, error) {
		product, err := s.productRepo.FindActiveByID(ctx, productID)
		if err != nil {
			return nil, err
		}

		if s.productCache != nil {
			if err := s.productCache.Set(ctx, product); err != nil {
				s.log.Warn().Err(err).Str("product_id", productID).Msg("product cache set")
			}
		}
		return product, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	return v.(*model.Product), nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, principal model.Principal, productID string, req *dto.UpdateProductRequest) (*model.Product, error) {
	if _, err := s.findOwnProduct(ctx, principal, productID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Inventory != nil {
		fields["inventory"] = *req.Inventory
	}
	if req.Discount != nil {
		fields["discount"] = *req.Discount
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.BadRequest("Category does not exist")
			}
			return nil, fmt.Errorf("find category: %w", err)
		}
		fields["category_id"] = *req.CategoryID
	}

	product, err := s.productRepo.Update(ctx, productID, fields)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.evictProduct(ctx, productID)

	return product, nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, principal model.Principal, productID string) error {
	if _, err := s.findOwnProduct(ctx, principal, productID); err != nil {
		return err
	}

	if err := s.productRepo.SoftDelete(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.BadRequest("Product does not exist")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.evictProduct(ctx, productID)

	return nil
}

// findOwnProduct loads a non-deleted product that belongs to the calling vendor's shop.
func (s *catalogServiceImpl) findOwnProduct(ctx context.Context, principal model.Principal, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Product does not exist")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	shop, err := s.shopRepo.FindByVendorEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Shop not found")
		}
		return nil, fmt.Errorf("find vendor shop: %w", err)
	}
	if product.ShopID != shop.ID {
		return nil, apperror.Forbidden("You can only change products of your own shop")
	}

	return product, nil
}

func (s *catalogServiceImpl) evictProduct(ctx context.Context, productID string) {
	if s.productCache == nil {
		return
	}
	if err := s.productCache.Delete(ctx, productID); err != nil {
		s.log.Warn().Err(err).Str("product_id", productID).Msg("product cache delete")
	}
}
