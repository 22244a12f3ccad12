package repository

import (
	"context"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/pagination"

	"gorm.io/gorm"
)

var ReviewSortableFields = []string{"created_at", "updated_at", "rating"}

var reviewFilterableFields = map[string]string{
	"productId": "product_id",
	"rating":    "rating",
}

type ReviewQuery struct {
	SearchTerm string // product name or description, or shop name
	ShopID     string
	Filters    map[string]string
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, reviewID string) (*model.Review, error)
	Update(ctx context.Context, reviewID string, fields map[string]interface{}) (*model.Review, error)
	SoftDelete(ctx context.Context, reviewID string) error
	FindByProduct(ctx context.Context, productID string) ([]*model.Review, float64, error)
	FindByShop(ctx context.Context, shopID string) ([]*model.Review, float64, error)
	FindMany(ctx context.Context, q ReviewQuery, page pagination.Page) ([]*model.Review, int64, error)
}

type reviewRepoImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepoImpl{
		db: db,
	}
}

func (r *reviewRepoImpl) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Omit("Customer", "Product").Create(review).Error
}

func (r *reviewRepoImpl) FindByID(ctx context.Context, reviewID string) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", reviewID, false).
		First(&review).Error
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (r *reviewRepoImpl) Update(ctx context.Context, reviewID string, fields map[string]interface{}) (*model.Review, error) {
	fields["updated_at"] = time.Now()
	if err := r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", reviewID).Updates(fields).Error; err != nil {
		return nil, err
	}

	return r.FindByID(ctx, reviewID)
}

func (r *reviewRepoImpl) SoftDelete(ctx context.Context, reviewID string) error {
	res := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("id = ? AND is_deleted = ?", reviewID, false).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByProduct returns the product's live reviews, newest first, with their average rating.
func (r *reviewRepoImpl) FindByProduct(ctx context.Context, productID string) ([]*model.Review, float64, error) {
	return r.findWithAverage(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("product_id = ?", productID)
	}, "Customer")
}

func (r *reviewRepoImpl) FindByShop(ctx context.Context, shopID string) ([]*model.Review, float64, error) {
	return r.findWithAverage(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("product_id IN (?)", r.db.Model(&model.Product{}).Select("id").Where("shop_id = ?", shopID))
	}, "Product")
}

func (r *reviewRepoImpl) findWithAverage(ctx context.Context, scope func(*gorm.DB) *gorm.DB, preload string) ([]*model.Review, float64, error) {
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload(preload).
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	var avg float64
	err = r.db.WithContext(ctx).Model(&model.Review{}).
		Scopes(scope).
		Where("is_deleted = ?", false).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, avg, nil
}

func (r *reviewRepoImpl) FindMany(ctx context.Context, q ReviewQuery, page pagination.Page) ([]*model.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("is_deleted = ?", false).
		Scopes(pagination.Equals(q.Filters, reviewFilterableFields))

	if q.SearchTerm != "" {
		byProduct := pagination.Search(q.SearchTerm, productSearchableFields...)(r.db.Model(&model.Product{}).Select("id"))
		byShop := r.db.Model(&model.Product{}).Select("id").
			Where("shop_id IN (?)", pagination.Search(q.SearchTerm, "name")(r.db.Model(&model.Shop{}).Select("id")))
		query = query.Where(r.db.Where("product_id IN (?)", byProduct).Or("product_id IN (?)", byShop))
	}
	if q.ShopID != "" {
		query = query.Where("product_id IN (?)", r.db.Model(&model.Product{}).Select("id").Where("shop_id = ?", q.ShopID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*model.Review
	err := query.
		Preload("Product").
		Scopes(pagination.Paginate(page)).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}
