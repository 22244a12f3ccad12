package repository

import (
	"context"
	"time"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/pagination"

	"gorm.io/gorm"
)

var OrderSortableFields = []string{"created_at", "updated_at", "total_amount", "status", "payment_status"}

// orderFilterableFields maps the public filter name to its column.
var orderFilterableFields = map[string]string{
	"status":        "status",
	"paymentType":   "payment_type",
	"paymentStatus": "payment_status",
}

var customerSearchableFields = []string{"name", "email", "phone_number"}

// OrderQuery narrows an order listing. Empty fields are ignored.
type OrderQuery struct {
	CustomerEmail string
	ShopID        string
	VendorEmail   string // orders of the shop owned by this vendor
	ShopName      string // substring, case-insensitive
	SearchTerm    string // over the customer's name, email and phone number
	Filters       map[string]string
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error)
	FindByIDWithItems(ctx context.Context, orderID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, tx *gorm.DB, orderID string, paymentStatus model.OrderPaymentStatus) (*model.Order, error)
	FindMany(ctx context.Context, q OrderQuery, page pagination.Page) ([]*model.Order, int64, error)
	FindPaidByCustomerAndProduct(ctx context.Context, customerID, productID string) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit("OrderItems", "Customer", "Shop").Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Omit("Product").Create(&items).Error
}

// FindByID reads through tx when one is given.
func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error) {
	if tx == nil {
		tx = r.db
	}

	var order model.Order
	err := tx.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIDWithItems(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems.Product").
		Preload("Customer").
		Preload("Shop").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", orderID).First(&order).Error; err != nil {
			return err
		}

		err := tx.Model(&order).Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
		if err != nil {
			return err
		}

		return tx.Where("id = ?", orderID).First(&order).Error
	})

	return &order, err
}

func (r *orderRepoImpl) UpdatePaymentStatus(ctx context.Context, tx *gorm.DB, orderID string, paymentStatus model.OrderPaymentStatus) (*model.Order, error) {
	if tx == nil {
		tx = r.db
	}

	var order model.Order
	if err := tx.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}

	err := tx.WithContext(ctx).Model(&order).Updates(map[string]interface{}{
		"payment_status": paymentStatus,
		"updated_at":     time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = paymentStatus
	return &order, nil
}

func (r *orderRepoImpl) FindMany(ctx context.Context, q OrderQuery, page pagination.Page) ([]*model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{}).
		Scopes(pagination.Equals(q.Filters, orderFilterableFields))

	if q.CustomerEmail != "" {
		query = query.Where("customer_id IN (?)",
			r.db.Model(&model.Customer{}).Select("id").Where("email = ?", q.CustomerEmail))
	}
	if q.ShopID != "" {
		query = query.Where("shop_id = ?", q.ShopID)
	}
	if q.VendorEmail != "" {
		vendorIDs := r.db.Model(&model.Vendor{}).Select("id").Where("email = ?", q.VendorEmail)
		query = query.Where("shop_id IN (?)",
			r.db.Model(&model.Shop{}).Select("id").Where("vendor_id IN (?)", vendorIDs))
	}
	if q.ShopName != "" {
		query = query.Where("shop_id IN (?)",
			pagination.Search(q.ShopName, "name")(r.db.Model(&model.Shop{}).Select("id")))
	}
	if q.SearchTerm != "" {
		query = query.Where("customer_id IN (?)",
			pagination.Search(q.SearchTerm, customerSearchableFields...)(r.db.Model(&model.Customer{}).Select("id")))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*model.Order
	err := query.
		Preload("OrderItems.Product").
		Preload("Customer").
		Scopes(pagination.Paginate(page)).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepoImpl) FindPaidByCustomerAndProduct(ctx context.Context, customerID, productID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems", "product_id = ?", productID).
		Preload("OrderItems.Product").
		Where("customer_id = ? AND payment_status = ?", customerID, model.OrderPaymentStatusPaid).
		Where("id IN (?)", r.db.Model(&model.OrderItem{}).Select("order_id").Where("product_id = ?", productID)).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}
