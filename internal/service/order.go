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

type OrderService interface {
	CreateOrder(ctx context.Context, principal model.Principal, req *dto.CreateOrderRequest) (*model.Order, error)
	ChangeOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	ChangePaymentStatus(ctx context.Context, orderID string, paymentStatus model.OrderPaymentStatus) (*model.Order, error)
	GetMyOrders(ctx context.Context, principal model.Principal, opts pagination.Options) (*pagination.Result[*model.Order], error)
	GetShopOrders(ctx context.Context, principal model.Principal, filter dto.OrderFilter, opts pagination.Options) (*pagination.Result[*model.Order], error)
	GetAllOrders(ctx context.Context, filter dto.OrderFilter, opts pagination.Options) (*pagination.Result[*model.Order], error)
	GetSingleOrder(ctx context.Context, orderID string) (*model.Order, error)
	GetProductOrders(ctx context.Context, principal model.Principal, productID string) ([]*model.Order, error)
}

type orderServiceImpl struct {
	db           *gorm.DB
	customerRepo repository.CustomerRepository
	shopRepo     repository.ShopRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	outboxRepo   repository.OutboxRepository
}

func NewOrderService(
	db *gorm.DB,
	customerRepo repository.CustomerRepository,
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	outboxRepo repository.OutboxRepository,
) OrderService {
	return &orderServiceImpl{
		db:           db,
		customerRepo: customerRepo,
		shopRepo:     shopRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		outboxRepo:   outboxRepo,
	}
}

type orderCreatedEvent struct {
	OrderID     string `json:"orderId"`
	CustomerID  string `json:"customerId"`
	ShopID      string `json:"shopId"`
	TotalAmount string `json:"totalAmount"`
	PaymentType string `json:"paymentType"`
	ItemCount   int    `json:"itemCount"`
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, principal model.Principal, req *dto.CreateOrderRequest) (*model.Order, error) {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, principal.Email)
	if err != nil {
		return nil, err
	}

	if _, err := s.shopRepo.FindByID(ctx, req.ShopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Forbidden("Shop does not exist")
		}
		return nil, fmt.Errorf("find shop: %w", err)
	}

	for _, item := range req.OrderItems {
		if _, err := s.productRepo.FindByID(ctx, item.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.BadRequest("Product is not found")
			}
			return nil, fmt.Errorf("find product: %w", err)
		}
	}

	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = model.PaymentTypeCOD
	}

	order := &model.Order{
		ID:            uuid.NewString(),
		CustomerID:    customer.ID,
		ShopID:        req.ShopID,
		TotalAmount:   req.TotalAmount,
		PaymentType:   paymentType,
		Status:        model.OrderStatusProcessing,
		PaymentStatus: model.OrderPaymentStatusUnpaid,
	}

	items := make([]*model.OrderItem, len(req.OrderItems))
	for i, item := range req.OrderItems {
		items[i] = &model.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Discount:  item.Discount,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}

		err := s.outboxRepo.Create(ctx, tx, order.ID, model.EventOrderCreated, orderCreatedEvent{
			OrderID:     order.ID,
			CustomerID:  order.CustomerID,
			ShopID:      order.ShopID,
			TotalAmount: order.TotalAmount.StringFixed(2),
			PaymentType: string(order.PaymentType),
			ItemCount:   len(items),
		})
		if err != nil {
			return fmt.Errorf("store order event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.OrderItems = items
	return order, nil
}

func (s *orderServiceImpl) ChangeOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	order, err := s.orderRepo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Order does not exist")
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	return order, nil
}

func (s *orderServiceImpl) ChangePaymentStatus(ctx context.Context, orderID string, paymentStatus model.OrderPaymentStatus) (*model.Order, error) {
	order, err := s.orderRepo.UpdatePaymentStatus(ctx, nil, orderID, paymentStatus)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Order does not exist")
		}
		return nil, fmt.Errorf("update order payment status: %w", err)
	}

	return order, nil
}

func (s *orderServiceImpl) GetMyOrders(ctx context.Context, principal model.Principal, opts pagination.Options) (*pagination.Result[*model.Order], error) {
	return s.findOrders(ctx, repository.OrderQuery{CustomerEmail: principal.Email}, opts)
}

func (s *orderServiceImpl) GetShopOrders(ctx context.Context, principal model.Principal, filter dto.OrderFilter, opts pagination.Options) (*pagination.Result[*model.Order], error) {
	return s.findOrders(ctx, repository.OrderQuery{
		VendorEmail: principal.Email,
		SearchTerm:  filter.SearchTerm,
		Filters:     filter.Equality(),
	}, opts)
}

func (s *orderServiceImpl) GetAllOrders(ctx context.Context, filter dto.OrderFilter, opts pagination.Options) (*pagination.Result[*model.Order], error) {
	return s.findOrders(ctx, repository.OrderQuery{
		ShopName:   filter.Shop,
		SearchTerm: filter.SearchTerm,
		Filters:    filter.Equality(),
	}, opts)
}

func (s *orderServiceImpl) GetSingleOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Order not found")
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	return order, nil
}

func (s *orderServiceImpl) GetProductOrders(ctx context.Context, principal model.Principal, productID string) ([]*model.Order, error) {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, principal.Email)
	if err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindActiveByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Product does not exist")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	orders, err := s.orderRepo.FindPaidByCustomerAndProduct(ctx, customer.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("find product orders: %w", err)
	}

	return orders, nil
}

func (s *orderServiceImpl) findOrders(ctx context.Context, q repository.OrderQuery, opts pagination.Options) (*pagination.Result[*model.Order], error) {
	page := pagination.Calculate(opts, repository.OrderSortableFields...)

	orders, total, err := s.orderRepo.FindMany(ctx, q, page)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	return pagination.NewResult(page, total, orders), nil
}
