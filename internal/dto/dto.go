package dto

import (
	"net/mail"
	"strings"
	"time"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/model"

	"github.com/shopspring/decimal"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Meta    interface{} `json:"meta,omitempty"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message"`
	ErrorDetails interface{} `json:"errorDetails"`
}

// -------- users --------

type CreateCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" {
		return apperror.BadRequest("name and email are required")
	}
	return nil
}

type CreateVendorRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func (r *CreateVendorRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" {
		return apperror.BadRequest("name and email are required")
	}
	return nil
}

// -------- catalog --------

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

func (r *CreateCategoryRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperror.BadRequest("name is required")
	}
	return nil
}

type CreateShopRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *CreateShopRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperror.BadRequest("name is required")
	}
	return nil
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int32           `json:"inventory"`
	Discount    decimal.Decimal `json:"discount"`
	CategoryID  string          `json:"categoryId"`
}

func (r *CreateProductRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || r.CategoryID == "" {
		return apperror.BadRequest("name and categoryId are required")
	}
	if !r.Price.IsPositive() {
		return apperror.BadRequest("price must be positive")
	}
	if r.Inventory < 0 || r.Discount.IsNegative() {
		return apperror.BadRequest("inventory and discount cannot be negative")
	}
	return nil
}

type ProductQuery struct {
	SearchTerm string `query:"searchTerm"`
	Category   string `query:"category"`
	MinPrice   string `query:"minPrice"`
	MaxPrice   string `query:"maxPrice"`
}

type UpdateProductRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Price       *decimal.Decimal     `json:"price"`
	Inventory   *int32               `json:"inventory"`
	Discount    *decimal.Decimal     `json:"discount"`
	CategoryID  *string              `json:"categoryId"`
	Status      *model.ProductStatus `json:"status"`
}

func (r *UpdateProductRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return apperror.BadRequest("name cannot be empty")
	}
	if r.Price != nil && !r.Price.IsPositive() {
		return apperror.BadRequest("price must be positive")
	}
	if (r.Inventory != nil && *r.Inventory < 0) || (r.Discount != nil && r.Discount.IsNegative()) {
		return apperror.BadRequest("inventory and discount cannot be negative")
	}
	if r.Status != nil && *r.Status != model.ProductStatusActive && *r.Status != model.ProductStatusInactive {
		return apperror.BadRequest("status must be ACTIVE or INACTIVE")
	}
	return nil
}

// -------- orders --------

type OrderItemRequest struct {
	ProductID string           `json:"productId"`
	Quantity  int32            `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

type CreateOrderRequest struct {
	ShopID      string             `json:"shopId"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	PaymentType model.PaymentType  `json:"paymentType"`
	OrderItems  []OrderItemRequest `json:"orderItems"`
}

func (r *CreateOrderRequest) Validate() error {
	if r.ShopID == "" {
		return apperror.BadRequest("shopId is required")
	}
	if len(r.OrderItems) == 0 {
		return apperror.BadRequest("orderItems must not be empty")
	}
	if r.PaymentType != "" && !r.PaymentType.Valid() {
		return apperror.BadRequest("paymentType must be COD or ONLINE")
	}
	for _, item := range r.OrderItems {
		if item.ProductID == "" {
			return apperror.BadRequest("productId is required")
		}
		if item.Quantity <= 0 {
			return apperror.BadRequest("quantity must be positive")
		}
	}
	return nil
}

type ChangeOrderStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

func (r *ChangeOrderStatusRequest) Validate() error {
	if !r.Status.Valid() {
		return apperror.BadRequest("status must be one of PROCESSING, SHIPPED, DELIVERED, CANCELLED")
	}
	return nil
}

type ChangePaymentStatusRequest struct {
	PaymentStatus model.OrderPaymentStatus `json:"paymentStatus"`
}

func (r *ChangePaymentStatusRequest) Validate() error {
	if !r.PaymentStatus.Valid() {
		return apperror.BadRequest("paymentStatus must be PAID or UNPAID")
	}
	return nil
}

// OrderFilter carries the listing filters of the shop and admin order endpoints.
type OrderFilter struct {
	SearchTerm    string `query:"searchTerm"`
	Status        string `query:"status"`
	PaymentType   string `query:"paymentType"`
	PaymentStatus string `query:"paymentStatus"`
	Shop          string `query:"shop"`
}

func (f OrderFilter) Equality() map[string]string {
	return map[string]string{
		"status":        f.Status,
		"paymentType":   f.PaymentType,
		"paymentStatus": f.PaymentStatus,
	}
}

// -------- payments --------

type CreatePaymentRequest struct {
	OrderID string `json:"orderId"`
}

func (r *CreatePaymentRequest) Validate() error {
	if r.OrderID == "" {
		return apperror.BadRequest("orderId is required")
	}
	return nil
}

type CreatePaymentResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// CallbackPayload is what the gateway sends to the success, fail and cancel URLs.
type CallbackPayload struct {
	PaymentID     string
	OrderID       string
	TransactionID string // mer_txnid, when the gateway posts it
	PayStatus     string
}

// -------- coupons --------

type CreateCouponRequest struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        time.Time       `json:"endTime"`
	UsageLimit     int32           `json:"usageLimit"`
}

func (r *CreateCouponRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return apperror.BadRequest("code is required")
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return apperror.BadRequest("startTime and endTime are required")
	}
	if r.UsageLimit <= 0 {
		return apperror.BadRequest("usageLimit must be positive")
	}
	if r.DiscountAmount.IsNegative() {
		return apperror.BadRequest("discountAmount cannot be negative")
	}
	return nil
}

type UpdateCouponRequest struct {
	Code           *string          `json:"code"`
	DiscountAmount *decimal.Decimal `json:"discountAmount"`
	StartTime      *time.Time       `json:"startTime"`
	EndTime        *time.Time       `json:"endTime"`
	UsageLimit     *int32           `json:"usageLimit"`
}

func (r *UpdateCouponRequest) Validate() error {
	if r.Code != nil && strings.TrimSpace(*r.Code) == "" {
		return apperror.BadRequest("code cannot be empty")
	}
	if r.UsageLimit != nil && *r.UsageLimit <= 0 {
		return apperror.BadRequest("usageLimit must be positive")
	}
	return nil
}

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

func (r *ApplyCouponRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return apperror.BadRequest("code is required")
	}
	return nil
}

// -------- shop follows --------

type FollowShopRequest struct {
	ShopID string `json:"shopId"`
}

func (r *FollowShopRequest) Validate() error {
	if r.ShopID == "" {
		return apperror.BadRequest("shopId is required")
	}
	return nil
}

// -------- reviews --------

const (
	MinRating = 1
	MaxRating = 5
)

type CreateReviewRequest struct {
	ProductID string `json:"productId"`
	Rating    int32  `json:"rating"`
	Comment   string `json:"comment"`
}

func (r *CreateReviewRequest) Validate() error {
	if r.ProductID == "" {
		return apperror.BadRequest("productId is required")
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return apperror.BadRequest("rating must be between 1 and 5")
	}
	return nil
}

type UpdateReviewRequest struct {
	Rating  *int32  `json:"rating"`
	Comment *string `json:"comment"`
}

func (r *UpdateReviewRequest) Validate() error {
	if r.Rating != nil && (*r.Rating < MinRating || *r.Rating > MaxRating) {
		return apperror.BadRequest("rating must be between 1 and 5")
	}
	return nil
}

type ReviewFilter struct {
	SearchTerm string `query:"searchTerm"`
	ShopID     string `query:"shopId"`
	ProductID  string `query:"productId"`
	Rating     string `query:"rating"`
}

func (f ReviewFilter) Equality() map[string]string {
	return map[string]string{
		"productId": f.ProductID,
		"rating":    f.Rating,
	}
}

// ReviewSummary is the review list of one product or shop with its average rating.
type ReviewSummary struct {
	Reviews []*model.Review `json:"reviews"`
	Rating  float64         `json:"rating"`
}

// -------- recently viewed --------

type RecentViewedRequest struct {
	ProductID string `json:"productId"`
}

func (r *RecentViewedRequest) Validate() error {
	if r.ProductID == "" {
		return apperror.BadRequest("productId is required")
	}
	return nil
}

// -------- newsletter --------

type SubscribeNewsletterRequest struct {
	Email string `json:"email"`
}

func (r *SubscribeNewsletterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return apperror.BadRequest("Email is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return apperror.BadRequest("Invalid email address")
	}
	return nil
}
