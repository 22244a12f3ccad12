package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID          string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Email       string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	PhoneNumber string    `gorm:"size:32" json:"phoneNumber"`
	Address     string    `gorm:"size:255" json:"address"`
	IsDeleted   bool      `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Vendor struct {
	ID          string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Email       string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	PhoneNumber string    `gorm:"size:32" json:"phoneNumber"`
	IsDeleted   bool      `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Shop struct {
	ID          string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Name        string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description"`
	VendorID    string    `gorm:"size:36;uniqueIndex;not null" json:"vendorId"` // one shop per vendor
	Vendor      *Vendor   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	IsDeleted   bool      `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Category struct {
	ID        string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Name      string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Product struct {
	ID          string          `gorm:"primaryKey;size:36;not null" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"size:2048" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Inventory   int32           `gorm:"not null;default:0" json:"inventory"`
	Discount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	CategoryID  string          `gorm:"size:36;index;not null" json:"categoryId"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ShopID      string          `gorm:"size:36;index;not null" json:"shopId"`
	Status      ProductStatus   `gorm:"size:16;index;not null;default:ACTIVE" json:"status"`
	IsDeleted   bool            `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Order struct {
	ID            string             `gorm:"primaryKey;size:36;not null" json:"id"`
	CustomerID    string             `gorm:"size:36;index;not null" json:"customerId"`
	Customer      *Customer          `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ShopID        string             `gorm:"size:36;index;not null" json:"shopId"`
	Shop          *Shop              `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	TotalAmount   decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"totalAmount"` // caller supplied, never recomputed
	PaymentType   PaymentType        `gorm:"size:16;not null;default:COD" json:"paymentType"`
	Status        OrderStatus        `gorm:"size:16;index;not null;default:PROCESSING" json:"status"`
	PaymentStatus OrderPaymentStatus `gorm:"size:16;index;not null;default:UNPAID" json:"paymentStatus"`
	OrderItems    []*OrderItem       `gorm:"foreignKey:OrderID" json:"orderItem,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type OrderItem struct {
	ID string `gorm:"primaryKey;size:36;not null" json:"id"`
	// FK → orders.id
	OrderID string `gorm:"size:36;index;not null" json:"orderId"`
	// FK → products.id
	ProductID string           `gorm:"size:36;index;not null" json:"productId"`
	Product   *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int32            `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"` // unit price at order time
	Discount  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"discount,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

type Payment struct {
	ID            string          `gorm:"primaryKey;size:36;not null" json:"id"`
	OrderID       string          `gorm:"size:36;index;not null" json:"orderId"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	TransactionID string          `gorm:"size:16;uniqueIndex;not null" json:"transactionId"`
	Status        PaymentStatus   `gorm:"size:16;index;not null;default:PENDING" json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type Coupon struct {
	ID             string          `gorm:"primaryKey;size:36;not null" json:"id"`
	Code           string          `gorm:"size:64;uniqueIndex;not null" json:"code"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discountAmount"`
	StartTime      time.Time       `gorm:"not null" json:"startTime"`
	EndTime        time.Time       `gorm:"not null;index" json:"endTime"`
	UsageLimit     int32           `gorm:"not null" json:"usageLimit"` // per customer
	UsedCount      int32           `gorm:"not null;default:0" json:"usedCount"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// CustomerCoupon is one redemption of a coupon by a customer. Rows are never updated.
type CustomerCoupon struct {
	ID         string    `gorm:"primaryKey;size:36;not null" json:"id"`
	CustomerID string    `gorm:"size:36;index:idx_customer_coupon;not null" json:"customerId"`
	CouponID   string    `gorm:"size:36;index:idx_customer_coupon;not null" json:"couponId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OutboxEvent is written in the same transaction as the change it announces and
// published to kafka later by the outbox poller.
type OutboxEvent struct {
	ID          string     `gorm:"primaryKey;size:36;not null"`
	AggregateID string     `gorm:"size:36;index;not null"`
	EventType   string     `gorm:"size:64;index;not null"`
	Payload     []byte     `gorm:"not null"`
	PublishedAt *time.Time `gorm:"index"`
	CreatedAt   time.Time
}

// FollowedShop links a customer to a shop they follow. A pair appears at most once.
type FollowedShop struct {
	ID         string    `gorm:"primaryKey;size:36;not null" json:"id"`
	CustomerID string    `gorm:"size:36;uniqueIndex:idx_follower_shop;not null" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ShopID     string    `gorm:"size:36;uniqueIndex:idx_follower_shop;index;not null" json:"shopId"`
	Shop       *Shop     `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Review struct {
	ID         string    `gorm:"primaryKey;size:36;not null" json:"id"`
	CustomerID string    `gorm:"size:36;index;not null" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ProductID  string    `gorm:"size:36;index;not null" json:"productId"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Rating     int32     `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"size:2048" json:"comment"`
	IsDeleted  bool      `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type RecentViewedProduct struct {
	ID         string    `gorm:"primaryKey;size:36;not null" json:"id"`
	CustomerID string    `gorm:"size:36;uniqueIndex:idx_viewer_product;not null" json:"customerId"`
	ProductID  string    `gorm:"size:36;uniqueIndex:idx_viewer_product;not null" json:"productId"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ViewedAt   time.Time `gorm:"not null;index" json:"viewedAt"`
}

type NewsletterSubscriber struct {
	ID        string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Email     string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
