package model

type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleVendor     UserRole = "VENDOR"
	RoleCustomer   UserRole = "CUSTOMER"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusInactive ProductStatus = "INACTIVE"
)

type PaymentType string

const (
	PaymentTypeCOD    PaymentType = "COD"
	PaymentTypeOnline PaymentType = "ONLINE"
)

func (p PaymentType) Valid() bool {
	return p == PaymentTypeCOD || p == PaymentTypeOnline
}

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type OrderPaymentStatus string

const (
	OrderPaymentStatusUnpaid OrderPaymentStatus = "UNPAID"
	OrderPaymentStatusPaid   OrderPaymentStatus = "PAID"
)

func (s OrderPaymentStatus) Valid() bool {
	return s == OrderPaymentStatusPaid || s == OrderPaymentStatusUnpaid
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Outbox event types.
const (
	EventOrderCreated     = "order.created"
	EventPaymentCompleted = "payment.completed"
	EventCouponRedeemed   = "coupon.redeemed"
)
