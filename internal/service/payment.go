package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/client"
	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// CallbackVerifier decides whether a gateway callback can be trusted before any state
// changes.
type CallbackVerifier interface {
	Verify(ctx context.Context, payload dto.CallbackPayload) error
}

// NoopVerifier accepts every callback. Anyone who knows a payment id can mark it
// completed; replace it with a verifier that checks the transaction with the gateway.
type NoopVerifier struct{}

func (NoopVerifier) Verify(context.Context, dto.CallbackPayload) error {
	return nil
}

type PaymentService interface {
	CreatePayment(ctx context.Context, principal model.Principal, orderID string) (*dto.CreatePaymentResponse, error)
	SuccessPayment(ctx context.Context, payload dto.CallbackPayload) (*model.Payment, error)
	FailPayment(ctx context.Context, payload dto.CallbackPayload) (*model.Payment, error)
	CancelPayment(ctx context.Context, payload dto.CallbackPayload) error
	GetSinglePayment(ctx context.Context, paymentID string) (*model.Payment, error)
}

type paymentServiceImpl struct {
	db             *gorm.DB
	gateway        client.PaymentGateway
	verifier       CallbackVerifier
	serviceBaseUrl string
	customerRepo   repository.CustomerRepository
	orderRepo      repository.OrderRepository
	paymentRepo    repository.PaymentRepository
	outboxRepo     repository.OutboxRepository
	log            zerolog.Logger
}

func NewPaymentService(
	db *gorm.DB,
	gateway client.PaymentGateway,
	verifier CallbackVerifier,
	serviceBaseUrl string,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	outboxRepo repository.OutboxRepository,
	log zerolog.Logger,
) PaymentService {
	if verifier == nil {
		verifier = NoopVerifier{}
	}
	return &paymentServiceImpl{
		db:             db,
		gateway:        gateway,
		verifier:       verifier,
		serviceBaseUrl: strings.TrimRight(serviceBaseUrl, "/"),
		customerRepo:   customerRepo,
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		outboxRepo:     outboxRepo,
		log:            log,
	}
}

type paymentCompletedEvent struct {
	PaymentID     string `json:"paymentId"`
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount"`
}

// GenerateTransactionID returns 10 upper-case hex characters taken from a random UUID.
func GenerateTransactionID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func (s *paymentServiceImpl) CreatePayment(ctx context.Context, principal model.Principal, orderID string) (*dto.CreatePaymentResponse, error) {
	customer, err := findCustomerByEmail(ctx, s.customerRepo, principal.Email)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, nil, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Order not found")
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	payment := &model.Payment{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		TransactionID: GenerateTransactionID(),
		Status:        model.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("store payment in db: %w", err)
	}

	resp, err := s.gateway.Initiate(ctx, &client.InitiatePaymentRequest{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.PhoneNumber,
		CustomerAddress: customer.Address,
		Amount:          order.TotalAmount,
		TransactionID:   payment.TransactionID,
		Description:     fmt.Sprintf("Payment for order %s", order.ID),
		SuccessURL:      s.callbackURL("success", payment.ID, order.ID),
		FailURL:         s.callbackURL("fail", payment.ID, order.ID),
		CancelURL:       s.callbackURL("cancel", payment.ID, order.ID),
	})
	if err != nil {
		// the PENDING payment stays; a later attempt creates a new one
		s.log.Error().Err(err).
			Str("payment_id", payment.ID).
			Str("order_id", order.ID).
			Msg("initiate gateway payment")
		return nil, apperror.BadGateway("Payment gateway is unavailable", err)
	}

	return &dto.CreatePaymentResponse{
		RedirectURL: resp.RedirectURL,
	}, nil
}

func (s *paymentServiceImpl) callbackURL(kind, paymentID, orderID string) string {
	q := url.Values{}
	q.Set("payment_id", paymentID)
	q.Set("order_id", orderID)
	return fmt.Sprintf("%s/api/payments/%s?%s", s.serviceBaseUrl, kind, q.Encode())
}

func (s *paymentServiceImpl) SuccessPayment(ctx context.Context, payload dto.CallbackPayload) (*model.Payment, error) {
	if err := s.verifier.Verify(ctx, payload); err != nil {
		return nil, err
	}

	var payment *model.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.paymentRepo.UpdateStatus(ctx, tx, payload.PaymentID, model.PaymentStatusCompleted)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Payment not found")
			}
			return fmt.Errorf("update payment status: %w", err)
		}

		payment, err = s.paymentRepo.FindByID(ctx, tx, payload.PaymentID)
		if err != nil {
			return fmt.Errorf("find payment: %w", err)
		}

		if _, err := s.orderRepo.UpdatePaymentStatus(ctx, tx, payload.OrderID, model.OrderPaymentStatusPaid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Order not found")
			}
			return fmt.Errorf("update order payment status: %w", err)
		}

		err = s.outboxRepo.Create(ctx, tx, payment.OrderID, model.EventPaymentCompleted, paymentCompletedEvent{
			PaymentID:     payment.ID,
			OrderID:       payload.OrderID,
			TransactionID: payment.TransactionID,
			Amount:        payment.Amount.StringFixed(2),
		})
		if err != nil {
			return fmt.Errorf("store payment event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// FailPayment marks the payment FAILED. The order is left as it is.
func (s *paymentServiceImpl) FailPayment(ctx context.Context, payload dto.CallbackPayload) (*model.Payment, error) {
	if err := s.verifier.Verify(ctx, payload); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.UpdateStatus(ctx, nil, payload.PaymentID, model.PaymentStatusFailed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Payment not found")
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	payment, err := s.paymentRepo.FindByID(ctx, nil, payload.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}

	return payment, nil
}

// CancelPayment deletes the payment row. The order is left as it is.
func (s *paymentServiceImpl) CancelPayment(ctx context.Context, payload dto.CallbackPayload) error {
	if err := s.verifier.Verify(ctx, payload); err != nil {
		return err
	}

	if err := s.paymentRepo.Delete(ctx, payload.PaymentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Payment not found")
		}
		return fmt.Errorf("delete payment: %w", err)
	}

	return nil
}

func (s *paymentServiceImpl) GetSinglePayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, nil, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Payment not found")
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}

	return payment, nil
}
