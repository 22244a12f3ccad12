package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"marketplace-backend/internal/config"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

// PaymentGateway starts a hosted checkout. The gateway later calls back one of the
// three URLs carried in the request.
type PaymentGateway interface {
	Initiate(ctx context.Context, req *InitiatePaymentRequest) (*InitiatePaymentResponse, error)
}

type InitiatePaymentRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	Amount          decimal.Decimal
	TransactionID   string
	Description     string
	SuccessURL      string
	FailURL         string
	CancelURL       string
}

type InitiatePaymentResponse struct {
	RedirectURL string
}

// GatewayError is returned when the gateway could not be reached or did not accept
// the checkout request.
type GatewayError struct {
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway: %v", e.Err)
	}
	return fmt.Sprintf("payment gateway error %d: %s", e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

const jsonPostPath = "/jsonpost.php"

type aamarpayClientImpl struct {
	httpClient   *http.Client
	baseApiURL   string
	storeID      string
	signatureKey string
	currency     string
	breaker      *gobreaker.CircuitBreaker[*InitiatePaymentResponse]
}

type aamarpayInitiateRequest struct {
	StoreID      string `json:"store_id"`
	SignatureKey string `json:"signature_key"`
	CusName      string `json:"cus_name"`
	CusEmail     string `json:"cus_email"`
	CusPhone     string `json:"cus_phone"`
	CusAdd1      string `json:"cus_add1"`
	Amount       string `json:"amount"`
	TranID       string `json:"tran_id"`
	SuccessURL   string `json:"success_url"`
	FailURL      string `json:"fail_url"`
	CancelURL    string `json:"cancel_url"`
	Desc         string `json:"desc"`
	Currency     string `json:"currency"`
	Type         string `json:"type"`
}

type aamarpayInitiateResult struct {
	Result     string `json:"result"`
	PaymentURL string `json:"payment_url"`
}

func NewAamarpayClient(cfg *config.Aamarpay) PaymentGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &aamarpayClientImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseApiURL:   cfg.BaseApiURL,
		storeID:      cfg.StoreID,
		signatureKey: cfg.SignatureKey,
		currency:     cfg.Currency,
		breaker: gobreaker.NewCircuitBreaker[*InitiatePaymentResponse](gobreaker.Settings{
			Name:        "aamarpay",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// a rejected request is the caller's problem, not the gateway's health
			IsSuccessful: func(err error) bool {
				var gwErr *GatewayError
				if errors.As(err, &gwErr) {
					return gwErr.StatusCode > 0 && gwErr.StatusCode < 500
				}
				return err == nil
			},
		}),
	}
}

func (c *aamarpayClientImpl) Initiate(ctx context.Context, req *InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	resp, err := c.breaker.Execute(func() (*InitiatePaymentResponse, error) {
		return c.initiate(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &GatewayError{Err: err}
	}
	return resp, err
}

func (c *aamarpayClientImpl) initiate(ctx context.Context, req *InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	payload := aamarpayInitiateRequest{
		StoreID:      c.storeID,
		SignatureKey: c.signatureKey,
		CusName:      req.CustomerName,
		CusEmail:     req.CustomerEmail,
		CusPhone:     req.CustomerPhone,
		CusAdd1:      req.CustomerAddress,
		Amount:       req.Amount.StringFixed(2),
		TranID:       req.TransactionID,
		SuccessURL:   req.SuccessURL,
		FailURL:      req.FailURL,
		CancelURL:    req.CancelURL,
		Desc:         req.Description,
		Currency:     c.currency,
		Type:         "json",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+jsonPostPath, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result aamarpayInitiateResult
	if err := json.Unmarshal(respBody, &result); err != nil || result.PaymentURL == "" {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return &InitiatePaymentResponse{
		RedirectURL: result.PaymentURL,
	}, nil
}
