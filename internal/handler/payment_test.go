package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"marketplace-backend/internal/apperror"
	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaymentService struct {
	payloads []dto.CallbackPayload
	err      error
}

func (s *stubPaymentService) CreatePayment(context.Context, model.Principal, string) (*dto.CreatePaymentResponse, error) {
	return &dto.CreatePaymentResponse{RedirectURL: "https://gateway.test/pay"}, s.err
}

func (s *stubPaymentService) SuccessPayment(_ context.Context, payload dto.CallbackPayload) (*model.Payment, error) {
	s.payloads = append(s.payloads, payload)
	if s.err != nil {
		return nil, s.err
	}
	return &model.Payment{ID: payload.PaymentID, Status: model.PaymentStatusCompleted}, nil
}

func (s *stubPaymentService) FailPayment(_ context.Context, payload dto.CallbackPayload) (*model.Payment, error) {
	s.payloads = append(s.payloads, payload)
	return &model.Payment{ID: payload.PaymentID, Status: model.PaymentStatusFailed}, s.err
}

func (s *stubPaymentService) CancelPayment(_ context.Context, payload dto.CallbackPayload) error {
	s.payloads = append(s.payloads, payload)
	return s.err
}

func (s *stubPaymentService) GetSinglePayment(context.Context, string) (*model.Payment, error) {
	return nil, s.err
}

func callback(t *testing.T, h echo.HandlerFunc, target string, form url.Values) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestSuccessPayment_JSONWithoutClientURL(t *testing.T) {
	svc := &stubPaymentService{}
	h := NewPaymentHandler(svc, "")

	rec, err := callback(t, h.SuccessPayment, "/api/payments/success?payment_id=p1&order_id=o1",
		url.Values{"mer_txnid": {"ABC123"}, "pay_status": {"Successful"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool          `json:"success"`
		Data    model.Payment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, model.PaymentStatusCompleted, resp.Data.Status)

	require.Len(t, svc.payloads, 1)
	assert.Equal(t, dto.CallbackPayload{
		PaymentID:     "p1",
		OrderID:       "o1",
		TransactionID: "ABC123",
		PayStatus:     "Successful",
	}, svc.payloads[0])
}

func TestCallbacks_RedirectToClient(t *testing.T) {
	h := NewPaymentHandler(&stubPaymentService{}, "https://shop.test/")

	tests := []struct {
		name    string
		handler echo.HandlerFunc
		want    string
	}{
		{"fail", h.FailPayment, "https://shop.test/payment/failed?payment_id=p+1"},
		{"cancel", h.CancelPayment, "https://shop.test/payment/canceled?payment_id=p+1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := callback(t, tt.handler, "/api/payments/x?payment_id=p%201&order_id=o1", nil)
			require.NoError(t, err)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestCallbacks_ErrorsPassThrough(t *testing.T) {
	h := NewPaymentHandler(&stubPaymentService{err: apperror.NotFound("Payment not found")}, "https://shop.test")

	_, err := callback(t, h.CancelPayment, "/api/payments/cancel?payment_id=p1&order_id=o1", nil)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)

	_, err = callback(t, h.SuccessPayment, "/api/payments/success?order_id=o1", nil)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreatePayment_RequiresPrincipal(t *testing.T) {
	h := NewPaymentHandler(&stubPaymentService{}, "")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/create", strings.NewReader(`{"orderId":"o1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.CreatePayment(e.NewContext(req, rec))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
