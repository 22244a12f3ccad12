package service

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"marketplace-backend/internal/client"
	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentFixture(t *testing.T) (*orderFixture, *model.Order) {
	t.Helper()

	f := newOrderFixture(t)
	order, err := f.orders.CreateOrder(context.Background(), customerPrincipal("rahim@example.com"), f.orderRequest())
	require.NoError(t, err)
	return f, order
}

// startPayment creates a payment and returns the callback payload the gateway would send.
func startPayment(t *testing.T, f *orderFixture, order *model.Order) dto.CallbackPayload {
	t.Helper()

	_, err := f.payments.CreatePayment(context.Background(), customerPrincipal("rahim@example.com"), order.ID)
	require.NoError(t, err)

	f.gateway.mu.Lock()
	defer f.gateway.mu.Unlock()
	req := f.gateway.requests[len(f.gateway.requests)-1]

	successURL, err := url.Parse(req.SuccessURL)
	require.NoError(t, err)
	return dto.CallbackPayload{
		PaymentID: successURL.Query().Get("payment_id"),
		OrderID:   successURL.Query().Get("order_id"),
	}
}

func TestGenerateTransactionID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{10}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateTransactionID()
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestCreatePayment_Success(t *testing.T) {
	f, order := newPaymentFixture(t)

	resp, err := f.payments.CreatePayment(context.Background(), customerPrincipal("rahim@example.com"), order.ID)
	require.NoError(t, err)

	require.Len(t, f.gateway.requests, 1)
	req := f.gateway.requests[0]
	assert.Equal(t, "https://sandbox.aamarpay.com/paynow.php?track="+req.TransactionID, resp.RedirectURL)
	assert.Equal(t, "Rahim", req.CustomerName)
	assert.Equal(t, "rahim@example.com", req.CustomerEmail)
	assert.True(t, req.Amount.Equal(order.TotalAmount))
	assert.Equal(t, "Payment for order "+order.ID, req.Description)

	var payment model.Payment
	require.NoError(t, f.db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Equal(t, req.TransactionID, payment.TransactionID)
	assert.True(t, payment.Amount.Equal(order.TotalAmount))

	assert.Equal(t,
		"http://localhost:8080/api/payments/success?order_id="+order.ID+"&payment_id="+payment.ID,
		req.SuccessURL)
	assert.Contains(t, req.FailURL, "/api/payments/fail?")
	assert.Contains(t, req.CancelURL, "/api/payments/cancel?")
}

func TestCreatePayment_Preconditions(t *testing.T) {
	f, order := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.payments.CreatePayment(ctx, customerPrincipal("ghost@example.com"), order.ID)
	requireAppError(t, err, http.StatusNotFound, "Customer not found")

	_, err = f.payments.CreatePayment(ctx, customerPrincipal("rahim@example.com"), "missing")
	requireAppError(t, err, http.StatusBadRequest, "Order not found")

	assert.Zero(t, countRows(t, f.db, &model.Payment{}))
	assert.Empty(t, f.gateway.requests)
}

func TestCreatePayment_GatewayFailureKeepsPendingPayment(t *testing.T) {
	f, order := newPaymentFixture(t)
	f.gateway.err = &client.GatewayError{Err: errGatewayDown}

	resp, err := f.payments.CreatePayment(context.Background(), customerPrincipal("rahim@example.com"), order.ID)
	requireAppError(t, err, http.StatusBadGateway, "")
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, errGatewayDown)

	var payment model.Payment
	require.NoError(t, f.db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
}

func TestSuccessPayment_IsIdempotent(t *testing.T) {
	f, order := newPaymentFixture(t)
	ctx := context.Background()
	payload := startPayment(t, f, order)

	for i := 0; i < 2; i++ {
		payment, err := f.payments.SuccessPayment(ctx, payload)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, payment.Status)

		stored, err := f.orders.GetSingleOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderPaymentStatusPaid, stored.PaymentStatus)
	}

	var completed int64
	require.NoError(t, f.db.Model(&model.OutboxEvent{}).Where("event_type = ?", model.EventPaymentCompleted).Count(&completed).Error)
	assert.EqualValues(t, 2, completed)
}

func TestSuccessPayment_UnknownOrderRollsBack(t *testing.T) {
	f, order := newPaymentFixture(t)
	ctx := context.Background()
	payload := startPayment(t, f, order)
	payload.OrderID = "missing"

	_, err := f.payments.SuccessPayment(ctx, payload)
	requireAppError(t, err, http.StatusNotFound, "Order not found")

	payment, err := f.payments.GetSinglePayment(ctx, payload.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
}

func TestCancelThenSuccess_NotFound(t *testing.T) {
	f, order := newPaymentFixture(t)
	ctx := context.Background()
	payload := startPayment(t, f, order)

	require.NoError(t, f.payments.CancelPayment(ctx, payload))

	_, err := f.payments.SuccessPayment(ctx, payload)
	requireAppError(t, err, http.StatusNotFound, "Payment not found")

	err = f.payments.CancelPayment(ctx, payload)
	requireAppError(t, err, http.StatusNotFound, "Payment not found")

	stored, err := f.orders.GetSingleOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaymentStatusUnpaid, stored.PaymentStatus)
}

func TestFailPayment_LeavesOrderUnpaid(t *testing.T) {
	f, order := newPaymentFixture(t)
	ctx := context.Background()
	payload := startPayment(t, f, order)

	payment, err := f.payments.FailPayment(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, payment.Status)

	stored, err := f.orders.GetSingleOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaymentStatusUnpaid, stored.PaymentStatus)

	_, err = f.payments.FailPayment(ctx, dto.CallbackPayload{PaymentID: "missing"})
	requireAppError(t, err, http.StatusNotFound, "Payment not found")
}

func TestCallbacks_RejectedByVerifier(t *testing.T) {
	f, order := newPaymentFixture(t)
	ctx := context.Background()
	payload := startPayment(t, f, order)

	strict := NewPaymentService(f.db, f.gateway, rejectingVerifier{}, "http://localhost:8080",
		f.repos.customer, f.repos.order, f.repos.payment, f.repos.outbox, zerolog.Nop())

	_, err := strict.SuccessPayment(ctx, payload)
	requireAppError(t, err, http.StatusUnauthorized, "")
	_, err = strict.FailPayment(ctx, payload)
	requireAppError(t, err, http.StatusUnauthorized, "")
	err = strict.CancelPayment(ctx, payload)
	requireAppError(t, err, http.StatusUnauthorized, "")

	payment, err := f.payments.GetSinglePayment(ctx, payload.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
}

func TestGetSinglePayment_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.payments.GetSinglePayment(context.Background(), "missing")
	requireAppError(t, err, http.StatusNotFound, "Payment not found")
}
