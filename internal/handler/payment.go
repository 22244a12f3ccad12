package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	clientURL      string
}

// NewPaymentHandler redirects the browser to clientURL after a gateway callback. With
// an empty clientURL the callbacks answer with JSON.
func NewPaymentHandler(paymentService service.PaymentService, clientURL string) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		clientURL:      strings.TrimRight(clientURL, "/"),
	}
}

func callbackPayload(c echo.Context) (dto.CallbackPayload, error) {
	payload := dto.CallbackPayload{
		PaymentID:     c.QueryParam("payment_id"),
		OrderID:       c.QueryParam("order_id"),
		TransactionID: c.FormValue("mer_txnid"),
		PayStatus:     c.FormValue("pay_status"),
	}
	if payload.PaymentID == "" || payload.OrderID == "" {
		return payload, echo.NewHTTPError(http.StatusBadRequest, "missing payment_id or order_id")
	}
	return payload, nil
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.CreatePaymentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	result, err := h.paymentService.CreatePayment(ctx, user, req.OrderID)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Payment initiated successfully", result)
}

func (h *PaymentHandler) SuccessPayment(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := callbackPayload(c)
	if err != nil {
		return err
	}

	payment, err := h.paymentService.SuccessPayment(ctx, payload)
	if err != nil {
		return err
	}

	return h.finish(c, "success", payload.PaymentID, "Payment completed successfully", payment)
}

func (h *PaymentHandler) FailPayment(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := callbackPayload(c)
	if err != nil {
		return err
	}

	payment, err := h.paymentService.FailPayment(ctx, payload)
	if err != nil {
		return err
	}

	return h.finish(c, "failed", payload.PaymentID, "Payment failed", payment)
}

func (h *PaymentHandler) CancelPayment(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := callbackPayload(c)
	if err != nil {
		return err
	}

	if err := h.paymentService.CancelPayment(ctx, payload); err != nil {
		return err
	}

	return h.finish(c, "canceled", payload.PaymentID, "Payment canceled", nil)
}

func (h *PaymentHandler) GetSinglePayment(c echo.Context) error {
	ctx := c.Request().Context()

	payment, err := h.paymentService.GetSinglePayment(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Payment retrieved successfully", payment)
}

func (h *PaymentHandler) finish(c echo.Context, outcome, paymentID, message string, data interface{}) error {
	if h.clientURL == "" {
		return ok(c, http.StatusOK, message, data)
	}

	target := fmt.Sprintf("%s/payment/%s?payment_id=%s", h.clientURL, outcome, url.QueryEscape(paymentID))
	return c.Redirect(http.StatusFound, target)
}
