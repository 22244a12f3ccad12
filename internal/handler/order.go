package handler

import (
	"net/http"

	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/pagination"
	"marketplace-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.CreateOrder(ctx, user, &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Order created successfully", order)
}

func (h *OrderHandler) ChangeOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ChangeOrderStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.ChangeOrderStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Order status changed successfully", order)
}

func (h *OrderHandler) ChangePaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ChangePaymentStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.ChangePaymentStatus(ctx, c.Param("id"), req.PaymentStatus)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Payment status changed successfully", order)
}

func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var opts pagination.Options
	if err := bindQuery(c, &opts); err != nil {
		return err
	}

	result, err := h.orderService.GetMyOrders(ctx, user, opts)
	if err != nil {
		return err
	}

	return okPage(c, "Orders retrieved successfully", result)
}

func (h *OrderHandler) GetShopOrders(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var (
		filter dto.OrderFilter
		opts   pagination.Options
	)
	if err := bindQuery(c, &filter, &opts); err != nil {
		return err
	}

	result, err := h.orderService.GetShopOrders(ctx, user, filter, opts)
	if err != nil {
		return err
	}

	return okPage(c, "Shop orders retrieved successfully", result)
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		filter dto.OrderFilter
		opts   pagination.Options
	)
	if err := bindQuery(c, &filter, &opts); err != nil {
		return err
	}

	result, err := h.orderService.GetAllOrders(ctx, filter, opts)
	if err != nil {
		return err
	}

	return okPage(c, "Orders retrieved successfully", result)
}

func (h *OrderHandler) GetSingleOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetSingleOrder(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) GetProductOrders(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.GetProductOrders(ctx, user, c.Param("id"))
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Product orders retrieved successfully", orders)
}
