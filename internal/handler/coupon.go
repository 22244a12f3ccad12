package handler

import (
	"net/http"

	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/pagination"
	"marketplace-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CouponHandler struct {
	couponService service.CouponService
}

func NewCouponHandler(couponService service.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

func (h *CouponHandler) CreateCoupon(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCouponRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	coupon, err := h.couponService.CreateCoupon(ctx, &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Coupon created successfully", coupon)
}

func (h *CouponHandler) UpdateCoupon(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateCouponRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	coupon, err := h.couponService.UpdateCoupon(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Coupon updated successfully", coupon)
}

func (h *CouponHandler) DeleteCoupon(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.couponService.DeleteCoupon(ctx, c.Param("id")); err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Coupon deleted successfully", nil)
}

func (h *CouponHandler) GetAllCoupons(c echo.Context) error {
	ctx := c.Request().Context()

	var opts pagination.Options
	if err := bindQuery(c, &opts); err != nil {
		return err
	}

	result, err := h.couponService.GetAllCoupons(ctx, opts)
	if err != nil {
		return err
	}

	return okPage(c, "Coupons retrieved successfully", result)
}

func (h *CouponHandler) GetCoupon(c echo.Context) error {
	ctx := c.Request().Context()

	coupon, err := h.couponService.GetCoupon(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Coupon retrieved successfully", coupon)
}

func (h *CouponHandler) ApplyCoupon(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.ApplyCouponRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	coupon, err := h.couponService.ApplyCoupon(ctx, user, req.Code)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Coupon applied successfully", coupon)
}
