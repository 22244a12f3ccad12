package handler

import (
	"net/http"

	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCustomerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	customer, err := h.userService.CreateCustomer(ctx, &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Customer created successfully", customer)
}

func (h *UserHandler) CreateVendor(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateVendorRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	vendor, err := h.userService.CreateVendor(ctx, &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Vendor created successfully", vendor)
}
