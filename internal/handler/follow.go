package handler

import (
	"net/http"

	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type FollowHandler struct {
	followService service.FollowService
}

func NewFollowHandler(followService service.FollowService) *FollowHandler {
	return &FollowHandler{
		followService: followService,
	}
}

func (h *FollowHandler) FollowShop(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.FollowShopRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	follow, err := h.followService.FollowShop(ctx, user, req.ShopID)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Shop followed successfully", follow)
}

func (h *FollowHandler) UnfollowShop(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.FollowShopRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.followService.UnfollowShop(ctx, user, req.ShopID); err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Shop unfollowed successfully", nil)
}

func (h *FollowHandler) GetFollowedShops(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	follows, err := h.followService.GetFollowedShops(ctx, user)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Followed shops retrieved successfully", follows)
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	ctx := c.Request().Context()

	follows, err := h.followService.GetFollowers(ctx, c.Param("shopId"))
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Shop followers retrieved successfully", follows)
}
