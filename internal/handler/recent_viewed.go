package handler

import (
	"net/http"

	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type RecentViewedHandler struct {
	recentViewedService service.RecentViewedService
}

func NewRecentViewedHandler(recentViewedService service.RecentViewedService) *RecentViewedHandler {
	return &RecentViewedHandler{
		recentViewedService: recentViewedService,
	}
}

func (h *RecentViewedHandler) AddRecentViewed(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.RecentViewedRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	view, err := h.recentViewedService.AddRecentViewed(ctx, user, req.ProductID)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Product added to recently viewed", view)
}

func (h *RecentViewedHandler) GetRecentViewed(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	views, err := h.recentViewedService.GetRecentViewed(ctx, user)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Recently viewed products retrieved successfully", views)
}

func (h *RecentViewedHandler) RemoveRecentViewed(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.recentViewedService.RemoveRecentViewed(ctx, user, c.Param("id")); err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Product removed from recently viewed", nil)
}
