package handler

import (
	"net/http"

	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/pagination"
	"marketplace-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.CreateReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.CreateReview(ctx, user, &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Review created successfully", review)
}

func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.UpdateReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.UpdateReview(ctx, user, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Review updated successfully", review)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.reviewService.DeleteReview(ctx, user, c.Param("id")); err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Review deleted successfully", nil)
}

func (h *ReviewHandler) GetProductReviews(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.reviewService.GetProductReviews(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Product reviews retrieved successfully", summary)
}

func (h *ReviewHandler) GetShopReviews(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.reviewService.GetShopReviews(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Shop reviews retrieved successfully", summary)
}

func (h *ReviewHandler) GetAllReviews(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		filter dto.ReviewFilter
		opts   pagination.Options
	)
	if err := bindQuery(c, &filter, &opts); err != nil {
		return err
	}

	result, err := h.reviewService.GetAllReviews(ctx, filter, opts)
	if err != nil {
		return err
	}

	return okPage(c, "Reviews retrieved successfully", result)
}
