package handler

import (
	"net/http"

	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type NewsletterHandler struct {
	newsletterService service.NewsletterService
}

func NewNewsletterHandler(newsletterService service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterService: newsletterService,
	}
}

func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SubscribeNewsletterRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	subscriber, err := h.newsletterService.Subscribe(ctx, req.Email)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Subscribed to newsletter successfully", subscriber)
}

func (h *NewsletterHandler) GetSubscribers(c echo.Context) error {
	ctx := c.Request().Context()

	subscribers, err := h.newsletterService.GetSubscribers(ctx)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Newsletter subscribers retrieved successfully", subscribers)
}
