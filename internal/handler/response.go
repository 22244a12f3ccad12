package handler

import (
	"net/http"

	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/pagination"

	"github.com/labstack/echo/v4"
)

type validatable interface {
	Validate() error
}

func ok(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, &dto.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func okPage[T any](c echo.Context, message string, result *pagination.Result[T]) error {
	return c.JSON(http.StatusOK, &dto.Response{
		Success: true,
		Message: message,
		Meta:    result.Meta,
		Data:    result.Data,
	})
}

// bindBody binds the request and runs its required-field checks.
func bindBody(c echo.Context, req validatable) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	return req.Validate()
}

func bindQuery(c echo.Context, dst ...interface{}) error {
	binder := &echo.DefaultBinder{}
	for _, d := range dst {
		if err := binder.BindQueryParams(c, d); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid query params")
		}
	}
	return nil
}

func principal(c echo.Context) (model.Principal, error) {
	return middleware.PrincipalFrom(c)
}
