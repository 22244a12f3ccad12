package handler

import (
	"net/http"

	"marketplace-backend/internal/dto"
	"marketplace-backend/internal/pagination"
	"marketplace-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCategoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	category, err := h.catalogService.CreateCategory(ctx, &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Category created successfully", category)
}

func (h *CatalogHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.catalogService.GetCategories(ctx)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *CatalogHandler) CreateShop(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.CreateShopRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	shop, err := h.catalogService.CreateShop(ctx, user, &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Shop created successfully", shop)
}

func (h *CatalogHandler) GetShops(c echo.Context) error {
	ctx := c.Request().Context()

	var opts pagination.Options
	if err := bindQuery(c, &opts); err != nil {
		return err
	}

	result, err := h.catalogService.GetShops(ctx, c.QueryParam("searchTerm"), opts)
	if err != nil {
		return err
	}

	return okPage(c, "Shops retrieved successfully", result)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.CreateProductRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	product, err := h.catalogService.CreateProduct(ctx, user, &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Product created successfully", product)
}

func (h *CatalogHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		query dto.ProductQuery
		opts  pagination.Options
	)
	if err := bindQuery(c, &query, &opts); err != nil {
		return err
	}

	result, err := h.catalogService.GetProducts(ctx, query, opts)
	if err != nil {
		return err
	}

	return okPage(c, "Products retrieved successfully", result)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProductRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	product, err := h.catalogService.UpdateProduct(ctx, user, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Product updated successfully", product)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteProduct(ctx, user, c.Param("id")); err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Product deleted successfully", nil)
}
