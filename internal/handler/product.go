package handler

import (
	"net/http"

	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.productService.CreateProduct(ctx, &req)
	if err != nil {
		return err
	}

	return respondCreated(c, "Product created", product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.productService.GetProductByID(ctx, c.Param("productId"))
	if err != nil {
		return err
	}

	return respondOK(c, "Product fetched", product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.ListProducts(ctx, c.QueryParam("type"))
	if err != nil {
		return err
	}

	return respondOK(c, "Products fetched", products)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.productService.UpdateProduct(ctx, c.Param("productId"), &req)
	if err != nil {
		return err
	}

	return respondOK(c, "Product updated", product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.productService.DeleteProduct(ctx, c.Param("productId")); err != nil {
		return err
	}

	return respondOK(c, "Product deleted", nil)
}
