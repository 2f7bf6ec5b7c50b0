package handler

import (
	"net/http"
	"strconv"

	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/middleware"
	"jansan-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func cartItemID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}
	return uint(id), nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.GetCart(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return respondOK(c, "Cart fetched", cart)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart, err := h.cartService.AddToCart(ctx, middleware.UserID(c), &req)
	if err != nil {
		return err
	}

	return respondOK(c, "Item added to cart", cart)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := cartItemID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart, err := h.cartService.UpdateCartItem(ctx, middleware.UserID(c), itemID, req.Quantity)
	if err != nil {
		return err
	}

	return respondOK(c, "Cart item updated", cart)
}

func (h *CartHandler) RemoveCartItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := cartItemID(c)
	if err != nil {
		return err
	}

	cart, err := h.cartService.RemoveCartItem(ctx, middleware.UserID(c), itemID)
	if err != nil {
		return err
	}

	return respondOK(c, "Cart item removed", cart)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cartService.ClearCart(ctx, middleware.UserID(c)); err != nil {
		return err
	}

	return respondOK(c, "Cart cleared", nil)
}
