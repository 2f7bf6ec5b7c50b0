package handler

import (
	"net/http"

	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/middleware"
	"jansan-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.orderService.CreateOrder(ctx, middleware.UserID(c), &req)
	if err != nil {
		return err
	}

	return respondCreated(c, "Order placed successfully", order)
}

func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit := pageParams(c)
	result, err := h.orderService.GetMyOrders(ctx, middleware.UserID(c), c.QueryParam("status"), page, limit)
	if err != nil {
		return err
	}

	return respondOK(c, "Orders fetched", result)
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit := pageParams(c)
	result, err := h.orderService.GetAllOrders(ctx, c.QueryParam("userId"), c.QueryParam("status"), page, limit)
	if err != nil {
		return err
	}

	return respondOK(c, "Orders fetched", result)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetOrderByID(ctx, middleware.UserID(c), middleware.IsAdmin(c), c.Param("orderId"))
	if err != nil {
		return err
	}

	return respondOK(c, "Order fetched", order)
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.orderService.UpdateOrderStatus(ctx, c.Param("orderId"), &req)
	if err != nil {
		return err
	}

	return respondOK(c, "Order status updated", order)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.CancelOrder(ctx, middleware.UserID(c), c.Param("orderId"))
	if err != nil {
		return err
	}

	return respondOK(c, "Order cancelled", order)
}
