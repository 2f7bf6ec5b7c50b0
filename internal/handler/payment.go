package handler

import (
	"net/http"

	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/middleware"
	"jansan-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreatePaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.paymentService.CreatePaymentIntent(ctx, middleware.UserID(c), &req)
	if err != nil {
		return err
	}

	return respondOK(c, "Payment intent created", result)
}

func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	payment, err := h.paymentService.ConfirmPayment(ctx, &req)
	if err != nil {
		return err
	}

	return respondOK(c, "Payment confirmed", payment)
}

func (h *PaymentHandler) ProcessRefund(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RefundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.paymentService.ProcessRefund(ctx, &req)
	if err != nil {
		return err
	}

	return respondOK(c, "Refund processed", result)
}

func (h *PaymentHandler) GetMyPayments(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit := pageParams(c)
	result, err := h.paymentService.GetUserPayments(ctx, middleware.UserID(c), c.QueryParam("status"), page, limit)
	if err != nil {
		return err
	}

	return respondOK(c, "Payments fetched", result)
}

func (h *PaymentHandler) GetAllPayments(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit := pageParams(c)
	result, err := h.paymentService.GetAllPayments(ctx, c.QueryParam("userId"), c.QueryParam("status"), page, limit)
	if err != nil {
		return err
	}

	return respondOK(c, "Payments fetched", result)
}

func (h *PaymentHandler) GetUserPayments(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit := pageParams(c)
	result, err := h.paymentService.GetUserPayments(ctx, c.Param("userId"), c.QueryParam("status"), page, limit)
	if err != nil {
		return err
	}

	return respondOK(c, "Payments fetched", result)
}

func (h *PaymentHandler) GetPaymentByIntent(c echo.Context) error {
	ctx := c.Request().Context()

	payment, err := h.paymentService.GetPaymentByIntentID(ctx, middleware.UserID(c), middleware.IsAdmin(c), c.Param("id"))
	if err != nil {
		return err
	}

	return respondOK(c, "Payment fetched", payment)
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	ctx := c.Request().Context()

	payment, err := h.paymentService.GetPaymentByID(ctx, middleware.UserID(c), middleware.IsAdmin(c), c.Param("paymentId"))
	if err != nil {
		return err
	}

	return respondOK(c, "Payment fetched", payment)
}
