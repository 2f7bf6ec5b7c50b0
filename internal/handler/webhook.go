package handler

import (
	"io"
	"net/http"

	"jansan-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// PaymentGatewayWebhook verifies the raw body against the signature
// header and acknowledges with 200 whenever the event is authentic,
// even if processing it failed. Anything else makes the gateway retry
// an event we can never process.
func (h *WebhookHandler) PaymentGatewayWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	if err := h.webhookService.HandleEvent(ctx, body, c.Request().Header.Get("Gateway-Signature")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
