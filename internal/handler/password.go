package handler

import (
	"net/http"

	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

type PasswordHandler struct {
	passwordService service.PasswordService
}

func NewPasswordHandler(passwordService service.PasswordService) *PasswordHandler {
	return &PasswordHandler{
		passwordService: passwordService,
	}
}

func (h *PasswordHandler) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	message, err := h.passwordService.ForgotPassword(ctx, req.Email)
	if err != nil {
		return err
	}

	return respondOK(c, message, nil)
}

func (h *PasswordHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.passwordService.ResetPassword(ctx, req.Email, req.OTP, req.NewPassword); err != nil {
		return err
	}

	return respondOK(c, "Password reset successfully", nil)
}
