package handler

import (
	"net/http"

	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/middleware"
	"jansan-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		return err
	}

	return respondCreated(c, "User registered successfully", user)
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.userService.Login(ctx, &req)
	if err != nil {
		return err
	}

	return respondOK(c, "Login successful", result)
}

func (h *UserHandler) GoogleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.userService.GoogleLogin(ctx, &req)
	if err != nil {
		return err
	}

	return respondOK(c, "Google login successful", result)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.GetProfile(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return respondOK(c, "Profile fetched", user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.userService.UpdateProfile(ctx, middleware.UserID(c), &req)
	if err != nil {
		return err
	}

	return respondOK(c, "Profile updated", user)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.userService.ListUsers(ctx)
	if err != nil {
		return err
	}

	return respondOK(c, "Users fetched", users)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	deleted, err := h.userService.DeleteUser(ctx, middleware.UserID(c), c.Param("userId"))
	if err != nil {
		return err
	}

	return respondOK(c, "User deleted", deleted)
}
