package handler

import (
	"net/http"
	"strconv"

	"jansan-commerce/internal/dto"

	"github.com/labstack/echo/v4"
)

func respondOK(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondCreated(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, dto.Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// pageParams reads 1-based ?page and ?limit query params, falling back
// to page 1 / limit 10.
func pageParams(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}
