package middleware

import (
	"net/http"
	"strings"

	"jansan-commerce/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates a "Bearer <token>" Authorization header and stores
// the caller's id and role on the echo context.
func JWTAuth(cfg config.JWT) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed token")
			}

			token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(cfg.Secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			id, _ := claims["id"].(string)
			role, _ := claims["role"].(string)
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			c.Set("user_id", id)
			c.Set("user_role", role)
			return next(c)
		}
	}
}

// RequireRole gates a route group to the given role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Get("user_role") != role {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id set by JWTAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

// IsAdmin reports whether the authenticated user has the admin role.
func IsAdmin(c echo.Context) bool {
	return c.Get("user_role") == "admin"
}
