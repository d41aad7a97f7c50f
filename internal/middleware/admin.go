package middleware

import (
	"net/http"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/labstack/echo/v4"
)

// AdminOnly rejects requests whose JWT claims do not carry the admin role.
// Must run after JWTAuthMiddleware.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*models.JwtCustomClaims)
			if !ok || claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if claims.Role != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}
