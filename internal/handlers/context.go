package handlers

import (
	"strconv"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user's ID from the JWT
// claims set by the auth middleware. Returns 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// getRoleFromContext extracts the authenticated user's role from the JWT claims
func getRoleFromContext(c echo.Context) string {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return ""
	}
	return claims.Role
}

// parseUserIDParam parses a :id style path parameter into a user ID
func parseUserIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// paginationFromQuery reads page/limit query parameters, applying the
// 1/20 defaults for omitted or malformed values.
func paginationFromQuery(c echo.Context) models.Pagination {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	p := models.Pagination{Page: page, Limit: limit}
	p.Normalize()
	return p
}
