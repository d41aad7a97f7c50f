package handlers

import (
	"net/http"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow graph HTTP requests
type FollowHandler struct {
	followService *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followService *services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, admin *echo.Group) {
	g.POST("/follows", h.FollowUser)
	g.POST("/follows/toggle/:id", h.ToggleFollow)
	g.DELETE("/follows/:id", h.UnfollowUser)
	g.GET("/follows/stats/:id", h.GetStats)
	g.GET("/follows/followers/:id", h.GetFollowers)
	g.GET("/follows/following/:id", h.GetFollowing)
	g.GET("/follows/suggested", h.GetSuggestedUsers)
	g.GET("/follows/check/:id", h.CheckFollowing)

	admin.GET("/follows", h.ListAllFollows)
	admin.DELETE("/follows/admin/:id", h.RemoveFollowByID)
}

// FollowUser creates a follow edge from the authenticated user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateFollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	follow, err := h.followService.Follow(c.Request().Context(), currentUserID, req.FollowingID)
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, follow)
}

// ToggleFollow follows the target when not following, unfollows otherwise
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := parseUserIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	isFollowing, err := h.followService.ToggleFollow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"is_following": isFollowing})
}

// UnfollowUser removes the authenticated user's follow edge to the target
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := parseUserIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.followService.Unfollow(c.Request().Context(), currentUserID, targetID); err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetStats returns follower/following counts for a user plus the
// authenticated viewer's relationship to them
func (h *FollowHandler) GetStats(c echo.Context) error {
	subjectID, err := parseUserIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	stats, err := h.followService.Stats(c.Request().Context(), subjectID, getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

// GetFollowers lists a user's followers, newest first
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	subjectID, err := parseUserIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	page, err := h.followService.ListFollowers(c.Request().Context(), subjectID, paginationFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, page)
}

// GetFollowing lists the users someone follows, newest first
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	subjectID, err := parseUserIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	page, err := h.followService.ListFollowing(c.Request().Context(), subjectID, paginationFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, page)
}

// GetSuggestedUsers lists users the authenticated viewer does not follow yet
func (h *FollowHandler) GetSuggestedUsers(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, err := h.followService.SuggestedUsers(c.Request().Context(), currentUserID, paginationFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, page)
}

// CheckFollowing reports whether the authenticated user follows the target
func (h *FollowHandler) CheckFollowing(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := parseUserIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	isFollowing, err := h.followService.IsFollowing(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"is_following": isFollowing})
}

// ListAllFollows returns every follow edge. Admin only.
func (h *FollowHandler) ListAllFollows(c echo.Context) error {
	follows, err := h.followService.ListAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, follows)
}

// RemoveFollowByID deletes a follow edge by row id. Admin only.
func (h *FollowHandler) RemoveFollowByID(c echo.Context) error {
	id, err := parseUserIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid follow ID")
	}

	if err := h.followService.RemoveByID(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
