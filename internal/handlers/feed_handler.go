package handlers

import (
	"net/http"

	"github.com/kynetiq/social-engine/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns one page of the authenticated user's personal feed:
// their own posts plus posts by everyone they follow
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	feed, err := h.feedService.PersonalFeed(c.Request().Context(), currentUserID, paginationFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, feed)
}
