package handlers

import (
	"net/http"
	"strconv"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles like ledger HTTP requests
type LikeHandler struct {
	likeService *services.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, admin *echo.Group) {
	g.POST("/likes", h.LikePostFromBody)
	g.POST("/likes/toggle/:post_id", h.ToggleLike)
	g.POST("/likes/:post_id", h.LikePost)
	g.DELETE("/likes/:post_id", h.UnlikePost)
	g.GET("/likes/count/:post_id", h.GetLikeCount)
	g.GET("/likes/post/:post_id", h.GetLikesByPost)
	g.GET("/likes/user/:id", h.GetLikesByUser)
	g.GET("/likes/my-likes", h.GetMyLikes)
	g.DELETE("/likes/id/:id", h.RemoveLikeByID)

	admin.GET("/likes", h.ListAllLikes)
}

// LikePostFromBody likes the post named in the request body
func (h *LikeHandler) LikePostFromBody(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateLikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return h.createLike(c, req.PostID, currentUserID)
}

// LikePost likes the post named in the path
func (h *LikeHandler) LikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return h.createLike(c, c.Param("post_id"), currentUserID)
}

func (h *LikeHandler) createLike(c echo.Context, postID string, userID uint) error {
	like, err := h.likeService.Like(c.Request().Context(), postID, userID)
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, like)
}

// UnlikePost removes the authenticated user's like from a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.likeService.Unlike(c.Request().Context(), c.Param("post_id"), currentUserID); err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike likes the post when not liked, unlikes otherwise, returning
// the recomputed counter either way
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.likeService.ToggleLike(c.Request().Context(), c.Param("post_id"), currentUserID)
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, count)
}

// GetLikeCount returns the live like count for a post and whether the
// authenticated viewer liked it
func (h *LikeHandler) GetLikeCount(c echo.Context) error {
	count, err := h.likeService.CountFor(c.Request().Context(), c.Param("post_id"), getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, count)
}

// GetLikesByPost lists all likes on a post, newest first
func (h *LikeHandler) GetLikesByPost(c echo.Context) error {
	likes, err := h.likeService.ListByPost(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, likes)
}

// GetLikesByUser lists all likes placed by a user, newest first
func (h *LikeHandler) GetLikesByUser(c echo.Context) error {
	userID, err := parseUserIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	likes, err := h.likeService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, likes)
}

// GetMyLikes lists the authenticated user's likes
func (h *LikeHandler) GetMyLikes(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	likes, err := h.likeService.ListByUser(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, likes)
}

// ListAllLikes returns every like fact. Admin only.
func (h *LikeHandler) ListAllLikes(c echo.Context) error {
	likes, err := h.likeService.ListAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, likes)
}

// RemoveLikeByID deletes a like by row id. Owner or admin only.
func (h *LikeHandler) RemoveLikeByID(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid like ID")
	}

	if err := h.likeService.RemoveByID(c.Request().Context(), uint(id), currentUserID, getRoleFromContext(c)); err != nil {
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
