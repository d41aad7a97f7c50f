package handlers

import (
	"errors"
	"net/http"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/repositories"
	"github.com/kynetiq/social-engine/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post authoring and lookup HTTP requests. Posts live
// in the post store; like/follow state is attached by the feed service.
type PostHandler struct {
	postRepository repositories.PostRepository
	feedService    *services.FeedService
	likeService    *services.LikeService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, feedService *services.FeedService, likeService *services.LikeService) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		feedService:    feedService,
		likeService:    likeService,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/user/:id", h.GetPostsByUser)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a post authored by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		AuthorID: currentUserID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost returns a single post annotated for the authenticated viewer
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, services.ErrPostNotFound.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items, err := h.feedService.AnnotateForViewer(c.Request().Context(), []models.Post{*post}, getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items[0])
}

// DeletePost removes a post and its like facts. Author or admin only.
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")
	authorID, err := h.postRepository.GetAuthorID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, services.ErrPostNotFound.Error())
		}
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	if authorID != currentUserID && getRoleFromContext(c) != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author or an admin can delete a post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, services.ErrPostNotFound.Error())
		}
		return echo.NewHTTPError(services.HTTPStatus(err), err.Error())
	}
	if err := h.likeService.RemoveForPost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPostsByUser lists a user's posts annotated for the authenticated viewer
func (h *PostHandler) GetPostsByUser(c echo.Context) error {
	authorID, err := parseUserIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	p := paginationFromQuery(c)
	posts, err := h.postRepository.GetPostsByAuthor(c.Request().Context(), authorID, int64(p.Offset()), int64(p.Limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items, err := h.feedService.AnnotateForViewer(c.Request().Context(), posts, getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": items, "page": p.Page, "limit": p.Limit})
}
