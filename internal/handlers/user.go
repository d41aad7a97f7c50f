package handlers

import (
	"errors"
	"net/http"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/repositories"
	"github.com/kynetiq/social-engine/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler handles identity lookup HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/users", h.CreateUser)
	g.GET("/users/:id", h.GetUser)
}

// CreateUser registers a profile for the authenticated identity
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		Role:      models.RoleUser,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "email or username already taken")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, user.ToSummary())
}

// GetUser returns the public summary of a user
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseUserIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, services.ErrUserNotFound.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user.ToSummary())
}
