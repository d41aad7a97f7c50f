package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/repositories"
	"github.com/kynetiq/social-engine/internal/services"
	"github.com/kynetiq/social-engine/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFollowHandler(t *testing.T) (*echo.Echo, *FollowHandler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Like{}))

	svc := services.NewFollowService(
		repositories.NewPostgresFollowRepository(db),
		repositories.NewPostgresUserRepository(db),
		nil,
	)

	e := echo.New()
	e.Validator = validators.NewValidator()
	return e, NewFollowHandler(svc), db
}

func createHandlerTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Email: username + "@example.com", Username: username, Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

func authenticate(c echo.Context, user *models.User) {
	c.Set("user", &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
}

func TestFollowUserEndpoint(t *testing.T) {
	e, h, db := setupFollowHandler(t)
	alice := createHandlerTestUser(t, db, "alice")
	bob := createHandlerTestUser(t, db, "bob")

	body := `{"following_id": ` + strconv.Itoa(int(bob.ID)) + `}`
	req := httptest.NewRequest(http.MethodPost, "/follows", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, alice)

	require.NoError(t, h.FollowUser(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var follow models.Follow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &follow))
	assert.Equal(t, alice.ID, follow.FollowerID)
	assert.Equal(t, bob.ID, follow.FollowingID)
}

func TestFollowUserEndpointUnauthenticated(t *testing.T) {
	e, h, _ := setupFollowHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/follows", strings.NewReader(`{"following_id": 1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.FollowUser(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestFollowUserEndpointSelfFollow(t *testing.T) {
	e, h, db := setupFollowHandler(t)
	alice := createHandlerTestUser(t, db, "alice")

	body := `{"following_id": ` + strconv.Itoa(int(alice.ID)) + `}`
	req := httptest.NewRequest(http.MethodPost, "/follows", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, alice)

	err := h.FollowUser(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestFollowUserEndpointDuplicate(t *testing.T) {
	e, h, db := setupFollowHandler(t)
	alice := createHandlerTestUser(t, db, "alice")
	bob := createHandlerTestUser(t, db, "bob")

	body := `{"following_id": ` + strconv.Itoa(int(bob.ID)) + `}`
	for i, wantErr := range []bool{false, true} {
		req := httptest.NewRequest(http.MethodPost, "/follows", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		authenticate(c, alice)

		err := h.FollowUser(c)
		if !wantErr {
			require.NoError(t, err, "request %d", i)
			continue
		}
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
	}
}

func TestGetStatsEndpoint(t *testing.T) {
	e, h, db := setupFollowHandler(t)
	alice := createHandlerTestUser(t, db, "alice")
	bob := createHandlerTestUser(t, db, "bob")

	follows := repositories.NewPostgresFollowRepository(db)
	_, err := follows.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/follows/stats/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(bob.ID)))
	authenticate(c, alice)

	require.NoError(t, h.GetStats(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats models.FollowStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.FollowersCount)
	assert.True(t, stats.IsFollowing)
}

func TestGetFollowersEndpointPagination(t *testing.T) {
	e, h, db := setupFollowHandler(t)
	subject := createHandlerTestUser(t, db, "subject")
	follower := createHandlerTestUser(t, db, "follower")

	follows := repositories.NewPostgresFollowRepository(db)
	_, err := follows.CreateFollow(&models.Follow{FollowerID: follower.ID, FollowingID: subject.ID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/?page=1&limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/follows/followers/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(subject.ID)))

	require.NoError(t, h.GetFollowers(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var page models.UserPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Users, 1)
	assert.Equal(t, follower.ID, page.Users[0].ID)
	assert.Equal(t, 10, page.Limit)
}

func TestToggleFollowEndpoint(t *testing.T) {
	e, h, db := setupFollowHandler(t)
	alice := createHandlerTestUser(t, db, "alice")
	bob := createHandlerTestUser(t, db, "bob")

	toggle := func() map[string]bool {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/follows/toggle/:id")
		c.SetParamNames("id")
		c.SetParamValues(strconv.Itoa(int(bob.ID)))
		authenticate(c, alice)

		require.NoError(t, h.ToggleFollow(c))
		var out map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	assert.True(t, toggle()["is_following"])
	assert.False(t, toggle()["is_following"])
}
