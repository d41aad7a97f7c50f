package services

import (
	"errors"
	"net/http"

	"github.com/kynetiq/social-engine/internal/repositories"
)

// Sentinel errors for the social graph and engagement core. Handlers map
// them to HTTP statuses with HTTPStatus; services return them wrapped or
// as-is so callers can branch with errors.Is.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrFollowNotFound   = errors.New("follow relationship not found")
	ErrLikeNotFound     = errors.New("like not found")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrAlreadyLiked     = errors.New("post already liked by this user")
	ErrNotLiked         = errors.New("post not liked by this user")
	ErrNotLikeOwner     = errors.New("only the like owner or an admin can remove it")
)

var errorStatus = map[error]int{
	repositories.ErrInvalidPostID: http.StatusBadRequest,

	ErrUserNotFound:     http.StatusNotFound,
	ErrPostNotFound:     http.StatusNotFound,
	ErrFollowNotFound:   http.StatusNotFound,
	ErrLikeNotFound:     http.StatusNotFound,
	ErrNotFollowing:     http.StatusNotFound,
	ErrNotLiked:         http.StatusNotFound,
	ErrSelfFollow:       http.StatusForbidden,
	ErrNotLikeOwner:     http.StatusForbidden,
	ErrAlreadyFollowing: http.StatusConflict,
	ErrAlreadyLiked:     http.StatusConflict,
}

// HTTPStatus maps a service error to its HTTP status code, defaulting to
// 500 for anything outside the taxonomy.
func HTTPStatus(err error) int {
	for sentinel, status := range errorStatus {
		if errors.Is(err, sentinel) {
			return status
		}
	}
	return http.StatusInternalServerError
}
