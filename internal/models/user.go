package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Roles recognized by the authorization middleware.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Username  string    `json:"username" gorm:"uniqueIndex"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      string    `json:"role" gorm:"default:user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserRequest defines the request body for registering a profile
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=30"`
	Bio       string `json:"bio,omitempty" validate:"max=160"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// UserSummary is the public identity shape embedded in follow lists,
// like lists and feed items.
type UserSummary struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToSummary converts a User to its public summary
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
