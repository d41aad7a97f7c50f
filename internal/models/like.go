package models

import "time"

// Like records that a user liked a post. One row per (post, user) pair.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;index;uniqueIndex:idx_post_user"` // MongoDB ObjectID as string
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_post_user"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// CreateLikeRequest defines the request body for liking a post
type CreateLikeRequest struct {
	PostID string `json:"post_id" validate:"required"`
}

// LikeCount is the live counter for a post plus the viewer's like state.
type LikeCount struct {
	PostID      string `json:"post_id"`
	LikeCount   int64  `json:"like_count"`
	LikedByUser bool   `json:"liked_by_user"`
}

// LikeDetail is a like resolved to its user and post for list endpoints.
// Post is nil when the post has been deleted since the like was placed.
type LikeDetail struct {
	ID        uint        `json:"id"`
	PostID    string      `json:"post_id"`
	User      UserSummary `json:"user"`
	Post      *Post       `json:"post,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
