package models

import "time"

// Follow represents a directed follow edge: follower follows following.
// The pair is unique; (A,B) and (B,A) are independent edges.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  *User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following *User `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}

// CreateFollowRequest defines the request body for following a user
type CreateFollowRequest struct {
	FollowingID uint `json:"following_id" validate:"required"`
}

// FollowStats carries follower/following counts for a user plus the
// viewer's relationship to them.
type FollowStats struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

// FollowedUser is a list entry for followers/following/suggested pages.
type FollowedUser struct {
	UserSummary
	FollowedAt *time.Time `json:"followed_at,omitempty"`
}
