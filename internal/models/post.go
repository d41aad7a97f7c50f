package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. LikesCount is a
// denormalized counter owned by the like ledger; the fact table in Postgres
// is the source of truth.
type Post struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID   uint               `json:"author_id" bson:"author_id"`
	Content    string             `json:"content" bson:"content"`
	ImageURL   string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	LikesCount int64              `json:"likes_count" bson:"likes_count"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=280"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// FeedItem is a post annotated for a specific viewer.
type FeedItem struct {
	Post
	Author        UserSummary `json:"author"`
	LikeCount     int64       `json:"like_count"`
	LikedByViewer bool        `json:"liked_by_viewer"`
}

// Feed is one page of a viewer's personal feed.
type Feed struct {
	Items   []FeedItem `json:"items"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	HasMore bool       `json:"has_more"`
}
