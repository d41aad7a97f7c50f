package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	// SQLite serializes writers; a single connection keeps concurrent
	// test goroutines off its busy errors.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Like{}); err != nil {
		t.Fatalf("Failed to migrate models: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    username + "@example.com",
		Username: username,
		Role:     models.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// fakePostStore is an in-memory stand-in for the MongoDB post store.
type fakePostStore struct {
	mu    sync.Mutex
	posts map[string]*models.Post

	// failSetLikesCount simulates a post store outage for counter writes.
	failSetLikesCount bool
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[string]*models.Post)}
}

func (s *fakePostStore) addPost(authorID uint, content string, createdAt time.Time) *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	s.posts[post.ID.Hex()] = post
	return post
}

func (s *fakePostStore) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	stored := *post
	s.posts[post.ID.Hex()] = &stored
	return nil
}

// checkPostID mirrors the real store's ObjectID validation.
func checkPostID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %v", repositories.ErrInvalidPostID, err)
	}
	return nil
}

func (s *fakePostStore) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if err := checkPostID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	copied := *post
	return &copied, nil
}

func (s *fakePostStore) PostExists(ctx context.Context, id string) (bool, error) {
	if err := checkPostID(id); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.posts[id]
	return ok, nil
}

func (s *fakePostStore) GetAuthorID(ctx context.Context, id string) (uint, error) {
	if err := checkPostID(id); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return 0, repositories.ErrPostNotFound
	}
	return post.AuthorID, nil
}

func (s *fakePostStore) SetLikesCount(ctx context.Context, postID string, count int64) error {
	if err := checkPostID(postID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSetLikesCount {
		return errors.New("post store unavailable")
	}
	post, ok := s.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.LikesCount = count
	return nil
}

func (s *fakePostStore) GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if post, ok := s.posts[id]; ok {
			posts = append(posts, *post)
		}
	}
	return posts, nil
}

func (s *fakePostStore) DeletePost(ctx context.Context, id string) error {
	if err := checkPostID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *fakePostStore) GetPostsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	posts, _, err := s.ListByAuthorIDs(ctx, []uint{authorID}, skip, limit)
	return posts, err
}

func (s *fakePostStore) ListByAuthorIDs(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	authors := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}

	var matched []models.Post
	for _, post := range s.posts {
		if authors[post.AuthorID] {
			matched = append(matched, *post)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if skip >= total {
		return []models.Post{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (s *fakePostStore) likesCount(postID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post, ok := s.posts[postID]; ok {
		return post.LikesCount
	}
	return -1
}
