package services

import (
	"context"
	"errors"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/repositories"
	"github.com/kynetiq/social-engine/pkg/cache"
	"gorm.io/gorm"
)

// FollowService owns the directed follow graph: edge creation and removal,
// toggle semantics, counts, paginated lists and follow suggestions.
type FollowService struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	counters         *cache.CounterCache
}

// NewFollowService creates a new FollowService
func NewFollowService(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, counters *cache.CounterCache) *FollowService {
	return &FollowService{
		followRepository: followRepo,
		userRepository:   userRepo,
		counters:         counters,
	}
}

// Follow creates the edge follower -> following. The unique index over the
// pair is the duplicate guard, so concurrent calls resolve to exactly one
// created edge and the rest observe ErrAlreadyFollowing.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uint) (*models.Follow, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}

	exists, err := s.userRepository.UserExists(followingID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	follow := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	inserted, err := s.followRepository.CreateFollow(follow)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrAlreadyFollowing
	}

	s.invalidateEdgeCounters(ctx, followerID, followingID)
	return follow, nil
}

// Unfollow removes the edge follower -> following
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uint) error {
	deleted, err := s.followRepository.DeleteFollow(followerID, followingID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFollowing
	}

	s.invalidateEdgeCounters(ctx, followerID, followingID)
	return nil
}

// ToggleFollow removes the edge when it exists and creates it otherwise,
// returning the resulting state. A toggle that races another creator of
// the same edge converges on "following".
func (s *FollowService) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	deleted, err := s.followRepository.DeleteFollow(followerID, followingID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidateEdgeCounters(ctx, followerID, followingID)
		return false, nil
	}

	_, err = s.Follow(ctx, followerID, followingID)
	if errors.Is(err, ErrAlreadyFollowing) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Stats returns follower/following counts for subjectID. When viewerID is
// non-zero and differs from the subject, IsFollowing reports whether the
// viewer follows them.
func (s *FollowService) Stats(ctx context.Context, subjectID, viewerID uint) (*models.FollowStats, error) {
	followersKey, followingKey := cache.UserCounterKeys(subjectID)

	followersCount, err := s.countThroughCache(ctx, followersKey, subjectID, s.followRepository.GetFollowersCount)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.countThroughCache(ctx, followingKey, subjectID, s.followRepository.GetFollowingCount)
	if err != nil {
		return nil, err
	}

	stats := &models.FollowStats{
		FollowersCount: followersCount,
		FollowingCount: followingCount,
	}
	if viewerID != 0 && viewerID != subjectID {
		isFollowing, err := s.followRepository.IsFollowing(viewerID, subjectID)
		if err != nil {
			return nil, err
		}
		stats.IsFollowing = isFollowing
	}
	return stats, nil
}

// IsFollowing reports whether follower currently follows following
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.followRepository.IsFollowing(followerID, followingID)
}

// ListFollowers returns one page of a user's followers, newest first
func (s *FollowService) ListFollowers(ctx context.Context, userID uint, p models.Pagination) (*models.UserPage, error) {
	p.Normalize()
	follows, total, err := s.followRepository.ListFollowers(userID, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	return buildUserPage(follows, total, p, func(f models.Follow) *models.User { return f.Follower }), nil
}

// ListFollowing returns one page of the users someone follows, newest first
func (s *FollowService) ListFollowing(ctx context.Context, userID uint, p models.Pagination) (*models.UserPage, error) {
	p.Normalize()
	follows, total, err := s.followRepository.ListFollowing(userID, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	return buildUserPage(follows, total, p, func(f models.Follow) *models.User { return f.Following }), nil
}

// SuggestedUsers returns follow candidates for the viewer: everyone except
// the viewer and the full set of users they already follow.
func (s *FollowService) SuggestedUsers(ctx context.Context, viewerID uint, p models.Pagination) (*models.UserPage, error) {
	p.Normalize()

	followingIDs, err := s.followRepository.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepository.ListSuggested(viewerID, followingIDs, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepository.CountSuggested(viewerID, followingIDs)
	if err != nil {
		return nil, err
	}

	page := &models.UserPage{
		Users: make([]models.FollowedUser, len(users)),
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}
	for i, user := range users {
		page.Users[i] = models.FollowedUser{UserSummary: user.ToSummary()}
	}
	return page, nil
}

// ListAll returns every follow edge. Admin only.
func (s *FollowService) ListAll(ctx context.Context) ([]models.Follow, error) {
	return s.followRepository.ListAllFollows()
}

// RemoveByID deletes a follow edge by its row id. Admin only.
func (s *FollowService) RemoveByID(ctx context.Context, id uint) error {
	follow, err := s.followRepository.GetFollowByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFollowNotFound
		}
		return err
	}

	deleted, err := s.followRepository.DeleteFollowByID(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFollowNotFound
	}

	s.invalidateEdgeCounters(ctx, follow.FollowerID, follow.FollowingID)
	return nil
}

func (s *FollowService) countThroughCache(ctx context.Context, key string, userID uint, fetch func(uint) (int64, error)) (int64, error) {
	if count, ok := s.counters.GetInt64(ctx, key); ok {
		return count, nil
	}
	count, err := fetch(userID)
	if err != nil {
		return 0, err
	}
	s.counters.SetInt64(ctx, key, count)
	return count, nil
}

// invalidateEdgeCounters drops the cached counters an edge mutation moves:
// the follower's following count and the followed user's followers count.
func (s *FollowService) invalidateEdgeCounters(ctx context.Context, followerID, followingID uint) {
	followersKey, _ := cache.UserCounterKeys(followingID)
	_, followingKey := cache.UserCounterKeys(followerID)
	s.counters.Invalidate(ctx, followersKey, followingKey)
}

func buildUserPage(follows []models.Follow, total int64, p models.Pagination, pick func(models.Follow) *models.User) *models.UserPage {
	page := &models.UserPage{
		Users: make([]models.FollowedUser, 0, len(follows)),
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}
	for _, follow := range follows {
		user := pick(follow)
		if user == nil {
			continue
		}
		followedAt := follow.CreatedAt
		page.Users = append(page.Users, models.FollowedUser{
			UserSummary: user.ToSummary(),
			FollowedAt:  &followedAt,
		})
	}
	return page
}
