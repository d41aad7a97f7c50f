package services

import (
	"context"
	"errors"
	"log"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/repositories"
	"github.com/kynetiq/social-engine/pkg/cache"
	"gorm.io/gorm"
)

// LikeService owns the like ledger: one fact per (post, user) pair, with
// the post's denormalized counter recomputed from the fact table after
// every mutation. The counter is never incremented in place.
type LikeService struct {
	likeRepository repositories.LikeRepository
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	counters       *cache.CounterCache
}

// NewLikeService creates a new LikeService
func NewLikeService(likeRepo repositories.LikeRepository, userRepo repositories.UserRepository, postRepo repositories.PostRepository, counters *cache.CounterCache) *LikeService {
	return &LikeService{
		likeRepository: likeRepo,
		userRepository: userRepo,
		postRepository: postRepo,
		counters:       counters,
	}
}

// Like records that userID liked postID. Duplicate attempts, concurrent
// included, observe ErrAlreadyLiked via the unique index over the pair.
func (s *LikeService) Like(ctx context.Context, postID string, userID uint) (*models.Like, error) {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.ensureUserExists(userID); err != nil {
		return nil, err
	}

	like := &models.Like{
		PostID: postID,
		UserID: userID,
	}
	inserted, err := s.likeRepository.CreateLike(like)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrAlreadyLiked
	}

	s.refreshPostCounter(ctx, postID)
	return like, nil
}

// Unlike removes userID's like from postID
func (s *LikeService) Unlike(ctx context.Context, postID string, userID uint) error {
	deleted, err := s.likeRepository.DeleteLike(postID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotLiked
	}

	s.refreshPostCounter(ctx, postID)
	return nil
}

// ToggleLike removes the like when it exists and creates it otherwise,
// always returning the freshly recomputed counter.
func (s *LikeService) ToggleLike(ctx context.Context, postID string, userID uint) (*models.LikeCount, error) {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return nil, err
	}

	deleted, err := s.likeRepository.DeleteLike(postID, userID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		if err := s.ensureUserExists(userID); err != nil {
			return nil, err
		}
		like := &models.Like{PostID: postID, UserID: userID}
		// A lost race against another creator still converges on "liked".
		if _, err := s.likeRepository.CreateLike(like); err != nil {
			return nil, err
		}
	}

	s.refreshPostCounter(ctx, postID)
	return s.CountFor(ctx, postID, userID)
}

// CountFor returns the live like count for a post and, when viewerID is
// non-zero, whether the viewer has liked it. The count is always derived
// from the fact table (through the counter cache), never read back from
// the denormalized copy.
func (s *LikeService) CountFor(ctx context.Context, postID string, viewerID uint) (*models.LikeCount, error) {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return nil, err
	}

	key := cache.PostLikesKey(postID)
	count, ok := s.counters.GetInt64(ctx, key)
	if !ok {
		var err error
		count, err = s.likeRepository.GetLikesCountByPostID(postID)
		if err != nil {
			return nil, err
		}
		s.counters.SetInt64(ctx, key, count)
	}

	result := &models.LikeCount{
		PostID:    postID,
		LikeCount: count,
	}
	if viewerID != 0 {
		liked, err := s.likeRepository.HasUserLikedPost(postID, viewerID)
		if err != nil {
			return nil, err
		}
		result.LikedByUser = liked
	}
	return result, nil
}

// ListByPost returns all likes on a post, newest first
func (s *LikeService) ListByPost(ctx context.Context, postID string) ([]models.LikeDetail, error) {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return nil, err
	}
	likes, err := s.likeRepository.ListByPostID(postID)
	if err != nil {
		return nil, err
	}
	return s.resolveLikeDetails(ctx, likes)
}

// ListByUser returns all likes placed by a user, newest first
func (s *LikeService) ListByUser(ctx context.Context, userID uint) ([]models.LikeDetail, error) {
	if err := s.ensureUserExists(userID); err != nil {
		return nil, err
	}
	likes, err := s.likeRepository.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.resolveLikeDetails(ctx, likes)
}

// ListAll returns every like fact. Admin only.
func (s *LikeService) ListAll(ctx context.Context) ([]models.LikeDetail, error) {
	likes, err := s.likeRepository.ListAllLikes()
	if err != nil {
		return nil, err
	}
	return s.resolveLikeDetails(ctx, likes)
}

// RemoveByID deletes a like by its row id. Only the like's owner or an
// admin may remove it.
func (s *LikeService) RemoveByID(ctx context.Context, id, requesterID uint, requesterRole string) error {
	like, err := s.likeRepository.GetLikeByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLikeNotFound
		}
		return err
	}

	if like.UserID != requesterID && requesterRole != models.RoleAdmin {
		return ErrNotLikeOwner
	}

	deleted, err := s.likeRepository.DeleteLikeByID(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLikeNotFound
	}

	s.refreshPostCounter(ctx, like.PostID)
	return nil
}

// RemoveForPost purges every like fact for a post and drops its cached
// counter. Called when the post itself is deleted; the post store entry is
// already gone, so no counter is republished.
func (s *LikeService) RemoveForPost(ctx context.Context, postID string) error {
	if _, err := s.likeRepository.DeleteByPostID(postID); err != nil {
		return err
	}
	s.counters.Invalidate(ctx, cache.PostLikesKey(postID))
	return nil
}

// refreshPostCounter re-derives the post's like count from the fact table
// and publishes it to the cache and the post store. Publication is best
// effort: the fact table is authoritative and reads re-derive from it, so
// a failed write here is logged and self-corrects on the next mutation.
func (s *LikeService) refreshPostCounter(ctx context.Context, postID string) {
	key := cache.PostLikesKey(postID)
	s.counters.Invalidate(ctx, key)

	count, err := s.likeRepository.GetLikesCountByPostID(postID)
	if err != nil {
		log.Printf("like counter recount for post %s failed: %v", postID, err)
		return
	}
	s.counters.SetInt64(ctx, key, count)

	if err := s.postRepository.SetLikesCount(ctx, postID, count); err != nil {
		log.Printf("like counter write for post %s failed: %v", postID, err)
	}
}

func (s *LikeService) ensurePostExists(ctx context.Context, postID string) error {
	exists, err := s.postRepository.PostExists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPostNotFound
	}
	return nil
}

func (s *LikeService) ensureUserExists(userID uint) error {
	exists, err := s.userRepository.UserExists(userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// resolveLikeDetails attaches user and post summaries to like facts. Posts
// are batch-resolved in one query; a post deleted since the like was placed
// leaves Post nil.
func (s *LikeService) resolveLikeDetails(ctx context.Context, likes []models.Like) ([]models.LikeDetail, error) {
	postIDSet := make(map[string]bool, len(likes))
	postIDs := make([]string, 0, len(likes))
	for _, like := range likes {
		if !postIDSet[like.PostID] {
			postIDSet[like.PostID] = true
			postIDs = append(postIDs, like.PostID)
		}
	}

	postMap := map[string]models.Post{}
	if len(postIDs) > 0 {
		posts, err := s.postRepository.GetPostsByIDs(ctx, postIDs)
		if err != nil {
			return nil, err
		}
		for _, post := range posts {
			postMap[post.ID.Hex()] = post
		}
	}

	details := make([]models.LikeDetail, len(likes))
	for i, like := range likes {
		details[i] = models.LikeDetail{
			ID:        like.ID,
			PostID:    like.PostID,
			CreatedAt: like.CreatedAt,
		}
		if like.User != nil {
			details[i].User = like.User.ToSummary()
		}
		if post, ok := postMap[like.PostID]; ok {
			copied := post
			details[i].Post = &copied
		}
	}
	return details, nil
}
