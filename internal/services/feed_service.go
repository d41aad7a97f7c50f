package services

import (
	"context"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/repositories"
)

// FeedService composes the follow graph, the like ledger and the post
// store into viewer-scoped feed pages.
type FeedService struct {
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	likeRepository   repositories.LikeRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, followRepo repositories.FollowRepository, likeRepo repositories.LikeRepository) *FeedService {
	return &FeedService{
		postRepository:   postRepo,
		userRepository:   userRepo,
		followRepository: followRepo,
		likeRepository:   likeRepo,
	}
}

// PersonalFeed returns one page of the viewer's feed: their own posts plus
// posts by everyone they follow, newest first.
func (s *FeedService) PersonalFeed(ctx context.Context, viewerID uint, p models.Pagination) (*models.Feed, error) {
	p.Normalize()

	followingIDs, err := s.followRepository.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, err
	}
	authorIDs := append([]uint{viewerID}, followingIDs...)

	posts, total, err := s.postRepository.ListByAuthorIDs(ctx, authorIDs, int64(p.Offset()), int64(p.Limit))
	if err != nil {
		return nil, err
	}

	items, err := s.AnnotateForViewer(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}

	return &models.Feed{
		Items:   items,
		Total:   total,
		Page:    p.Page,
		Limit:   p.Limit,
		HasMore: total > int64(p.Page*p.Limit),
	}, nil
}

// AnnotateForViewer resolves authors and attaches live like counts and the
// viewer's like state to a page of posts. All lookups are batched: one
// count query, one liked-set query and one author query per page.
func (s *FeedService) AnnotateForViewer(ctx context.Context, posts []models.Post, viewerID uint) ([]models.FeedItem, error) {
	items := make([]models.FeedItem, 0, len(posts))
	if len(posts) == 0 {
		return items, nil
	}

	postIDs := make([]string, len(posts))
	authorSet := make(map[uint]bool)
	for i, post := range posts {
		postIDs[i] = post.ID.Hex()
		authorSet[post.AuthorID] = true
	}

	counts, err := s.likeRepository.CountByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}

	likedByViewer := map[string]bool{}
	if viewerID != 0 {
		likedByViewer, err = s.likeRepository.LikedPostIDs(viewerID, postIDs)
		if err != nil {
			return nil, err
		}
	}

	authorIDs := make([]uint, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}
	authors, err := s.userRepository.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, err
	}
	authorMap := make(map[uint]models.UserSummary, len(authors))
	for _, author := range authors {
		authorMap[author.ID] = author.ToSummary()
	}

	for _, post := range posts {
		pid := post.ID.Hex()
		items = append(items, models.FeedItem{
			Post:          post,
			Author:        authorMap[post.AuthorID],
			LikeCount:     counts[pid],
			LikedByViewer: likedByViewer[pid],
		})
	}
	return items, nil
}
