package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kynetiq/social-engine/internal/models"
	"github.com/kynetiq/social-engine/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFollowService(t *testing.T) (*FollowService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewFollowService(
		repositories.NewPostgresFollowRepository(db),
		repositories.NewPostgresUserRepository(db),
		nil,
	)
	return svc, db
}

func TestFollowCreatesEdgeAndUpdatesStats(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	follow, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, follow.FollowerID)
	assert.Equal(t, bob.ID, follow.FollowingID)

	stats, err := svc.Stats(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.FollowersCount)
	assert.Equal(t, int64(0), stats.FollowingCount)
	assert.True(t, stats.IsFollowing)

	// The edge is directed: bob does not follow alice back.
	stats, err = svc.Stats(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.FollowersCount)
	assert.Equal(t, int64(1), stats.FollowingCount)
	assert.False(t, stats.IsFollowing)
}

func TestFollowSelfIsForbidden(t *testing.T) {
	svc, db := newFollowService(t)
	alice := createTestUser(t, db, "alice")

	_, err := svc.Follow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollowUnknownUser(t *testing.T) {
	svc, db := newFollowService(t)
	alice := createTestUser(t, db, "alice")

	_, err := svc.Follow(context.Background(), alice.ID, alice.ID+999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowTwiceConflicts(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.Follow(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	stats, err := svc.Stats(ctx, bob.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.FollowersCount)
}

func TestUnfollowWithoutEdge(t *testing.T) {
	svc, db := newFollowService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	err := svc.Unfollow(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestToggleFollowRoundTrip(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	isFollowing, err := svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, isFollowing)

	isFollowing, err = svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)

	exists, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListFollowersNewestFirst(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	subject := createTestUser(t, db, "subject")
	first := createTestUser(t, db, "first")
	second := createTestUser(t, db, "second")

	_, err := svc.Follow(ctx, first.ID, subject.ID)
	require.NoError(t, err)
	// Backdate the first edge so the ordering is unambiguous.
	err = db.Model(&models.Follow{}).Where("follower_id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error
	require.NoError(t, err)
	_, err = svc.Follow(ctx, second.ID, subject.ID)
	require.NoError(t, err)

	page, err := svc.ListFollowers(ctx, subject.ID, models.Pagination{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Users, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, second.ID, page.Users[0].ID)
	assert.Equal(t, first.ID, page.Users[1].ID)
	require.NotNil(t, page.Users[0].FollowedAt)
}

func TestListFollowingPagination(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	viewer := createTestUser(t, db, "viewer")
	for i := 0; i < 3; i++ {
		target := createTestUser(t, db, fmt.Sprintf("target%d", i))
		_, err := svc.Follow(ctx, viewer.ID, target.ID)
		require.NoError(t, err)
	}

	page, err := svc.ListFollowing(ctx, viewer.ID, models.Pagination{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Users, 1)
}

func TestSuggestedUsersExcludesViewerAndFollowed(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	viewer := createTestUser(t, db, "viewer")
	followed := createTestUser(t, db, "followed")
	stranger := createTestUser(t, db, "stranger")

	_, err := svc.Follow(ctx, viewer.ID, followed.ID)
	require.NoError(t, err)

	page, err := svc.SuggestedUsers(ctx, viewer.ID, models.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, stranger.ID, page.Users[0].ID)
}

func TestSuggestedUsersWithNothingFollowed(t *testing.T) {
	svc, db := newFollowService(t)
	viewer := createTestUser(t, db, "viewer")
	other := createTestUser(t, db, "other")

	page, err := svc.SuggestedUsers(context.Background(), viewer.ID, models.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, other.ID, page.Users[0].ID)
}

func TestConcurrentFollowsCreateOneEdge(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Follow(ctx, alice.ID, bob.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var created, conflicts int
	for err := range results {
		switch {
		case err == nil:
			created++
		default:
			require.ErrorIs(t, err, ErrAlreadyFollowing)
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)

	stats, err := svc.Stats(ctx, bob.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.FollowersCount)
}

func TestAdminListAndRemoveByID(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	follow, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, svc.RemoveByID(ctx, follow.ID))
	assert.ErrorIs(t, svc.RemoveByID(ctx, follow.ID), ErrFollowNotFound)

	exists, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
