package repositories

import (
	"github.com/kynetiq/social-engine/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	// CreateFollow inserts the edge unless it already exists. The unique
	// index over (follower_id, following_id) is the guard; inserted
	// reports whether a row was actually written.
	CreateFollow(follow *models.Follow) (inserted bool, err error)
	// DeleteFollow removes the edge and reports whether one existed.
	DeleteFollow(followerID, followingID uint) (deleted bool, err error)
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowersCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
	GetFollowingIDs(userID uint) ([]uint, error)
	ListFollowers(userID uint, offset, limit int) ([]models.Follow, int64, error)
	ListFollowing(userID uint, offset, limit int) ([]models.Follow, int64, error)
	GetFollowByID(id uint) (*models.Follow, error)
	ListAllFollows() ([]models.Follow, error)
	DeleteFollowByID(id uint) (deleted bool, err error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
		DoNothing: true,
	}).Create(follow)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID uint) (bool, error) {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, err
}

// ListFollowers returns the edges pointing at userID, newest first, with
// the follower user preloaded and the unpaginated total.
func (r *PostgresFollowRepository) ListFollowers(userID uint, offset, limit int) ([]models.Follow, int64, error) {
	return r.listEdges("following_id = ?", "Follower", userID, offset, limit)
}

// ListFollowing returns the edges created by userID, newest first, with
// the followed user preloaded and the unpaginated total.
func (r *PostgresFollowRepository) ListFollowing(userID uint, offset, limit int) ([]models.Follow, int64, error) {
	return r.listEdges("follower_id = ?", "Following", userID, offset, limit)
}

func (r *PostgresFollowRepository) listEdges(where, preload string, userID uint, offset, limit int) ([]models.Follow, int64, error) {
	var total int64
	if err := r.db.Model(&models.Follow{}).Where(where, userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []models.Follow
	err := r.db.Preload(preload).
		Where(where, userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&follows).Error
	return follows, total, err
}

func (r *PostgresFollowRepository) GetFollowByID(id uint) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.First(&follow, id).Error; err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *PostgresFollowRepository) ListAllFollows() ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.Order("created_at DESC").Find(&follows).Error
	return follows, err
}

func (r *PostgresFollowRepository) DeleteFollowByID(id uint) (bool, error) {
	res := r.db.Delete(&models.Follow{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
