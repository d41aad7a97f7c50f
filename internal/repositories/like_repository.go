package repositories

import (
	"github.com/kynetiq/social-engine/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like fact operations
type LikeRepository interface {
	// CreateLike inserts the fact unless it already exists. The unique
	// index over (post_id, user_id) is the guard; inserted reports
	// whether a row was actually written.
	CreateLike(like *models.Like) (inserted bool, err error)
	// DeleteLike removes the fact and reports whether one existed.
	DeleteLike(postID string, userID uint) (deleted bool, err error)
	HasUserLikedPost(postID string, userID uint) (bool, error)
	GetLikesCountByPostID(postID string) (int64, error)
	// CountByPostIDs returns per-post like counts for a batch of posts.
	CountByPostIDs(postIDs []string) (map[string]int64, error)
	// LikedPostIDs returns the subset of postIDs the user has liked.
	LikedPostIDs(userID uint, postIDs []string) (map[string]bool, error)
	ListByPostID(postID string) ([]models.Like, error)
	ListByUserID(userID uint) ([]models.Like, error)
	GetLikeByID(id uint) (*models.Like, error)
	ListAllLikes() ([]models.Like, error)
	DeleteLikeByID(id uint) (deleted bool, err error)
	// DeleteByPostID removes every fact for a post, returning how many
	// rows went. Used when the post itself is deleted.
	DeleteByPostID(postID string) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (r *PostgresLikeRepository) CreateLike(like *models.Like) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresLikeRepository) DeleteLike(postID string, userID uint) (bool, error) {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(postID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikesCountByPostID counts the like facts for one post
func (r *PostgresLikeRepository) GetLikesCountByPostID(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresLikeRepository) CountByPostIDs(postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID string
		Total  int64
	}
	err := r.db.Model(&models.Like{}).
		Select("post_id, COUNT(*) as total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

func (r *PostgresLikeRepository) LikedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []string
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// ListByPostID retrieves all likes for a post, newest first, with users preloaded
func (r *PostgresLikeRepository) ListByPostID(postID string) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&likes).Error
	return likes, err
}

// ListByUserID retrieves all likes placed by a user, newest first
func (r *PostgresLikeRepository) ListByUserID(userID uint) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&likes).Error
	return likes, err
}

func (r *PostgresLikeRepository) GetLikeByID(id uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.Preload("User").First(&like, id).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *PostgresLikeRepository) ListAllLikes() ([]models.Like, error) {
	var likes []models.Like
	err := r.db.Preload("User").Order("created_at DESC").Find(&likes).Error
	return likes, err
}

func (r *PostgresLikeRepository) DeleteLikeByID(id uint) (bool, error) {
	res := r.db.Delete(&models.Like{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresLikeRepository) DeleteByPostID(postID string) (int64, error) {
	res := r.db.Where("post_id = ?", postID).Delete(&models.Like{})
	return res.RowsAffected, res.Error
}
