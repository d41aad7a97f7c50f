package repositories

import (
	"github.com/kynetiq/social-engine/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for identity lookups
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	UserExists(id uint) (bool, error)
	// ListSuggested returns users excluding the viewer and every id in
	// excludeIDs, newest accounts first.
	ListSuggested(viewerID uint, excludeIDs []uint, offset, limit int) ([]models.User, error)
	CountSuggested(viewerID uint, excludeIDs []uint) (int64, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves all users whose id is in ids
func (r *PostgresUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UserExists checks whether a user with the given ID exists
func (r *PostgresUserRepository) UserExists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresUserRepository) suggestedQuery(viewerID uint, excludeIDs []uint) *gorm.DB {
	q := r.db.Model(&models.User{}).Where("id <> ?", viewerID)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	return q
}

// ListSuggested returns follow candidates for the viewer, newest first
func (r *PostgresUserRepository) ListSuggested(viewerID uint, excludeIDs []uint, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.suggestedQuery(viewerID, excludeIDs).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// CountSuggested counts follow candidates for the viewer
func (r *PostgresUserRepository) CountSuggested(viewerID uint, excludeIDs []uint) (int64, error) {
	var count int64
	err := r.suggestedQuery(viewerID, excludeIDs).Count(&count).Error
	return count, err
}
