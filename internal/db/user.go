package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
)

// UserRepository handles database operations for users. The core only reads
// user rows; Create exists for provisioning and test fixtures.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		return fmt.Errorf("failed to create user: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a user by its UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&user)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &user, nil
}

// GetByIDs batch-fetches users for a set of ids in a single query.
// Missing ids are simply absent from the result map.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	out := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	result := r.db.WithContext(ctx).Where("id IN ?", uuidStrings(ids)).Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch fetch users: %w", MapGormError(result.Error))
	}

	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

// Exists reports whether a user row exists for the given id
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id.String()).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check user existence: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}
