package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/pagination"
	"gorm.io/gorm"
)

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db *DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a new comment into the database
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	result := r.db.WithContext(ctx).Create(comment)
	if result.Error != nil {
		return fmt.Errorf("failed to create comment: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a comment by its UUID
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&comment)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &comment, nil
}

// UpdateContent replaces a comment's content
func (r *CommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id.String()).
		Updates(map[string]interface{}{
			"content":    content,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update comment: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a comment by its UUID (cascade delete to likes)
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Comment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ByVideo returns a restartable sequence over a video's comments,
// newest first with id tie-break
func (r *CommentRepository) ByVideo(videoID uuid.UUID) pagination.Sequence[models.Comment] {
	base := func(ctx context.Context) *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Comment{}).
			Where("video_id = ?", videoID.String())
	}
	return &sequence[models.Comment]{base: base, order: "created_at DESC, id ASC"}
}
