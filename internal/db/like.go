package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
)

// LikeRepository handles database operations for likes
type LikeRepository struct {
	db *DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a new like. A second like for the same (target, actor) pair
// violates the unique index and surfaces ErrDuplicate.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	result := r.db.WithContext(ctx).Create(like)
	if result.Error != nil {
		return fmt.Errorf("failed to create like: %w", MapGormError(result.Error))
	}
	return nil
}

// Delete deletes a like by its UUID
func (r *LikeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Like{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete like: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindVideoLike retrieves the like a user placed on a video, if any
func (r *LikeRepository) FindVideoLike(ctx context.Context, videoID, likedBy uuid.UUID) (*models.Like, error) {
	var like models.Like
	result := r.db.WithContext(ctx).
		Where("video_id = ? AND liked_by = ?", videoID.String(), likedBy.String()).
		First(&like)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &like, nil
}

// FindCommentLike retrieves the like a user placed on a comment, if any
func (r *LikeRepository) FindCommentLike(ctx context.Context, commentID, likedBy uuid.UUID) (*models.Like, error) {
	var like models.Like
	result := r.db.WithContext(ctx).
		Where("comment_id = ? AND liked_by = ?", commentID.String(), likedBy.String()).
		First(&like)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &like, nil
}

// ByVideos retrieves all likes targeting any of the given videos
func (r *LikeRepository) ByVideos(ctx context.Context, videoIDs []uuid.UUID) ([]models.Like, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	var likes []models.Like
	result := r.db.WithContext(ctx).Where("video_id IN ?", uuidStrings(videoIDs)).Find(&likes)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch likes by videos: %w", MapGormError(result.Error))
	}
	return likes, nil
}

// ByComments retrieves all likes targeting any of the given comments
func (r *LikeRepository) ByComments(ctx context.Context, commentIDs []uuid.UUID) ([]models.Like, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}

	var likes []models.Like
	result := r.db.WithContext(ctx).Where("comment_id IN ?", uuidStrings(commentIDs)).Find(&likes)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch likes by comments: %w", MapGormError(result.Error))
	}
	return likes, nil
}

// VideoLikesByActor retrieves a user's video likes, newest first
func (r *LikeRepository) VideoLikesByActor(ctx context.Context, likedBy uuid.UUID) ([]models.Like, error) {
	var likes []models.Like
	result := r.db.WithContext(ctx).
		Where("liked_by = ? AND video_id IS NOT NULL", likedBy.String()).
		Order("created_at DESC, id ASC").
		Find(&likes)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch likes by actor: %w", MapGormError(result.Error))
	}
	return likes, nil
}
