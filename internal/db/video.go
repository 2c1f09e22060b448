package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/pagination"
	"github.com/videotube/videotube/internal/query"
	"gorm.io/gorm"
)

// VideoRepository handles database operations for videos
type VideoRepository struct {
	db *DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video into the database
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	result := r.db.WithContext(ctx).Create(video)
	if result.Error != nil {
		return fmt.Errorf("failed to create video: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a video by its UUID
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// GetByIDs batch-fetches videos for a set of ids in a single query
func (r *VideoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Video, error) {
	out := make(map[uuid.UUID]*models.Video, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var videos []models.Video
	result := r.db.WithContext(ctx).Where("id IN ?", uuidStrings(ids)).Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch fetch videos: %w", MapGormError(result.Error))
	}

	for i := range videos {
		out[videos[i].ID] = &videos[i]
	}
	return out, nil
}

// Exists reports whether a video row exists for the given id
func (r *VideoRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id.String()).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check video existence: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// Update updates the mutable fields of an existing video
// Uses Select to explicitly update fields including zero values
func (r *VideoRepository) Update(ctx context.Context, video *models.Video) error {
	video.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Where("id = ?", video.ID.String()).
		Select("title", "description", "thumbnail_url", "is_published", "updated_at").
		Updates(video)
	if result.Error != nil {
		return fmt.Errorf("failed to update video: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter atomically in place, so concurrent
// viewers never lose an increment to a read-modify-write race
func (r *VideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id.String()).
		Update("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to increment views: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a video by its UUID (cascade delete to comments and likes)
func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Video{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete video: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ByOwners retrieves the published videos owned by any of the given users,
// oldest first so the last row per owner is their latest upload. Drafts stay
// invisible here like in every other listing.
func (r *VideoRepository) ByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]models.Video, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}

	var videos []models.Video
	result := r.db.WithContext(ctx).
		Where("owner_id IN ?", uuidStrings(ownerIDs)).
		Where("is_published = ?", true).
		Order("created_at ASC, id ASC").
		Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch videos by owners: %w", MapGormError(result.Error))
	}
	return videos, nil
}

// Feed returns a restartable sequence over the videos matching a feed query,
// totally ordered by the validated sort plus id tie-break
func (r *VideoRepository) Feed(q query.Feed) pagination.Sequence[models.Video] {
	base := func(ctx context.Context) *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&models.Video{})
		if q.PublishedOnly {
			tx = tx.Where("is_published = ?", true)
		}
		if q.OwnerID != uuid.Nil {
			tx = tx.Where("owner_id = ?", q.OwnerID.String())
		}
		if ids, ok := q.Restricted(); ok {
			// empty candidate set matches nothing
			tx = tx.Where("id IN ?", uuidStrings(ids))
		}
		return tx
	}
	return &sequence[models.Video]{base: base, order: q.Sort.OrderClause()}
}
