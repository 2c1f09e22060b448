package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
	"gorm.io/gorm"
)

// PlaylistRepository handles database operations for playlists and their
// membership rows
type PlaylistRepository struct {
	db *DB
}

// NewPlaylistRepository creates a new playlist repository
func NewPlaylistRepository(db *DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist into the database
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	result := r.db.WithContext(ctx).Create(playlist)
	if result.Error != nil {
		return fmt.Errorf("failed to create playlist: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a playlist by its UUID
func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&playlist)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &playlist, nil
}

// ByOwner retrieves all playlists owned by a user, newest first
func (r *PlaylistRepository) ByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	var playlists []models.Playlist
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.String()).
		Order("created_at DESC, id ASC").
		Find(&playlists)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch playlists by owner: %w", MapGormError(result.Error))
	}
	return playlists, nil
}

// Update updates a playlist's name and description
// Uses Select to explicitly update fields including zero values
func (r *PlaylistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	playlist.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Where("id = ?", playlist.ID.String()).
		Select("name", "description", "updated_at").
		Updates(playlist)
	if result.Error != nil {
		return fmt.Errorf("failed to update playlist: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a playlist by its UUID (cascade delete to membership rows)
func (r *PlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Playlist{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete playlist: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVideo appends a video at the end of a playlist within a transaction.
// Re-adding a video the playlist already holds violates the unique pair
// index and surfaces ErrDuplicate; the caller decides whether to collapse.
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*models.PlaylistVideo, error) {
	var entry *models.PlaylistVideo
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var next int
		row := tx.Model(&models.PlaylistVideo{}).
			Where("playlist_id = ?", playlistID.String()).
			Select("COALESCE(MAX(position) + 1, 0)").
			Row()
		if err := row.Scan(&next); err != nil {
			return fmt.Errorf("failed to compute next position: %w", err)
		}

		entry = models.NewPlaylistVideo(playlistID, videoID, next)
		if err := tx.Create(entry).Error; err != nil {
			return MapGormError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add video to playlist: %w", err)
	}
	return entry, nil
}

// RemoveVideo deletes a playlist membership row by pair
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID.String(), videoID.String()).
		Delete(&models.PlaylistVideo{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove video from playlist: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// VideosByPlaylists retrieves membership rows for a set of playlists with
// their videos attached, ordered by playlist position
func (r *PlaylistRepository) VideosByPlaylists(ctx context.Context, playlistIDs []uuid.UUID) ([]models.PlaylistVideo, error) {
	if len(playlistIDs) == 0 {
		return nil, nil
	}

	var entries []models.PlaylistVideo
	result := r.db.WithContext(ctx).
		Where("playlist_id IN ?", uuidStrings(playlistIDs)).
		Order("playlist_id ASC, position ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch playlist videos: %w", MapGormError(result.Error))
	}
	if len(entries) == 0 {
		return entries, nil
	}

	// attach the joined videos in one batch query
	videoIDs := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		if !seen[e.VideoID] {
			seen[e.VideoID] = true
			videoIDs = append(videoIDs, e.VideoID)
		}
	}

	var videos []models.Video
	result = r.db.WithContext(ctx).Where("id IN ?", uuidStrings(videoIDs)).Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch videos for playlists: %w", MapGormError(result.Error))
	}

	byID := make(map[uuid.UUID]*models.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}
	for i := range entries {
		// a vanished video leaves the entry without a join row, not an error
		entries[i].Video = byID[entries[i].VideoID]
	}

	return entries, nil
}
