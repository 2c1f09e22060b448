package playlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/ownership"
	"github.com/videotube/videotube/internal/view"
)

// Service handles business logic for playlist operations
type Service struct {
	repos    *db.Repositories
	resolver *view.Resolver
}

// NewService creates a new playlist service instance
func NewService(repos *db.Repositories, resolver *view.Resolver) *Service {
	return &Service{
		repos:    repos,
		resolver: resolver,
	}
}

// Create creates a new empty playlist owned by the actor
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, name, description string) (*models.Playlist, error) {
	if actorID == uuid.Nil {
		return nil, ownership.ErrUnauthenticated
	}
	if name == "" || description == "" {
		return nil, fmt.Errorf("%w: name and description are required", ErrInvalidInput)
	}

	playlist := models.NewPlaylist(actorID, name, description)
	if err := s.repos.Playlists.Create(ctx, playlist); err != nil {
		logger.Log.Error().
			Err(err).
			Str("actor_id", actorID.String()).
			Msg("Failed to create playlist in database")
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", playlist.ID.String()).
		Str("owner_id", actorID.String()).
		Msg("Playlist created successfully")

	return playlist, nil
}

// GetByID returns a composed playlist view with member videos in playlist
// order
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*view.PlaylistView, error) {
	playlist, err := s.getPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.composeViews(ctx, []models.Playlist{*playlist}, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return &views[0], nil
}

// ListByUser returns all of a user's playlists as composed views, newest
// first
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, actorID uuid.UUID) ([]view.PlaylistView, error) {
	playlists, err := s.repos.Playlists.ByOwner(ctx, userID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to list playlists by owner")
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	views, err := s.composeViews(ctx, playlists, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return views, nil
}

// Update replaces a playlist's name and description after an ownership
// check
func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, name, description string) (*models.Playlist, error) {
	playlist, err := s.getPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownership.Authorize(actorID, playlist); err != nil {
		return nil, err
	}
	if name == "" || description == "" {
		return nil, fmt.Errorf("%w: name and description are required", ErrInvalidInput)
	}

	playlist.Name = name
	playlist.Description = description
	if err := s.repos.Playlists.Update(ctx, playlist); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrPlaylistNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("playlist_id", id.String()).
			Msg("Failed to update playlist in database")
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", id.String()).
		Msg("Playlist updated successfully")

	return playlist, nil
}

// Delete removes a playlist after an ownership check. Membership rows go
// with it through the store's cascade; the videos themselves are untouched.
func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	playlist, err := s.getPlaylist(ctx, id)
	if err != nil {
		return err
	}
	if err := ownership.Authorize(actorID, playlist); err != nil {
		return err
	}

	if err := s.repos.Playlists.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return ErrPlaylistNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("playlist_id", id.String()).
			Msg("Failed to delete playlist from database")
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", id.String()).
		Msg("Playlist deleted successfully")

	return nil
}

// AddVideo appends a video to a playlist after an ownership check. Adding
// a video already in the playlist is a no-op, never a second row.
func (s *Service) AddVideo(ctx context.Context, actorID, playlistID, videoID uuid.UUID) error {
	playlist, err := s.getPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}
	if err := ownership.Authorize(actorID, playlist); err != nil {
		return err
	}

	exists, err := s.repos.Videos.Exists(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to verify video: %w", err)
	}
	if !exists {
		return ErrVideoNotFound
	}

	if _, err := s.repos.Playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		if db.IsDuplicate(err) {
			logger.Log.Debug().
				Str("playlist_id", playlistID.String()).
				Str("video_id", videoID.String()).
				Msg("Video already in playlist")
			return nil
		}
		logger.Log.Error().
			Err(err).
			Str("playlist_id", playlistID.String()).
			Str("video_id", videoID.String()).
			Msg("Failed to add video to playlist")
		return fmt.Errorf("failed to add video to playlist: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", playlistID.String()).
		Str("video_id", videoID.String()).
		Msg("Video added to playlist")

	return nil
}

// RemoveVideo drops a video from a playlist after an ownership check.
// Removing a video that is not in the playlist is a no-op.
func (s *Service) RemoveVideo(ctx context.Context, actorID, playlistID, videoID uuid.UUID) error {
	playlist, err := s.getPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}
	if err := ownership.Authorize(actorID, playlist); err != nil {
		return err
	}

	if err := s.repos.Playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		logger.Log.Error().
			Err(err).
			Str("playlist_id", playlistID.String()).
			Str("video_id", videoID.String()).
			Msg("Failed to remove video from playlist")
		return fmt.Errorf("failed to remove video from playlist: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", playlistID.String()).
		Str("video_id", videoID.String()).
		Msg("Video removed from playlist")

	return nil
}

func (s *Service) getPlaylist(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	playlist, err := s.repos.Playlists.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrPlaylistNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("playlist_id", id.String()).
			Msg("Failed to get playlist by ID")
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return playlist, nil
}

// composeViews batch-resolves owners, member videos, and engagement data
// for a set of playlists and composes the final views
func (s *Service) composeViews(ctx context.Context, playlists []models.Playlist, actorID uuid.UUID) ([]view.PlaylistView, error) {
	playlistIDs := make([]uuid.UUID, 0, len(playlists))
	ownerIDs := make([]uuid.UUID, 0, len(playlists))
	for i := range playlists {
		playlistIDs = append(playlistIDs, playlists[i].ID)
		ownerIDs = append(ownerIDs, playlists[i].OwnerID)
	}

	entries, err := s.repos.Playlists.VideosByPlaylists(ctx, playlistIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve playlist videos: %w", err)
	}

	byPlaylist := make(map[uuid.UUID][]models.PlaylistVideo, len(playlists))
	videoIDs := make([]uuid.UUID, 0, len(entries))
	videoOwnerIDs := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		byPlaylist[e.PlaylistID] = append(byPlaylist[e.PlaylistID], e)
		if e.Video != nil {
			videoIDs = append(videoIDs, e.Video.ID)
			videoOwnerIDs = append(videoOwnerIDs, e.Video.OwnerID)
		}
	}

	owners, err := s.resolver.Owners(ctx, append(ownerIDs, videoOwnerIDs...))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve playlist owners: %w", err)
	}
	likes, err := s.resolver.VideoLikes(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve playlist video likes: %w", err)
	}

	views := make([]view.PlaylistView, 0, len(playlists))
	for i := range playlists {
		p := &playlists[i]
		views = append(views, *view.ComposePlaylist(p, owners[p.OwnerID], byPlaylist[p.ID], owners, likes, actorID))
	}
	return views, nil
}
