package video

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/ownership"
	"github.com/videotube/videotube/internal/pagination"
	"github.com/videotube/videotube/internal/query"
	"github.com/videotube/videotube/internal/search"
	"github.com/videotube/videotube/internal/view"
)

// Service handles business logic for video operations
type Service struct {
	repos    *db.Repositories
	resolver *view.Resolver
	search   search.Provider
}

// NewService creates a new video service instance
func NewService(repos *db.Repositories, resolver *view.Resolver, searchProvider search.Provider) *Service {
	return &Service{
		repos:    repos,
		resolver: resolver,
		search:   searchProvider,
	}
}

// ListParams are the optional inputs of a feed listing
type ListParams struct {
	Query     string
	OwnerID   uuid.UUID
	SortField string
	SortDir   string
	Page      int
	Limit     int
}

// List returns a page of published videos matching the params, composed
// with owner and engagement data relative to the actor
func (s *Service) List(ctx context.Context, params ListParams, actorID uuid.UUID) (*pagination.Page[view.VideoView], error) {
	sort, err := query.ParseSort(params.SortField, params.SortDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	feed := query.NewFeed(params.OwnerID, true, sort)

	if params.Query != "" {
		ids, err := s.search.Search(ctx, params.Query)
		if err != nil {
			logger.Log.Error().
				Err(err).
				Str("query", params.Query).
				Msg("Search provider failed")
			return nil, fmt.Errorf("failed to search videos: %w", err)
		}
		// an empty match set is a valid, empty feed
		feed.RestrictTo(ids)
	}

	page, err := pagination.Paginate(ctx, s.repos.Videos.Feed(feed), params.Page, params.Limit)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to paginate video feed")
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	views, err := s.composeViews(ctx, page.Items, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	return pagination.Convert(page, views), nil
}

// GetByID returns a single composed video view and registers the view hit.
// The counter bump is atomic in the store; if it fails the fetch still
// succeeds, the miss is only logged.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*view.VideoView, error) {
	video, err := s.getVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Videos.IncrementViews(ctx, id); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to increment view count")
	} else {
		video.Views++
	}

	views, err := s.composeViews(ctx, []models.Video{*video}, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	// single-video reads carry the owner's channel stats
	if views[0].Owner != nil {
		subs, err := s.resolver.ChannelSubscribers(ctx, []uuid.UUID{video.OwnerID})
		if err != nil {
			return nil, fmt.Errorf("failed to get video: %w", err)
		}
		view.AttachChannelStats(views[0].Owner, subs[video.OwnerID], actorID)
	}

	return &views[0], nil
}

// PublishParams are the required inputs of a new video
type PublishParams struct {
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     int64
}

// Publish creates a new video owned by the actor. The created row is
// re-read to confirm the write; a failed confirmation surfaces as
// ErrPublishConfirm alongside the created video so the caller can tell it
// apart from a failed create.
func (s *Service) Publish(ctx context.Context, actorID uuid.UUID, params PublishParams) (*models.Video, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return nil, err
	}
	if err := validatePublish(params); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("actor_id", actorID.String()).
			Msg("Video publish failed: invalid input")
		return nil, err
	}

	video := models.NewVideo(actorID, params.Title, params.Description, params.VideoURL, params.ThumbnailURL, params.Duration)
	if err := s.repos.Videos.Create(ctx, video); err != nil {
		logger.Log.Error().
			Err(err).
			Str("actor_id", actorID.String()).
			Msg("Failed to create video in database")
		return nil, fmt.Errorf("failed to publish video: %w", err)
	}

	confirmed, err := s.repos.Videos.GetByID(ctx, video.ID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("video_id", video.ID.String()).
			Msg("Failed to confirm published video")
		return video, fmt.Errorf("%w: %v", ErrPublishConfirm, err)
	}

	logger.Log.Info().
		Str("video_id", confirmed.ID.String()).
		Str("owner_id", confirmed.OwnerID.String()).
		Msg("Video published successfully")

	return confirmed, nil
}

// UpdateParams are the mutable fields of a video
type UpdateParams struct {
	Title        string
	Description  string
	ThumbnailURL string
}

// Update replaces a video's mutable fields after an ownership check.
// An empty thumbnail keeps the current one.
func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, params UpdateParams) (*models.Video, error) {
	video, err := s.getVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownership.Authorize(actorID, video); err != nil {
		return nil, err
	}
	if params.Title == "" || params.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalidInput)
	}

	video.Title = params.Title
	video.Description = params.Description
	if params.ThumbnailURL != "" {
		video.ThumbnailURL = params.ThumbnailURL
	}

	if err := s.repos.Videos.Update(ctx, video); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVideoNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to update video in database")
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	logger.Log.Info().
		Str("video_id", id.String()).
		Msg("Video updated successfully")

	return video, nil
}

// TogglePublish flips a video's publication state after an ownership check
// and returns the video in its new state
func (s *Service) TogglePublish(ctx context.Context, actorID, id uuid.UUID) (*models.Video, error) {
	video, err := s.getVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownership.Authorize(actorID, video); err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.repos.Videos.Update(ctx, video); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVideoNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to toggle publish state")
		return nil, fmt.Errorf("failed to toggle publish state: %w", err)
	}

	logger.Log.Info().
		Str("video_id", id.String()).
		Bool("is_published", video.IsPublished).
		Msg("Video publish state toggled")

	return video, nil
}

// Delete removes a video after an ownership check. Comments and likes on
// the video go with it through the store's cascade.
func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	video, err := s.getVideo(ctx, id)
	if err != nil {
		return err
	}
	if err := ownership.Authorize(actorID, video); err != nil {
		return err
	}

	if err := s.repos.Videos.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return ErrVideoNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to delete video from database")
		return fmt.Errorf("failed to delete video: %w", err)
	}

	logger.Log.Info().
		Str("video_id", id.String()).
		Msg("Video deleted successfully")

	return nil
}

func (s *Service) getVideo(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	video, err := s.repos.Videos.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVideoNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to get video by ID")
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

// requireActor fails closed when the caller is anonymous or references a
// user the store has never seen
func (s *Service) requireActor(ctx context.Context, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return ownership.ErrUnauthenticated
	}
	exists, err := s.repos.Users.Exists(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to verify actor: %w", err)
	}
	if !exists {
		return ownership.ErrUnauthenticated
	}
	return nil
}

// composeViews batch-resolves owners and likes for a set of videos and
// composes the final views
func (s *Service) composeViews(ctx context.Context, videos []models.Video, actorID uuid.UUID) ([]view.VideoView, error) {
	ownerIDs := make([]uuid.UUID, 0, len(videos))
	videoIDs := make([]uuid.UUID, 0, len(videos))
	for i := range videos {
		ownerIDs = append(ownerIDs, videos[i].OwnerID)
		videoIDs = append(videoIDs, videos[i].ID)
	}

	owners, err := s.resolver.Owners(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video owners: %w", err)
	}
	likes, err := s.resolver.VideoLikes(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video likes: %w", err)
	}

	return view.ComposeVideos(videos, owners, likes, actorID), nil
}

func validatePublish(params PublishParams) error {
	if params.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if params.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if params.VideoURL == "" {
		return fmt.Errorf("%w: video URL is required", ErrInvalidInput)
	}
	if params.ThumbnailURL == "" {
		return fmt.Errorf("%w: thumbnail URL is required", ErrInvalidInput)
	}
	if params.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	return nil
}
