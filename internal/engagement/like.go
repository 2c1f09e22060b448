// Package engagement implements the toggle-shaped relations between users
// and content: likes on videos and comments, and channel subscriptions.
package engagement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/ownership"
	"github.com/videotube/videotube/internal/pagination"
	"github.com/videotube/videotube/internal/toggle"
	"github.com/videotube/videotube/internal/view"
)

// LikeService handles business logic for like toggles and like-derived feeds
type LikeService struct {
	repos        *db.Repositories
	resolver     *view.Resolver
	videoLikes   *toggle.Coordinator
	commentLikes *toggle.Coordinator
}

// NewLikeService creates a new like service instance
func NewLikeService(repos *db.Repositories, resolver *view.Resolver) *LikeService {
	return &LikeService{
		repos:        repos,
		resolver:     resolver,
		videoLikes:   toggle.NewCoordinator("video_like", repos.Likes.VideoLikeStore()),
		commentLikes: toggle.NewCoordinator("comment_like", repos.Likes.CommentLikeStore()),
	}
}

// ToggleVideoLike flips the actor's like on a video and returns the
// resulting state. The target is verified before the join table is touched.
func (s *LikeService) ToggleVideoLike(ctx context.Context, actorID, videoID uuid.UUID) (toggle.State, error) {
	if actorID == uuid.Nil {
		return "", ownership.ErrUnauthenticated
	}

	exists, err := s.repos.Videos.Exists(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("failed to verify video: %w", err)
	}
	if !exists {
		return "", ErrVideoNotFound
	}

	state, err := s.videoLikes.Toggle(ctx, actorID, videoID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("video_id", videoID.String()).
			Str("actor_id", actorID.String()).
			Msg("Failed to toggle video like")
		return "", fmt.Errorf("failed to toggle video like: %w", err)
	}

	logger.Log.Debug().
		Str("video_id", videoID.String()).
		Str("actor_id", actorID.String()).
		Str("state", string(state)).
		Msg("Video like toggled")

	return state, nil
}

// ToggleCommentLike flips the actor's like on a comment and returns the
// resulting state
func (s *LikeService) ToggleCommentLike(ctx context.Context, actorID, commentID uuid.UUID) (toggle.State, error) {
	if actorID == uuid.Nil {
		return "", ownership.ErrUnauthenticated
	}

	if _, err := s.repos.Comments.GetByID(ctx, commentID); err != nil {
		if db.IsNotFound(err) {
			return "", ErrCommentNotFound
		}
		return "", fmt.Errorf("failed to verify comment: %w", err)
	}

	state, err := s.commentLikes.Toggle(ctx, actorID, commentID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("comment_id", commentID.String()).
			Str("actor_id", actorID.String()).
			Msg("Failed to toggle comment like")
		return "", fmt.Errorf("failed to toggle comment like: %w", err)
	}

	logger.Log.Debug().
		Str("comment_id", commentID.String()).
		Str("actor_id", actorID.String()).
		Str("state", string(state)).
		Msg("Comment like toggled")

	return state, nil
}

// LikedVideos returns a page of the videos the actor has liked, most
// recently liked first. Videos deleted since the like are skipped.
func (s *LikeService) LikedVideos(ctx context.Context, actorID uuid.UUID, page, limit int) (*pagination.Page[view.VideoView], error) {
	if actorID == uuid.Nil {
		return nil, ownership.ErrUnauthenticated
	}

	likes, err := s.repos.Likes.VideoLikesByActor(ctx, actorID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("actor_id", actorID.String()).
			Msg("Failed to fetch actor's video likes")
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}

	videoIDs := make([]uuid.UUID, 0, len(likes))
	for _, l := range likes {
		if l.VideoID != nil {
			videoIDs = append(videoIDs, *l.VideoID)
		}
	}

	byID, err := s.repos.Videos.GetByIDs(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}

	// preserve like recency order, dropping vanished videos
	ordered := make([]models.Video, 0, len(videoIDs))
	for _, id := range videoIDs {
		if v := byID[id]; v != nil {
			ordered = append(ordered, *v)
		}
	}

	p, err := pagination.Paginate(ctx, pagination.FromSlice(ordered), page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}

	views, err := s.composeVideoViews(ctx, p.Items, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}

	return pagination.Convert(p, views), nil
}

func (s *LikeService) composeVideoViews(ctx context.Context, videos []models.Video, actorID uuid.UUID) ([]view.VideoView, error) {
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
