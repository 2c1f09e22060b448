package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/ownership"
	"github.com/videotube/videotube/internal/pagination"
	"github.com/videotube/videotube/internal/view"
)

// Service handles business logic for comment operations
type Service struct {
	repos    *db.Repositories
	resolver *view.Resolver
}

// NewService creates a new comment service instance
func NewService(repos *db.Repositories, resolver *view.Resolver) *Service {
	return &Service{
		repos:    repos,
		resolver: resolver,
	}
}

// ListByVideo returns a page of a video's comments, newest first, composed
// with author and engagement data relative to the actor
func (s *Service) ListByVideo(ctx context.Context, videoID uuid.UUID, page, limit int, actorID uuid.UUID) (*pagination.Page[view.CommentView], error) {
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}

	p, err := pagination.Paginate(ctx, s.repos.Comments.ByVideo(videoID), page, limit)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("video_id", videoID.String()).
			Msg("Failed to paginate comments")
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	views, err := s.composeViews(ctx, p.Items, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return pagination.Convert(p, views), nil
}

// Add creates a new comment on a video by the actor
func (s *Service) Add(ctx context.Context, actorID, videoID uuid.UUID, content string) (*models.Comment, error) {
	if actorID == uuid.Nil {
		return nil, ownership.ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}

	comment := models.NewComment(videoID, actorID, content)
	if err := s.repos.Comments.Create(ctx, comment); err != nil {
		logger.Log.Error().
			Err(err).
			Str("video_id", videoID.String()).
			Str("actor_id", actorID.String()).
			Msg("Failed to create comment in database")
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	logger.Log.Info().
		Str("comment_id", comment.ID.String()).
		Str("video_id", videoID.String()).
		Msg("Comment added successfully")

	return comment, nil
}

// Update replaces a comment's content after an ownership check
func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, content string) (*models.Comment, error) {
	comment, err := s.getComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownership.Authorize(actorID, comment); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	if err := s.repos.Comments.UpdateContent(ctx, id, content); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrCommentNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("comment_id", id.String()).
			Msg("Failed to update comment in database")
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	comment.Content = content

	logger.Log.Info().
		Str("comment_id", id.String()).
		Msg("Comment updated successfully")

	return comment, nil
}

// Delete removes a comment after an ownership check. Likes on the comment
// go with it through the store's cascade.
func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	comment, err := s.getComment(ctx, id)
	if err != nil {
		return err
	}
	if err := ownership.Authorize(actorID, comment); err != nil {
		return err
	}

	if err := s.repos.Comments.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return ErrCommentNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("comment_id", id.String()).
			Msg("Failed to delete comment from database")
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	logger.Log.Info().
		Str("comment_id", id.String()).
		Msg("Comment deleted successfully")

	return nil
}

func (s *Service) getComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	comment, err := s.repos.Comments.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrCommentNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("comment_id", id.String()).
			Msg("Failed to get comment by ID")
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

func (s *Service) requireVideo(ctx context.Context, videoID uuid.UUID) error {
	exists, err := s.repos.Videos.Exists(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to verify video: %w", err)
	}
	if !exists {
		return ErrVideoNotFound
	}
	return nil
}

// composeViews batch-resolves authors and likes for a page of comments and
// composes the final views
func (s *Service) composeViews(ctx context.Context, comments []models.Comment, actorID uuid.UUID) ([]view.CommentView, error) {
	ownerIDs := make([]uuid.UUID, 0, len(comments))
	commentIDs := make([]uuid.UUID, 0, len(comments))
	for i := range comments {
		ownerIDs = append(ownerIDs, comments[i].OwnerID)
		commentIDs = append(commentIDs, comments[i].ID)
	}

	owners, err := s.resolver.Owners(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve comment authors: %w", err)
	}
	likes, err := s.resolver.CommentLikes(ctx, commentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve comment likes: %w", err)
	}

	return view.ComposeComments(comments, owners, likes, actorID), nil
}
