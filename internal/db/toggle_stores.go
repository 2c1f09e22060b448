package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
)

// The marker stores below adapt the like and subscription repositories to
// the toggle coordinator's (actor, target) shape. Each leans on a unique
// pair index in the schema to reject double inserts.

// VideoLikeStore treats a video like as a marker keyed by
// (liked_by, video_id)
type VideoLikeStore struct {
	likes *LikeRepository
}

// VideoLikeStore returns the marker store for video likes
func (r *LikeRepository) VideoLikeStore() *VideoLikeStore {
	return &VideoLikeStore{likes: r}
}

func (s *VideoLikeStore) Find(ctx context.Context, actorID, targetID uuid.UUID) (uuid.UUID, bool, error) {
	like, err := s.likes.FindVideoLike(ctx, targetID, actorID)
	if err != nil {
		if IsNotFound(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return like.ID, true, nil
}

func (s *VideoLikeStore) Create(ctx context.Context, actorID, targetID uuid.UUID) error {
	return s.likes.Create(ctx, models.NewVideoLike(targetID, actorID))
}

func (s *VideoLikeStore) Delete(ctx context.Context, rowID uuid.UUID) error {
	return s.likes.Delete(ctx, rowID)
}

// CommentLikeStore treats a comment like as a marker keyed by
// (liked_by, comment_id)
type CommentLikeStore struct {
	likes *LikeRepository
}

// CommentLikeStore returns the marker store for comment likes
func (r *LikeRepository) CommentLikeStore() *CommentLikeStore {
	return &CommentLikeStore{likes: r}
}

func (s *CommentLikeStore) Find(ctx context.Context, actorID, targetID uuid.UUID) (uuid.UUID, bool, error) {
	like, err := s.likes.FindCommentLike(ctx, targetID, actorID)
	if err != nil {
		if IsNotFound(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return like.ID, true, nil
}

func (s *CommentLikeStore) Create(ctx context.Context, actorID, targetID uuid.UUID) error {
	return s.likes.Create(ctx, models.NewCommentLike(targetID, actorID))
}

func (s *CommentLikeStore) Delete(ctx context.Context, rowID uuid.UUID) error {
	return s.likes.Delete(ctx, rowID)
}

// SubscriptionStore treats a subscription as a marker keyed by
// (subscriber_id, channel_id)
type SubscriptionStore struct {
	subs *SubscriptionRepository
}

// SubscriptionStore returns the marker store for channel subscriptions
func (r *SubscriptionRepository) SubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{subs: r}
}

func (s *SubscriptionStore) Find(ctx context.Context, actorID, targetID uuid.UUID) (uuid.UUID, bool, error) {
	sub, err := s.subs.Find(ctx, targetID, actorID)
	if err != nil {
		if IsNotFound(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return sub.ID, true, nil
}

func (s *SubscriptionStore) Create(ctx context.Context, actorID, targetID uuid.UUID) error {
	return s.subs.Create(ctx, models.NewSubscription(targetID, actorID))
}

func (s *SubscriptionStore) Delete(ctx context.Context, rowID uuid.UUID) error {
	return s.subs.Delete(ctx, rowID)
}
