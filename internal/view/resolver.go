// Package view turns flat store entities into the denormalized shapes the
// API serves: it batch-resolves relations, computes derived fields (counts,
// actor-relative flags, owner sub-views), and prunes the result down to a
// per-kind field allow-list.
package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/models"
)

// Relation names a join the resolver knows how to batch-fetch
type Relation string

const (
	// RelationOwner joins an entity to the user that owns it
	RelationOwner Relation = "owner"
	// RelationVideoLikes joins a video to the likes placed on it
	RelationVideoLikes Relation = "video_likes"
	// RelationCommentLikes joins a comment to the likes placed on it
	RelationCommentLikes Relation = "comment_likes"
	// RelationChannelSubscribers joins a channel to its subscriptions
	RelationChannelSubscribers Relation = "channel_subscribers"
	// RelationSubscribedChannels joins a user to the subscriptions they hold
	RelationSubscribedChannels Relation = "subscribed_channels"
)

// ErrRelationNotFound is returned when asked to resolve a relation name the
// resolver does not know.
var ErrRelationNotFound = errors.New("relation not found")

// IsRelationNotFound checks if an error indicates an unknown relation name
func IsRelationNotFound(err error) bool {
	return errors.Is(err, ErrRelationNotFound)
}

// ActorLinked is implemented by join entities that record which user placed
// them. Actor-relative flags (isLiked, isSubscribed) are computed from it.
type ActorLinked interface {
	ActorID() uuid.UUID
}

// Resolver batch-fetches related entities for a set of base entities, one
// query per relation rather than one per row. Missing related rows are
// absent from the result maps, never errors: a deleted owner must not
// break a join.
type Resolver struct {
	repos *db.Repositories
}

// NewResolver creates a resolver over the given repositories
func NewResolver(repos *db.Repositories) *Resolver {
	return &Resolver{repos: repos}
}

// Owners resolves owner ids to user rows in a single batch query
func (r *Resolver) Owners(ctx context.Context, ownerIDs []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	return r.repos.Users.GetByIDs(ctx, dedupe(ownerIDs))
}

// VideoLikes resolves the likes of each video, keyed by video id
func (r *Resolver) VideoLikes(ctx context.Context, videoIDs []uuid.UUID) (map[uuid.UUID][]models.Like, error) {
	likes, err := r.repos.Likes.ByVideos(ctx, dedupe(videoIDs))
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID][]models.Like, len(videoIDs))
	for _, l := range likes {
		if l.VideoID == nil {
			continue
		}
		out[*l.VideoID] = append(out[*l.VideoID], l)
	}
	return out, nil
}

// CommentLikes resolves the likes of each comment, keyed by comment id
func (r *Resolver) CommentLikes(ctx context.Context, commentIDs []uuid.UUID) (map[uuid.UUID][]models.Like, error) {
	likes, err := r.repos.Likes.ByComments(ctx, dedupe(commentIDs))
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID][]models.Like, len(commentIDs))
	for _, l := range likes {
		if l.CommentID == nil {
			continue
		}
		out[*l.CommentID] = append(out[*l.CommentID], l)
	}
	return out, nil
}

// ChannelSubscribers resolves the subscriptions pointing at each channel
func (r *Resolver) ChannelSubscribers(ctx context.Context, channelIDs []uuid.UUID) (map[uuid.UUID][]models.Subscription, error) {
	subs, err := r.repos.Subscriptions.ByChannels(ctx, dedupe(channelIDs))
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID][]models.Subscription, len(channelIDs))
	for _, s := range subs {
		out[s.ChannelID] = append(out[s.ChannelID], s)
	}
	return out, nil
}

// SubscribedChannels resolves the subscriptions held by each user
func (r *Resolver) SubscribedChannels(ctx context.Context, subscriberIDs []uuid.UUID) (map[uuid.UUID][]models.Subscription, error) {
	subs, err := r.repos.Subscriptions.BySubscribers(ctx, dedupe(subscriberIDs))
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID][]models.Subscription, len(subscriberIDs))
	for _, s := range subs {
		out[s.SubscriberID] = append(out[s.SubscriberID], s)
	}
	return out, nil
}

// LatestVideos resolves each owner's most recent upload, keyed by owner id.
// One nested level for channel views: a subscribed channel carries its
// latest video.
func (r *Resolver) LatestVideos(ctx context.Context, ownerIDs []uuid.UUID) (map[uuid.UUID]*models.Video, error) {
	videos, err := r.repos.Videos.ByOwners(ctx, dedupe(ownerIDs))
	if err != nil {
		return nil, err
	}

	// rows arrive oldest first, so the last write per owner wins
	out := make(map[uuid.UUID]*models.Video, len(ownerIDs))
	for i := range videos {
		out[videos[i].OwnerID] = &videos[i]
	}
	return out, nil
}

// ActorSets resolves a flag relation by name to the set of actor ids per
// base entity. Unknown relation names fail with ErrRelationNotFound.
func (r *Resolver) ActorSets(ctx context.Context, rel Relation, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	switch rel {
	case RelationVideoLikes:
		likes, err := r.VideoLikes(ctx, ids)
		if err != nil {
			return nil, err
		}
		return actorSets(likes), nil
	case RelationCommentLikes:
		likes, err := r.CommentLikes(ctx, ids)
		if err != nil {
			return nil, err
		}
		return actorSets(likes), nil
	case RelationChannelSubscribers:
		subs, err := r.ChannelSubscribers(ctx, ids)
		if err != nil {
			return nil, err
		}
		return actorSets(subs), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrRelationNotFound, rel)
	}
}

func actorSets[T ActorLinked](joined map[uuid.UUID][]T) map[uuid.UUID][]uuid.UUID {
	out := make(map[uuid.UUID][]uuid.UUID, len(joined))
	for id, items := range joined {
		actors := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			actors = append(actors, item.ActorID())
		}
		out[id] = actors
	}
	return out
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
