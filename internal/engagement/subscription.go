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

// SubscriptionService handles business logic for channel subscriptions
type SubscriptionService struct {
	repos         *db.Repositories
	resolver      *view.Resolver
	subscriptions *toggle.Coordinator
}

// NewSubscriptionService creates a new subscription service instance
func NewSubscriptionService(repos *db.Repositories, resolver *view.Resolver) *SubscriptionService {
	return &SubscriptionService{
		repos:         repos,
		resolver:      resolver,
		subscriptions: toggle.NewCoordinator("subscription", repos.Subscriptions.SubscriptionStore()),
	}
}

// Toggle flips the actor's subscription to a channel and returns the
// resulting state. The channel is verified before the join table is
// touched, and a channel can never subscribe to itself.
func (s *SubscriptionService) Toggle(ctx context.Context, actorID, channelID uuid.UUID) (toggle.State, error) {
	if actorID == uuid.Nil {
		return "", ownership.ErrUnauthenticated
	}
	if actorID == channelID {
		return "", ErrSelfSubscribe
	}

	exists, err := s.repos.Users.Exists(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("failed to verify channel: %w", err)
	}
	if !exists {
		return "", ErrChannelNotFound
	}

	state, err := s.subscriptions.Toggle(ctx, actorID, channelID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", channelID.String()).
			Str("actor_id", actorID.String()).
			Msg("Failed to toggle subscription")
		return "", fmt.Errorf("failed to toggle subscription: %w", err)
	}

	logger.Log.Debug().
		Str("channel_id", channelID.String()).
		Str("actor_id", actorID.String()).
		Str("state", string(state)).
		Msg("Subscription toggled")

	return state, nil
}

// ChannelSubscribers returns a page of a channel's followers, oldest
// subscription first, each with their own audience size and whether the
// actor follows them back
func (s *SubscriptionService) ChannelSubscribers(ctx context.Context, channelID uuid.UUID, page, limit int, actorID uuid.UUID) (*pagination.Page[view.SubscriberView], error) {
	exists, err := s.repos.Users.Exists(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify channel: %w", err)
	}
	if !exists {
		return nil, ErrChannelNotFound
	}

	byChannel, err := s.resolver.ChannelSubscribers(ctx, []uuid.UUID{channelID})
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", channelID.String()).
			Msg("Failed to resolve channel subscribers")
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	p, err := pagination.Paginate(ctx, pagination.FromSlice(byChannel[channelID]), page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	followerIDs := subscriberIDs(p.Items)
	users, err := s.resolver.Owners(ctx, followerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subscriber users: %w", err)
	}
	subscriberSubs, err := s.resolver.ChannelSubscribers(ctx, followerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subscriber audiences: %w", err)
	}

	return pagination.Convert(p, view.ComposeSubscribers(p.Items, users, subscriberSubs, actorID)), nil
}

// SubscribedChannels returns a page of the channels a user follows, each
// with the channel's latest upload attached
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID, page, limit int) (*pagination.Page[view.ChannelView], error) {
	if subscriberID == uuid.Nil {
		return nil, ownership.ErrUnauthenticated
	}

	bySubscriber, err := s.resolver.SubscribedChannels(ctx, []uuid.UUID{subscriberID})
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("subscriber_id", subscriberID.String()).
			Msg("Failed to resolve subscribed channels")
		return nil, fmt.Errorf("failed to list subscribed channels: %w", err)
	}

	p, err := pagination.Paginate(ctx, pagination.FromSlice(bySubscriber[subscriberID]), page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed channels: %w", err)
	}

	channelIDs := make([]uuid.UUID, 0, len(p.Items))
	for _, sub := range p.Items {
		channelIDs = append(channelIDs, sub.ChannelID)
	}

	users, err := s.resolver.Owners(ctx, channelIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel users: %w", err)
	}
	latest, err := s.resolver.LatestVideos(ctx, channelIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest videos: %w", err)
	}

	likes, err := s.resolver.VideoLikes(ctx, latestVideoIDs(latest))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest video likes: %w", err)
	}

	return pagination.Convert(p, view.ComposeChannels(p.Items, users, latest, likes, subscriberID)), nil
}

func subscriberIDs(subs []models.Subscription) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.SubscriberID)
	}
	return out
}

func latestVideoIDs(latest map[uuid.UUID]*models.Video) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(latest))
	for _, v := range latest {
		if v != nil {
			out = append(out, v.ID)
		}
	}
	return out
}
