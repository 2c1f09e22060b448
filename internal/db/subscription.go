package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
)

// SubscriptionRepository handles database operations for subscriptions
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a new subscription. A second row for the same
// (channel, subscriber) pair violates the unique index and surfaces
// ErrDuplicate.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	result := r.db.WithContext(ctx).Create(sub)
	if result.Error != nil {
		return fmt.Errorf("failed to create subscription: %w", MapGormError(result.Error))
	}
	return nil
}

// Delete deletes a subscription by its UUID
func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Subscription{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Find retrieves the subscription of a user to a channel, if any
func (r *SubscriptionRepository) Find(ctx context.Context, channelID, subscriberID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	result := r.db.WithContext(ctx).
		Where("channel_id = ? AND subscriber_id = ?", channelID.String(), subscriberID.String()).
		First(&sub)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &sub, nil
}

// ByChannels retrieves all subscriptions to any of the given channels
func (r *SubscriptionRepository) ByChannels(ctx context.Context, channelIDs []uuid.UUID) ([]models.Subscription, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}

	var subs []models.Subscription
	result := r.db.WithContext(ctx).
		Where("channel_id IN ?", uuidStrings(channelIDs)).
		Order("created_at ASC, id ASC").
		Find(&subs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions by channels: %w", MapGormError(result.Error))
	}
	return subs, nil
}

// BySubscribers retrieves all subscriptions held by any of the given users
func (r *SubscriptionRepository) BySubscribers(ctx context.Context, subscriberIDs []uuid.UUID) ([]models.Subscription, error) {
	if len(subscriberIDs) == 0 {
		return nil, nil
	}

	var subs []models.Subscription
	result := r.db.WithContext(ctx).
		Where("subscriber_id IN ?", uuidStrings(subscriberIDs)).
		Order("created_at ASC, id ASC").
		Find(&subs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions by subscribers: %w", MapGormError(result.Error))
	}
	return subs, nil
}
