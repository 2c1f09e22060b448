package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a join entity recording that a user follows a channel.
// The (channel, subscriber) pair is unique and a channel cannot subscribe
// to itself; both are enforced by the store schema.
type Subscription struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	ChannelID    uuid.UUID `json:"channel_id" gorm:"type:text;not null;column:channel_id" validate:"required"`
	SubscriberID uuid.UUID `json:"subscriber_id" gorm:"type:text;not null;column:subscriber_id" validate:"required"`
	CreatedAt    time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewSubscription creates a new Subscription with generated UUID and timestamp
func NewSubscription(channelID, subscriberID uuid.UUID) *Subscription {
	return &Subscription{
		ID:           uuid.New(),
		ChannelID:    channelID,
		SubscriberID: subscriberID,
		CreatedAt:    time.Now().UTC(),
	}
}

// ActorID returns the user the subscription belongs to
func (s Subscription) ActorID() uuid.UUID {
	return s.SubscriberID
}
