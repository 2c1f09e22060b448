package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a user comment attached to exactly one video
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	VideoID   uuid.UUID `json:"video_id" gorm:"type:text;not null;column:video_id" validate:"required"`
	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:text;not null;column:owner_id" validate:"required"`
	Content   string    `json:"content" gorm:"type:text;not null;column:content" validate:"required"`
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewComment creates a new Comment with generated UUID and timestamps
func NewComment(videoID, ownerID uuid.UUID, content string) *Comment {
	now := time.Now().UTC()
	return &Comment{
		ID:        uuid.New(),
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedBy returns the immutable owner of the comment
func (c *Comment) OwnedBy() uuid.UUID {
	return c.OwnerID
}
