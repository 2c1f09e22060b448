package models

import (
	"time"

	"github.com/google/uuid"
)

// Like is a join entity recording that a user liked a single target.
// Exactly one of VideoID and CommentID is set; the pair (target, liked_by)
// is unique, enforced by partial unique indexes at the store.
type Like struct {
	ID        uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	VideoID   *uuid.UUID `json:"video_id,omitempty" gorm:"type:text;column:video_id"`
	CommentID *uuid.UUID `json:"comment_id,omitempty" gorm:"type:text;column:comment_id"`
	LikedBy   uuid.UUID  `json:"liked_by" gorm:"type:text;not null;column:liked_by" validate:"required"`
	CreatedAt time.Time  `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewVideoLike creates a Like targeting a video
func NewVideoLike(videoID, likedBy uuid.UUID) *Like {
	return &Like{
		ID:        uuid.New(),
		VideoID:   &videoID,
		LikedBy:   likedBy,
		CreatedAt: time.Now().UTC(),
	}
}

// NewCommentLike creates a Like targeting a comment
func NewCommentLike(commentID, likedBy uuid.UUID) *Like {
	return &Like{
		ID:        uuid.New(),
		CommentID: &commentID,
		LikedBy:   likedBy,
		CreatedAt: time.Now().UTC(),
	}
}

// ActorID returns the user the like belongs to
func (l Like) ActorID() uuid.UUID {
	return l.LikedBy
}
