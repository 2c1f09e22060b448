package models

import (
	"time"

	"github.com/google/uuid"
)

// Video represents a published or draft video entity. The media and thumbnail
// URLs are stable references produced by the upload pipeline; this service
// never touches the binary content behind them.
type Video struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	OwnerID      uuid.UUID `json:"owner_id" gorm:"type:text;not null;column:owner_id" validate:"required"`
	Title        string    `json:"title" gorm:"type:text;not null;column:title" validate:"required,min=1,max=255"`
	Description  string    `json:"description" gorm:"type:text;not null;column:description" validate:"required"`
	VideoURL     string    `json:"video_url" gorm:"type:text;not null;column:video_url" validate:"required"`
	ThumbnailURL string    `json:"thumbnail_url" gorm:"type:text;not null;column:thumbnail_url" validate:"required"`
	Duration     int64     `json:"duration" gorm:"type:integer;not null;column:duration" validate:"required,gt=0"` // seconds
	Views        int64     `json:"views" gorm:"type:integer;not null;default:0;column:views"`
	IsPublished  bool      `json:"is_published" gorm:"type:integer;not null;default:0;column:is_published"`
	CreatedAt    time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewVideo creates a new Video with generated UUID and timestamps
func NewVideo(ownerID uuid.UUID, title, description, videoURL, thumbnailURL string, duration int64) *Video {
	now := time.Now().UTC()
	return &Video{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        title,
		Description:  description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     duration,
		IsPublished:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// OwnedBy returns the immutable owner of the video
func (v *Video) OwnedBy() uuid.UUID {
	return v.OwnerID
}
