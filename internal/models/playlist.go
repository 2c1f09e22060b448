package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist represents a user-curated, ordered collection of videos
type Playlist struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:text;not null;column:owner_id" validate:"required"`
	Name        string    `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=255"`
	Description string    `json:"description" gorm:"type:text;not null;column:description" validate:"required"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewPlaylist creates a new Playlist with generated UUID and timestamps
func NewPlaylist(ownerID uuid.UUID, name, description string) *Playlist {
	now := time.Now().UTC()
	return &Playlist{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// OwnedBy returns the immutable owner of the playlist
func (p *Playlist) OwnedBy() uuid.UUID {
	return p.OwnerID
}

// PlaylistVideo represents a playlist membership entry. The (playlist, video)
// pair is unique so a video appears at most once per playlist.
type PlaylistVideo struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	PlaylistID uuid.UUID `json:"playlist_id" gorm:"type:text;not null;column:playlist_id" validate:"required"`
	VideoID    uuid.UUID `json:"video_id" gorm:"type:text;not null;column:video_id" validate:"required"`
	Position   int       `json:"position" gorm:"type:integer;not null;column:position" validate:"gte=0"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`

	// Populated by joins, not stored in database
	Video *Video `json:"video,omitempty" gorm:"-"`
}

// NewPlaylistVideo creates a new PlaylistVideo with generated UUID and timestamp
func NewPlaylistVideo(playlistID, videoID uuid.UUID, position int) *PlaylistVideo {
	return &PlaylistVideo{
		ID:         uuid.New(),
		PlaylistID: playlistID,
		VideoID:    videoID,
		Position:   position,
		CreatedAt:  time.Now().UTC(),
	}
}
