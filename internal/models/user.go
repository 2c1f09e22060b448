package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a platform account. The core treats users as a read-only
// reference: account management lives upstream of this service.
type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Username      string    `json:"username" gorm:"type:text;not null;uniqueIndex;column:username" validate:"required,min=1,max=64"`
	FullName      string    `json:"full_name" gorm:"type:text;not null;column:full_name" validate:"required"`
	Email         string    `json:"email" gorm:"type:text;not null;uniqueIndex;column:email" validate:"required,email"`
	AvatarURL     *string   `json:"avatar_url,omitempty" gorm:"type:text;column:avatar_url"`
	CoverImageURL *string   `json:"cover_image_url,omitempty" gorm:"type:text;column:cover_image_url"`
	CreatedAt     time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewUser creates a new User with generated UUID and timestamp
func NewUser(username, fullName, email string) *User {
	return &User{
		ID:        uuid.New(),
		Username:  username,
		FullName:  fullName,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
}
