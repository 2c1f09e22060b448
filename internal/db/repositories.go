package db

// Repositories provides access to all database repositories
type Repositories struct {
	Users         *UserRepository
	Videos        *VideoRepository
	Comments      *CommentRepository
	Likes         *LikeRepository
	Subscriptions *SubscriptionRepository
	Playlists     *PlaylistRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Videos:        NewVideoRepository(db),
		Comments:      NewCommentRepository(db),
		Likes:         NewLikeRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Playlists:     NewPlaylistRepository(db),
	}
}
