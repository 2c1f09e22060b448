package view

import (
	"time"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
)

// OwnerView is the slimmed owner sub-object embedded in other views. Email
// and cover image never leave the core. The channel stats are only attached
// on single-video reads; list views leave them out.
type OwnerView struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	FullName         string    `json:"full_name"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	SubscribersCount *int      `json:"subscribers_count,omitempty"`
	IsSubscribed     *bool     `json:"is_subscribed,omitempty"`
}

// VideoView is a video with its owner and engagement state folded in
type VideoView struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	VideoURL     string     `json:"video_url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Duration     int64      `json:"duration"`
	Views        int64      `json:"views"`
	IsPublished  bool       `json:"is_published"`
	Owner        *OwnerView `json:"owner,omitempty"`
	LikesCount   int        `json:"likes_count"`
	IsLiked      bool       `json:"is_liked"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CommentView is a comment with its author and engagement state folded in
type CommentView struct {
	ID         uuid.UUID  `json:"id"`
	VideoID    uuid.UUID  `json:"video_id"`
	Content    string     `json:"content"`
	Owner      *OwnerView `json:"owner,omitempty"`
	LikesCount int        `json:"likes_count"`
	IsLiked    bool       `json:"is_liked"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// PlaylistView is a playlist with its published member videos in playlist
// order and their aggregate view count
type PlaylistView struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Owner       *OwnerView  `json:"owner,omitempty"`
	Videos      []VideoView `json:"videos"`
	VideosCount int         `json:"videos_count"`
	TotalViews  int64       `json:"total_views"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// SubscriberView is one follower of a channel, with the follower's own
// audience size and whether the actor follows them back
type SubscriberView struct {
	Subscriber             *OwnerView `json:"subscriber,omitempty"`
	SubscribersCount       int        `json:"subscribers_count"`
	SubscribedToSubscriber bool       `json:"subscribed_to_subscriber"`
	SubscribedAt           time.Time  `json:"subscribed_at"`
}

// ChannelView is one channel a user follows, with the channel's latest
// upload attached
type ChannelView struct {
	Channel      *OwnerView `json:"channel,omitempty"`
	LatestVideo  *VideoView `json:"latest_video,omitempty"`
	SubscribedAt time.Time  `json:"subscribed_at"`
}

// Composition below is pure: inputs are the base entities plus join data
// already resolved, output is a fresh view, and nothing touches the store.
// A nil owner (deleted user) yields a view without the owner sub-object.

// ComposeOwner builds the owner sub-view from a user row
func ComposeOwner(u *models.User) *OwnerView {
	if u == nil {
		return nil
	}
	v := &OwnerView{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
	}
	if u.AvatarURL != nil {
		v.AvatarURL = *u.AvatarURL
	}
	return v
}

// AttachChannelStats folds a channel's resolved subscriptions into an owner
// sub-view: audience size plus whether the actor is part of it
func AttachChannelStats(o *OwnerView, subs []models.Subscription, actorID uuid.UUID) {
	if o == nil {
		return
	}
	count := len(subs)
	subscribed := actorFlag(subs, actorID)
	o.SubscribersCount = &count
	o.IsSubscribed = &subscribed
}

// ComposeVideo builds a video view from a video, its owner, and its likes
func ComposeVideo(video *models.Video, owner *models.User, likes []models.Like, actorID uuid.UUID) *VideoView {
	return &VideoView{
		ID:           video.ID,
		Title:        video.Title,
		Description:  video.Description,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		Duration:     video.Duration,
		Views:        video.Views,
		IsPublished:  video.IsPublished,
		Owner:        ComposeOwner(owner),
		LikesCount:   len(likes),
		IsLiked:      actorFlag(likes, actorID),
		CreatedAt:    video.CreatedAt,
		UpdatedAt:    video.UpdatedAt,
	}
}

// ComposeVideos builds views for a page of videos from batch-resolved joins
func ComposeVideos(videos []models.Video, owners map[uuid.UUID]*models.User, likes map[uuid.UUID][]models.Like, actorID uuid.UUID) []VideoView {
	out := make([]VideoView, 0, len(videos))
	for i := range videos {
		v := &videos[i]
		out = append(out, *ComposeVideo(v, owners[v.OwnerID], likes[v.ID], actorID))
	}
	return out
}

// ComposeComment builds a comment view from a comment, its author, and its
// likes
func ComposeComment(comment *models.Comment, owner *models.User, likes []models.Like, actorID uuid.UUID) *CommentView {
	return &CommentView{
		ID:         comment.ID,
		VideoID:    comment.VideoID,
		Content:    comment.Content,
		Owner:      ComposeOwner(owner),
		LikesCount: len(likes),
		IsLiked:    actorFlag(likes, actorID),
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}

// ComposeComments builds views for a page of comments from batch-resolved
// joins
func ComposeComments(comments []models.Comment, owners map[uuid.UUID]*models.User, likes map[uuid.UUID][]models.Like, actorID uuid.UUID) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		out = append(out, *ComposeComment(c, owners[c.OwnerID], likes[c.ID], actorID))
	}
	return out
}

// ComposePlaylist builds a playlist view with member videos in position
// order. Entries whose video has vanished or been unpublished are skipped;
// TotalViews aggregates over the videos that remain.
func ComposePlaylist(playlist *models.Playlist, owner *models.User, entries []models.PlaylistVideo, videoOwners map[uuid.UUID]*models.User, videoLikes map[uuid.UUID][]models.Like, actorID uuid.UUID) *PlaylistView {
	videos := make([]VideoView, 0, len(entries))
	var totalViews int64
	for i := range entries {
		v := entries[i].Video
		if v == nil || !v.IsPublished {
			continue
		}
		totalViews += v.Views
		videos = append(videos, *ComposeVideo(v, videoOwners[v.OwnerID], videoLikes[v.ID], actorID))
	}

	return &PlaylistView{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		Owner:       ComposeOwner(owner),
		Videos:      videos,
		VideosCount: len(videos),
		TotalViews:  totalViews,
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
	}
}

// ComposeSubscribers builds follower views for a channel's subscriptions.
// subscriberSubs maps each follower to their own subscriptions, which yields
// their audience size and the follow-back flag. Subscriptions whose user has
// vanished are skipped.
func ComposeSubscribers(subs []models.Subscription, users map[uuid.UUID]*models.User, subscriberSubs map[uuid.UUID][]models.Subscription, actorID uuid.UUID) []SubscriberView {
	out := make([]SubscriberView, 0, len(subs))
	for _, s := range subs {
		u := users[s.SubscriberID]
		if u == nil {
			continue
		}
		own := subscriberSubs[s.SubscriberID]
		out = append(out, SubscriberView{
			Subscriber:             ComposeOwner(u),
			SubscribersCount:       len(own),
			SubscribedToSubscriber: actorFlag(own, actorID),
			SubscribedAt:           s.CreatedAt,
		})
	}
	return out
}

// ComposeChannels builds channel views for a user's subscriptions, each
// carrying the channel's latest upload. Subscriptions whose channel user
// has vanished are skipped.
func ComposeChannels(subs []models.Subscription, users map[uuid.UUID]*models.User, latest map[uuid.UUID]*models.Video, likes map[uuid.UUID][]models.Like, actorID uuid.UUID) []ChannelView {
	out := make([]ChannelView, 0, len(subs))
	for _, s := range subs {
		u := users[s.ChannelID]
		if u == nil {
			continue
		}

		cv := ChannelView{
			Channel:      ComposeOwner(u),
			SubscribedAt: s.CreatedAt,
		}
		if v := latest[s.ChannelID]; v != nil {
			cv.LatestVideo = ComposeVideo(v, u, likes[v.ID], actorID)
		}
		out = append(out, cv)
	}
	return out
}

// actorFlag reports whether the actor appears among a join's actors.
// An anonymous actor always reads false.
func actorFlag[T ActorLinked](items []T, actorID uuid.UUID) bool {
	if actorID == uuid.Nil {
		return false
	}
	for _, item := range items {
		if item.ActorID() == actorID {
			return true
		}
	}
	return false
}
