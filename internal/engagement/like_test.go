package engagement

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/ownership"
	"github.com/videotube/videotube/internal/toggle"
	"github.com/videotube/videotube/internal/view"
)

func setupTestRepos(t *testing.T) (*db.Repositories, *view.Resolver, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	err = db.RunMigrations(sqlDB, "file://../../migrations")
	require.NoError(t, err)

	repos := db.NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return repos, view.NewResolver(repos), cleanup
}

func createUser(t *testing.T, repos *db.Repositories, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+" Fullname", username+"@example.com")
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func createVideo(t *testing.T, repos *db.Repositories, ownerID uuid.UUID, title string) *models.Video {
	t.Helper()
	video := models.NewVideo(ownerID, title, "description", title+".mp4", title+".png", 60)
	require.NoError(t, repos.Videos.Create(context.Background(), video))
	return video
}

func TestToggleVideoLike_RoundTrip(t *testing.T) {
	repos, resolver, cleanup := setupTestRepos(t)
	defer cleanup()
	ctx := context.Background()
	service := NewLikeService(repos, resolver)

	owner := createUser(t, repos, "creator")
	fan := createUser(t, repos, "fan")
	video := createVideo(t, repos, owner.ID, "Liked")

	state, err := service.ToggleVideoLike(ctx, fan.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, toggle.Present, state)

	likes, err := resolver.VideoLikes(ctx, []uuid.UUID{video.ID})
	require.NoError(t, err)
	assert.Len(t, likes[video.ID], 1)

	state, err = service.ToggleVideoLike(ctx, fan.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, toggle.Absent, state)

	likes, err = resolver.VideoLikes(ctx, []uuid.UUID{video.ID})
	require.NoError(t, err)
	assert.Empty(t, likes[video.ID])
}

func TestToggleVideoLike_Rejections(t *testing.T) {
	repos, resolver, cleanup := setupTestRepos(t)
	defer cleanup()
	ctx := context.Background()
	service := NewLikeService(repos, resolver)

	fan := createUser(t, repos, "fan")

	_, err := service.ToggleVideoLike(ctx, uuid.Nil, uuid.New())
	assert.True(t, ownership.IsUnauthenticated(err))

	_, err = service.ToggleVideoLike(ctx, fan.ID, uuid.New())
	assert.True(t, IsVideoNotFound(err))
}

func TestToggleCommentLike_RoundTrip(t *testing.T) {
	repos, resolver, cleanup := setupTestRepos(t)
	defer cleanup()
	ctx := context.Background()
	service := NewLikeService(repos, resolver)

	owner := createUser(t, repos, "creator")
	fan := createUser(t, repos, "fan")
	video := createVideo(t, repos, owner.ID, "Commented")
	comment := models.NewComment(video.ID, owner.ID, "hi")
	require.NoError(t, repos.Comments.Create(ctx, comment))

	state, err := service.ToggleCommentLike(ctx, fan.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, toggle.Present, state)

	state, err = service.ToggleCommentLike(ctx, fan.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, toggle.Absent, state)

	_, err = service.ToggleCommentLike(ctx, fan.ID, uuid.New())
	assert.True(t, IsCommentNotFound(err))
}

func TestLikedVideos_RecencyOrderSkipsVanished(t *testing.T) {
	repos, resolver, cleanup := setupTestRepos(t)
	defer cleanup()
	ctx := context.Background()
	service := NewLikeService(repos, resolver)

	owner := createUser(t, repos, "creator")
	fan := createUser(t, repos, "fan")
	v1 := createVideo(t, repos, owner.ID, "First")
	v2 := createVideo(t, repos, owner.ID, "Second")
	v3 := createVideo(t, repos, owner.ID, "Gone")

	for _, v := range []*models.Video{v1, v2, v3} {
		_, err := service.ToggleVideoLike(ctx, fan.ID, v.ID)
		require.NoError(t, err)
	}

	// deleting a liked video must not break the listing
	require.NoError(t, repos.Videos.Delete(ctx, v3.ID))

	page, err := service.LikedVideos(ctx, fan.ID, 1, 10)
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.True(t, item.IsLiked)
		assert.Equal(t, 1, item.LikesCount)
	}

	_, err = service.LikedVideos(ctx, uuid.Nil, 1, 10)
	assert.True(t, ownership.IsUnauthenticated(err))
}

func TestVideoEngagementLifecycle(t *testing.T) {
	repos, resolver, cleanup := setupTestRepos(t)
	defer cleanup()
	ctx := context.Background()
	service := NewLikeService(repos, resolver)

	creator := createUser(t, repos, "creator")
	viewer := createUser(t, repos, "viewer")
	video := createVideo(t, repos, creator.ID, "Lifecycle")

	// viewer likes, count goes to one
	state, err := service.ToggleVideoLike(ctx, viewer.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, toggle.Present, state)

	owners, err := resolver.Owners(ctx, []uuid.UUID{video.OwnerID})
	require.NoError(t, err)
	likes, err := resolver.VideoLikes(ctx, []uuid.UUID{video.ID})
	require.NoError(t, err)

	composed := view.ComposeVideo(video, owners[video.OwnerID], likes[video.ID], viewer.ID)
	assert.Equal(t, 1, composed.LikesCount)
	assert.True(t, composed.IsLiked)

	// viewer unlikes, count drops back to zero
	state, err = service.ToggleVideoLike(ctx, viewer.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, toggle.Absent, state)

	likes, err = resolver.VideoLikes(ctx, []uuid.UUID{video.ID})
	require.NoError(t, err)
	composed = view.ComposeVideo(video, owners[video.OwnerID], likes[video.ID], viewer.ID)
	assert.Equal(t, 0, composed.LikesCount)
	assert.False(t, composed.IsLiked)
}
