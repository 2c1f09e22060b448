package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/query"
)

// setupTestDB creates a repository set backed by a temporary database
func setupTestDB(t *testing.T) (*Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	err = RunMigrations(sqlDB, "file://../../migrations")
	require.NoError(t, err)

	repos := NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return repos, cleanup
}

func createTestUser(t *testing.T, repos *Repositories, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+" Fullname", username+"@example.com")
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func createTestVideo(t *testing.T, repos *Repositories, ownerID uuid.UUID, title string) *models.Video {
	t.Helper()
	video := models.NewVideo(ownerID, title, "description", title+".mp4", title+".png", 60)
	require.NoError(t, repos.Videos.Create(context.Background(), video))
	return video
}

func TestUserRepository_GetByIDs(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	u1 := createTestUser(t, repos, "alice")
	u2 := createTestUser(t, repos, "bob")
	missing := uuid.New()

	users, err := repos.Users.GetByIDs(ctx, []uuid.UUID{u1.ID, u2.ID, missing})
	require.NoError(t, err)

	assert.Len(t, users, 2)
	assert.Equal(t, "alice", users[u1.ID].Username)
	assert.Equal(t, "bob", users[u2.ID].Username)
	assert.Nil(t, users[missing])
}

func TestVideoRepository_CRUD(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, repos, "creator")
	video := createTestVideo(t, repos, owner.ID, "First")

	got, err := repos.Videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
	assert.True(t, got.IsPublished)

	// zero-value field updates must stick
	got.Title = "Renamed"
	got.IsPublished = false
	require.NoError(t, repos.Videos.Update(ctx, got))

	got, err = repos.Videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.False(t, got.IsPublished)

	require.NoError(t, repos.Videos.Delete(ctx, video.ID))

	_, err = repos.Videos.GetByID(ctx, video.ID)
	assert.True(t, IsNotFound(err))
}

func TestVideoRepository_UpdateMissingRow(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()

	ghost := models.NewVideo(uuid.New(), "Ghost", "d", "g.mp4", "g.png", 10)
	err := repos.Videos.Update(context.Background(), ghost)
	assert.True(t, IsNotFound(err))
}

func TestVideoRepository_IncrementViews(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, repos, "creator")
	video := createTestVideo(t, repos, owner.ID, "Counted")

	require.NoError(t, repos.Videos.IncrementViews(ctx, video.ID))
	require.NoError(t, repos.Videos.IncrementViews(ctx, video.ID))

	got, err := repos.Videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)

	err = repos.Videos.IncrementViews(ctx, uuid.New())
	assert.True(t, IsNotFound(err))
}

func TestVideoRepository_Feed(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	alice := createTestUser(t, repos, "alice")
	bob := createTestUser(t, repos, "bob")

	published := createTestVideo(t, repos, alice.ID, "Published")
	other := createTestVideo(t, repos, bob.ID, "Other")

	draft := models.NewVideo(alice.ID, "Draft", "d", "d.mp4", "d.png", 30)
	draft.IsPublished = false
	require.NoError(t, repos.Videos.Create(ctx, draft))

	t.Run("published only hides drafts", func(t *testing.T) {
		feed := query.NewFeed(uuid.Nil, true, query.DefaultSort)
		seq := repos.Videos.Feed(feed)

		total, err := seq.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("owner filter", func(t *testing.T) {
		feed := query.NewFeed(alice.ID, false, query.DefaultSort)
		seq := repos.Videos.Feed(feed)

		items, err := seq.Window(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, items, 2)
		for _, v := range items {
			assert.Equal(t, alice.ID, v.OwnerID)
		}
	})

	t.Run("restricted to candidate set", func(t *testing.T) {
		feed := query.NewFeed(uuid.Nil, false, query.DefaultSort)
		feed.RestrictTo([]uuid.UUID{published.ID, other.ID})
		seq := repos.Videos.Feed(feed)

		total, err := seq.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("empty candidate set matches nothing", func(t *testing.T) {
		feed := query.NewFeed(uuid.Nil, false, query.DefaultSort)
		feed.RestrictTo(nil)
		seq := repos.Videos.Feed(feed)

		total, err := seq.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)

		items, err := seq.Window(ctx, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestVideoRepository_ByOwnersSkipsDrafts(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, repos, "creator")
	createTestVideo(t, repos, owner.ID, "Public")

	draft := models.NewVideo(owner.ID, "Draft", "d", "d.mp4", "d.png", 30)
	draft.IsPublished = false
	require.NoError(t, repos.Videos.Create(ctx, draft))

	videos, err := repos.Videos.ByOwners(ctx, []uuid.UUID{owner.ID})
	require.NoError(t, err)

	require.Len(t, videos, 1)
	assert.Equal(t, "Public", videos[0].Title)
}

func TestVideoRepository_FeedSortByViews(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, repos, "creator")
	low := createTestVideo(t, repos, owner.ID, "Low")
	high := createTestVideo(t, repos, owner.ID, "High")

	for i := 0; i < 5; i++ {
		require.NoError(t, repos.Videos.IncrementViews(ctx, high.ID))
	}
	require.NoError(t, repos.Videos.IncrementViews(ctx, low.ID))

	sort, err := query.ParseSort("views", "desc")
	require.NoError(t, err)
	seq := repos.Videos.Feed(query.NewFeed(uuid.Nil, false, sort))

	items, err := seq.Window(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "High", items[0].Title)
	assert.Equal(t, "Low", items[1].Title)
}

func TestCommentRepository_ByVideoOrder(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, repos, "creator")
	video := createTestVideo(t, repos, owner.ID, "Commented")

	for i := 0; i < 3; i++ {
		c := models.NewComment(video.ID, owner.ID, fmt.Sprintf("comment %d", i))
		require.NoError(t, repos.Comments.Create(ctx, c))
	}

	seq := repos.Comments.ByVideo(video.ID)
	total, err := seq.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	items, err := seq.Window(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestLikeRepository_UniquePairPerTarget(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, repos, "creator")
	fan := createTestUser(t, repos, "fan")
	video := createTestVideo(t, repos, owner.ID, "Liked")

	require.NoError(t, repos.Likes.Create(ctx, models.NewVideoLike(video.ID, fan.ID)))

	// second like on the same video by the same user hits the unique index
	err := repos.Likes.Create(ctx, models.NewVideoLike(video.ID, fan.ID))
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	// the same user liking a comment is a different pair
	c := models.NewComment(video.ID, owner.ID, "hi")
	require.NoError(t, repos.Comments.Create(ctx, c))
	assert.NoError(t, repos.Likes.Create(ctx, models.NewCommentLike(c.ID, fan.ID)))
}

func TestLikeRepository_CascadeOnVideoDelete(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, repos, "creator")
	fan := createTestUser(t, repos, "fan")
	video := createTestVideo(t, repos, owner.ID, "Doomed")

	require.NoError(t, repos.Likes.Create(ctx, models.NewVideoLike(video.ID, fan.ID)))
	require.NoError(t, repos.Videos.Delete(ctx, video.ID))

	likes, err := repos.Likes.ByVideos(ctx, []uuid.UUID{video.ID})
	require.NoError(t, err)
	assert.Empty(t, likes)
}

func TestSubscriptionRepository_Constraints(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	channel := createTestUser(t, repos, "channel")
	fan := createTestUser(t, repos, "fan")

	require.NoError(t, repos.Subscriptions.Create(ctx, models.NewSubscription(channel.ID, fan.ID)))

	err := repos.Subscriptions.Create(ctx, models.NewSubscription(channel.ID, fan.ID))
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	// self-subscription violates the schema check
	err = repos.Subscriptions.Create(ctx, models.NewSubscription(channel.ID, channel.ID))
	require.Error(t, err)
}

func TestPlaylistRepository_AddVideoPositions(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, repos, "curator")
	v1 := createTestVideo(t, repos, owner.ID, "One")
	v2 := createTestVideo(t, repos, owner.ID, "Two")
	p := models.NewPlaylist(owner.ID, "Mix", "my mix")
	require.NoError(t, repos.Playlists.Create(ctx, p))

	e1, err := repos.Playlists.AddVideo(ctx, p.ID, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, e1.Position)

	e2, err := repos.Playlists.AddVideo(ctx, p.ID, v2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, e2.Position)

	// re-adding hits the unique pair index
	_, err = repos.Playlists.AddVideo(ctx, p.ID, v1.ID)
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
}

func TestPlaylistRepository_VideosByPlaylists(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, repos, "curator")
	v1 := createTestVideo(t, repos, owner.ID, "One")
	v2 := createTestVideo(t, repos, owner.ID, "Two")
	p := models.NewPlaylist(owner.ID, "Mix", "my mix")
	require.NoError(t, repos.Playlists.Create(ctx, p))

	_, err := repos.Playlists.AddVideo(ctx, p.ID, v1.ID)
	require.NoError(t, err)
	_, err = repos.Playlists.AddVideo(ctx, p.ID, v2.ID)
	require.NoError(t, err)

	entries, err := repos.Playlists.VideosByPlaylists(ctx, []uuid.UUID{p.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "One", entries[0].Video.Title)
	assert.Equal(t, "Two", entries[1].Video.Title)
}

func TestPlaylistRepository_RemoveVideo(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, repos, "curator")
	v1 := createTestVideo(t, repos, owner.ID, "One")
	p := models.NewPlaylist(owner.ID, "Mix", "my mix")
	require.NoError(t, repos.Playlists.Create(ctx, p))

	_, err := repos.Playlists.AddVideo(ctx, p.ID, v1.ID)
	require.NoError(t, err)

	require.NoError(t, repos.Playlists.RemoveVideo(ctx, p.ID, v1.ID))

	err = repos.Playlists.RemoveVideo(ctx, p.ID, v1.ID)
	assert.True(t, IsNotFound(err))
}
