package video

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
	"github.com/videotube/videotube/internal/search"
	"github.com/videotube/videotube/internal/view"
)

func setupTestService(t *testing.T) (*Service, *db.Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	err = db.RunMigrations(sqlDB, "file://../../migrations")
	require.NoError(t, err)

	repos := db.NewRepositories(database)
	resolver := view.NewResolver(repos)
	service := NewService(repos, resolver, search.NewSQLiteProvider(database))

	cleanup := func() {
		_ = database.Close()
	}

	return service, repos, cleanup
}

func createUser(t *testing.T, repos *db.Repositories, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+" Fullname", username+"@example.com")
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func publishTestVideo(t *testing.T, service *Service, ownerID uuid.UUID, title string) *models.Video {
	t.Helper()
	video, err := service.Publish(context.Background(), ownerID, PublishParams{
		Title:        title,
		Description:  "description",
		VideoURL:     title + ".mp4",
		ThumbnailURL: title + ".png",
		Duration:     60,
	})
	require.NoError(t, err)
	return video
}

func TestPublish(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	owner := createUser(t, repos, "creator")
	video := publishTestVideo(t, service, owner.ID, "My Video")

	assert.Equal(t, "My Video", video.Title)
	assert.Equal(t, owner.ID, video.OwnerID)
	assert.True(t, video.IsPublished)
	assert.NotEqual(t, uuid.Nil, video.ID)
}

func TestPublish_AnonymousRejected(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Publish(context.Background(), uuid.Nil, PublishParams{
		Title: "x", Description: "x", VideoURL: "x.mp4", ThumbnailURL: "x.png", Duration: 1,
	})
	assert.True(t, ownership.IsUnauthenticated(err))
}

func TestPublish_UnknownActorRejected(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Publish(context.Background(), uuid.New(), PublishParams{
		Title: "x", Description: "x", VideoURL: "x.mp4", ThumbnailURL: "x.png", Duration: 1,
	})
	assert.True(t, ownership.IsUnauthenticated(err))
}

func TestPublish_InvalidInput(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	owner := createUser(t, repos, "creator")

	tests := []struct {
		name   string
		params PublishParams
	}{
		{"missing title", PublishParams{Description: "d", VideoURL: "v", ThumbnailURL: "t", Duration: 1}},
		{"missing description", PublishParams{Title: "t", VideoURL: "v", ThumbnailURL: "t", Duration: 1}},
		{"missing video url", PublishParams{Title: "t", Description: "d", ThumbnailURL: "t", Duration: 1}},
		{"missing thumbnail", PublishParams{Title: "t", Description: "d", VideoURL: "v", Duration: 1}},
		{"zero duration", PublishParams{Title: "t", Description: "d", VideoURL: "v", ThumbnailURL: "t", Duration: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Publish(context.Background(), owner.ID, tt.params)
			assert.True(t, IsInvalidInput(err))
		})
	}
}

func TestGetByID_ComposesAndCountsView(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	video := publishTestVideo(t, service, owner.ID, "Watched")

	v, err := service.GetByID(ctx, video.ID, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), v.Views)
	require.NotNil(t, v.Owner)
	assert.Equal(t, "creator", v.Owner.Username)
	assert.False(t, v.IsLiked)

	// single-video reads attach the owner's channel stats
	require.NotNil(t, v.Owner.SubscribersCount)
	assert.Equal(t, 0, *v.Owner.SubscribersCount)
	require.NotNil(t, v.Owner.IsSubscribed)
	assert.False(t, *v.Owner.IsSubscribed)

	v, err = service.GetByID(ctx, video.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Views)
}

func TestGetByID_NotFound(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.GetByID(context.Background(), uuid.New(), uuid.Nil)
	assert.True(t, IsVideoNotFound(err))
}

func TestList_PublishedOnly(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	publishTestVideo(t, service, owner.ID, "Visible")

	hidden := publishTestVideo(t, service, owner.ID, "Hidden")
	_, err := service.TogglePublish(ctx, owner.ID, hidden.ID)
	require.NoError(t, err)

	page, err := service.List(ctx, ListParams{}, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Visible", page.Items[0].Title)
}

func TestList_SearchRestrictsFeed(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	publishTestVideo(t, service, owner.ID, "Cooking pasta at home")
	publishTestVideo(t, service, owner.ID, "Woodworking basics")

	page, err := service.List(ctx, ListParams{Query: "pasta"}, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Cooking pasta at home", page.Items[0].Title)

	page, err = service.List(ctx, ListParams{Query: "no such video"}, uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.TotalItems)
}

func TestList_OwnerFilterAndSort(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	alice := createUser(t, repos, "alice")
	bob := createUser(t, repos, "bob")

	publish := func(title string, duration int64) {
		_, err := service.Publish(ctx, alice.ID, PublishParams{
			Title: title, Description: "d", VideoURL: title + ".mp4",
			ThumbnailURL: title + ".png", Duration: duration,
		})
		require.NoError(t, err)
	}
	publish("Long", 300)
	publish("Short", 30)
	publishTestVideo(t, service, bob.ID, "Other")

	page, err := service.List(ctx, ListParams{
		OwnerID:   alice.ID,
		SortField: "duration",
		SortDir:   "asc",
	}, uuid.Nil)
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "Short", page.Items[0].Title)
	assert.Equal(t, "Long", page.Items[1].Title)
}

func TestList_UnknownSortRejected(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.List(context.Background(), ListParams{SortField: "owner_id"}, uuid.Nil)
	assert.Error(t, err)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	stranger := createUser(t, repos, "stranger")
	video := publishTestVideo(t, service, owner.ID, "Original")

	_, err := service.Update(ctx, stranger.ID, video.ID, UpdateParams{
		Title: "Hijacked", Description: "d",
	})
	assert.True(t, ownership.IsNotOwner(err))

	updated, err := service.Update(ctx, owner.ID, video.ID, UpdateParams{
		Title: "Renamed", Description: "new description",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	// empty thumbnail keeps the existing one
	assert.Equal(t, video.ThumbnailURL, updated.ThumbnailURL)
}

func TestTogglePublish_RoundTrip(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	video := publishTestVideo(t, service, owner.ID, "Flipped")

	v, err := service.TogglePublish(ctx, owner.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, v.IsPublished)

	v, err = service.TogglePublish(ctx, owner.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, v.IsPublished)
}

func TestDelete_OwnershipAndLifecycle(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	stranger := createUser(t, repos, "stranger")
	video := publishTestVideo(t, service, owner.ID, "Doomed")

	err := service.Delete(ctx, stranger.ID, video.ID)
	assert.True(t, ownership.IsNotOwner(err))

	require.NoError(t, service.Delete(ctx, owner.ID, video.ID))

	err = service.Delete(ctx, owner.ID, video.ID)
	assert.True(t, IsVideoNotFound(err))
}
