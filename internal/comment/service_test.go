package comment

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
	service := NewService(repos, view.NewResolver(repos))

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

func createVideo(t *testing.T, repos *db.Repositories, ownerID uuid.UUID, title string) *models.Video {
	t.Helper()
	video := models.NewVideo(ownerID, title, "description", title+".mp4", title+".png", 60)
	require.NoError(t, repos.Videos.Create(context.Background(), video))
	return video
}

func TestAdd(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	commenter := createUser(t, repos, "commenter")
	video := createVideo(t, repos, owner.ID, "Commented")

	comment, err := service.Add(ctx, commenter.ID, video.ID, "great video")
	require.NoError(t, err)

	assert.Equal(t, "great video", comment.Content)
	assert.Equal(t, commenter.ID, comment.OwnerID)
	assert.Equal(t, video.ID, comment.VideoID)
}

func TestAdd_Rejections(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	video := createVideo(t, repos, owner.ID, "Commented")

	_, err := service.Add(ctx, uuid.Nil, video.ID, "anonymous")
	assert.True(t, ownership.IsUnauthenticated(err))

	_, err = service.Add(ctx, owner.ID, video.ID, "   ")
	assert.True(t, IsEmptyContent(err))

	_, err = service.Add(ctx, owner.ID, uuid.New(), "orphan")
	assert.True(t, IsVideoNotFound(err))
}

func TestListByVideo_NewestFirst(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	video := createVideo(t, repos, owner.ID, "Commented")

	for _, content := range []string{"first", "second", "third"} {
		_, err := service.Add(ctx, owner.ID, video.ID, content)
		require.NoError(t, err)
	}

	page, err := service.ListByVideo(ctx, video.ID, 1, 2, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	require.NotNil(t, page.Items[0].Owner)
	assert.Equal(t, "creator", page.Items[0].Owner.Username)
}

func TestListByVideo_MissingVideo(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.ListByVideo(context.Background(), uuid.New(), 1, 10, uuid.Nil)
	assert.True(t, IsVideoNotFound(err))
}

func TestUpdate_OwnerOnly(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	stranger := createUser(t, repos, "stranger")
	video := createVideo(t, repos, owner.ID, "Commented")

	comment, err := service.Add(ctx, owner.ID, video.ID, "original")
	require.NoError(t, err)

	_, err = service.Update(ctx, stranger.ID, comment.ID, "hijacked")
	assert.True(t, ownership.IsNotOwner(err))

	updated, err := service.Update(ctx, owner.ID, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = service.Update(ctx, owner.ID, comment.ID, "  ")
	assert.True(t, IsEmptyContent(err))
}

func TestDelete_OwnershipAndLifecycle(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	owner := createUser(t, repos, "creator")
	stranger := createUser(t, repos, "stranger")
	video := createVideo(t, repos, owner.ID, "Commented")

	comment, err := service.Add(ctx, owner.ID, video.ID, "doomed")
	require.NoError(t, err)

	err = service.Delete(ctx, stranger.ID, comment.ID)
	assert.True(t, ownership.IsNotOwner(err))

	require.NoError(t, service.Delete(ctx, owner.ID, comment.ID))

	err = service.Delete(ctx, owner.ID, comment.ID)
	assert.True(t, IsCommentNotFound(err))
}
