package view

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/models"
)

func setupTestResolver(t *testing.T) (*Resolver, *db.Repositories, func()) {
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

	return NewResolver(repos), repos, cleanup
}

func seedUser(t *testing.T, repos *db.Repositories, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+" Fullname", username+"@example.com")
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func seedVideo(t *testing.T, repos *db.Repositories, ownerID uuid.UUID, title string) *models.Video {
	t.Helper()
	video := models.NewVideo(ownerID, title, "description", title+".mp4", title+".png", 60)
	require.NoError(t, repos.Videos.Create(context.Background(), video))
	return video
}

func TestActorSets_VideoLikes(t *testing.T) {
	resolver, repos, cleanup := setupTestResolver(t)
	defer cleanup()
	ctx := context.Background()

	owner := seedUser(t, repos, "creator")
	fan1 := seedUser(t, repos, "fan1")
	fan2 := seedUser(t, repos, "fan2")
	liked := seedVideo(t, repos, owner.ID, "Liked")
	unliked := seedVideo(t, repos, owner.ID, "Unliked")

	require.NoError(t, repos.Likes.Create(ctx, models.NewVideoLike(liked.ID, fan1.ID)))
	require.NoError(t, repos.Likes.Create(ctx, models.NewVideoLike(liked.ID, fan2.ID)))

	sets, err := resolver.ActorSets(ctx, RelationVideoLikes, []uuid.UUID{liked.ID, unliked.ID})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{fan1.ID, fan2.ID}, sets[liked.ID])
	assert.Empty(t, sets[unliked.ID])
}

func TestActorSets_CommentLikes(t *testing.T) {
	resolver, repos, cleanup := setupTestResolver(t)
	defer cleanup()
	ctx := context.Background()

	owner := seedUser(t, repos, "creator")
	fan := seedUser(t, repos, "fan")
	video := seedVideo(t, repos, owner.ID, "Commented")
	comment := models.NewComment(video.ID, owner.ID, "hi")
	require.NoError(t, repos.Comments.Create(ctx, comment))
	require.NoError(t, repos.Likes.Create(ctx, models.NewCommentLike(comment.ID, fan.ID)))

	sets, err := resolver.ActorSets(ctx, RelationCommentLikes, []uuid.UUID{comment.ID})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{fan.ID}, sets[comment.ID])
}

func TestActorSets_ChannelSubscribers(t *testing.T) {
	resolver, repos, cleanup := setupTestResolver(t)
	defer cleanup()
	ctx := context.Background()

	channel := seedUser(t, repos, "channel")
	fan := seedUser(t, repos, "fan")
	require.NoError(t, repos.Subscriptions.Create(ctx, models.NewSubscription(channel.ID, fan.ID)))

	sets, err := resolver.ActorSets(ctx, RelationChannelSubscribers, []uuid.UUID{channel.ID})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{fan.ID}, sets[channel.ID])
}

func TestActorSets_UnknownRelationRejected(t *testing.T) {
	resolver, _, cleanup := setupTestResolver(t)
	defer cleanup()

	_, err := resolver.ActorSets(context.Background(), Relation("watch_history"), []uuid.UUID{uuid.New()})

	require.Error(t, err)
	assert.True(t, IsRelationNotFound(err))
}

func TestActorSets_OwnerIsNotAFlagRelation(t *testing.T) {
	resolver, _, cleanup := setupTestResolver(t)
	defer cleanup()

	// owner is a lookup join, not an actor-flag relation
	_, err := resolver.ActorSets(context.Background(), RelationOwner, nil)
	assert.True(t, IsRelationNotFound(err))
}

func TestLatestVideos_LastUploadWins(t *testing.T) {
	resolver, repos, cleanup := setupTestResolver(t)
	defer cleanup()
	ctx := context.Background()

	owner := seedUser(t, repos, "creator")

	older := models.NewVideo(owner.ID, "Older", "d", "o.mp4", "o.png", 10)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repos.Videos.Create(ctx, older))
	seedVideo(t, repos, owner.ID, "Newest")

	latest, err := resolver.LatestVideos(ctx, []uuid.UUID{owner.ID})
	require.NoError(t, err)

	require.NotNil(t, latest[owner.ID])
	assert.Equal(t, "Newest", latest[owner.ID].Title)
}
