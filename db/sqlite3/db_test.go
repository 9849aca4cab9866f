package sqlite3_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/vidstream/accounts"
	"github.com/nasermirzaei89/vidstream/contents"
	"github.com/nasermirzaei89/vidstream/db/sqlite3"
	"github.com/nasermirzaei89/vidstream/discuss"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)",
		uuid.NewString(),
	)

	db, err := sqlite3.NewDB(ctx, dsn)
	require.NoError(t, err)

	// Serialize writers; sqlite has a single-writer model anyway.
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		err := db.Close()
		require.NoError(t, err)
	})

	err = sqlite3.MigrateUp(ctx, db)
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, db *sql.DB) *accounts.User {
	t.Helper()

	now := time.Now()

	user := &accounts.User{
		ID:          uuid.NewString(),
		Handle:      "user-" + uuid.NewString(),
		DisplayName: "Test User",
		AvatarURL:   "https://cdn.example.com/avatar.png",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := sqlite3.NewUserRepository(db).Insert(context.Background(), user)
	require.NoError(t, err)

	return user
}

func seedVideo(t *testing.T, db *sql.DB, ownerID string, published bool) *contents.Video {
	t.Helper()

	video := &contents.Video{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     "test video",
		Published: published,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := sqlite3.NewVideoRepository(db).Insert(context.Background(), video)
	require.NoError(t, err)

	return video
}

func seedTweet(t *testing.T, db *sql.DB, ownerID string) *contents.Tweet {
	t.Helper()

	tweet := &contents.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Content:   "test tweet",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := sqlite3.NewTweetRepository(db).Insert(context.Background(), tweet)
	require.NoError(t, err)

	return tweet
}

func seedComment(
	t *testing.T,
	db *sql.DB,
	ownerID string,
	parent discuss.Parent,
	createdAt time.Time,
) *discuss.Comment {
	t.Helper()

	comment := &discuss.Comment{
		ID:        uuid.NewString(),
		Content:   "test comment",
		Parent:    parent,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	err := sqlite3.NewCommentRepository(db).Insert(context.Background(), comment)
	require.NoError(t, err)

	return comment
}
