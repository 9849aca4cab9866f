package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/vidstream/contents"
)

const tableTweets = "tweets"

type TweetRepository struct {
	db *sql.DB
}

var _ contents.TweetRepository = (*TweetRepository)(nil)

func NewTweetRepository(db *sql.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

const (
	tweetFieldID        = "id"
	tweetFieldOwnerID   = "owner_id"
	tweetFieldContent   = "content"
	tweetFieldCreatedAt = "created_at"
	tweetFieldUpdatedAt = "updated_at"
)

func tweetColumns() []string {
	return []string{
		tweetFieldID,
		tweetFieldOwnerID,
		tweetFieldContent,
		tweetFieldCreatedAt,
		tweetFieldUpdatedAt,
	}
}

func scanTweet(row sq.RowScanner) (*contents.Tweet, error) {
	var tweet contents.Tweet

	err := row.Scan(
		&tweet.ID,
		&tweet.OwnerID,
		&tweet.Content,
		&tweet.CreatedAt,
		&tweet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tweet row: %w", err)
	}

	return &tweet, nil
}

func (repo *TweetRepository) Insert(ctx context.Context, tweet *contents.Tweet) error {
	q := sq.Insert(tableTweets).
		Columns(tweetColumns()...).
		Values(
			tweet.ID,
			tweet.OwnerID,
			tweet.Content,
			tweet.CreatedAt,
			tweet.UpdatedAt,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *TweetRepository) FindByID(ctx context.Context, id string) (*contents.Tweet, error) {
	q := sq.Select(tweetColumns()...).
		From(tableTweets).
		Where(sq.Eq{tweetFieldID: id}).
		RunWith(repo.db)

	tweet, err := scanTweet(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contents.TweetNotFoundError{ID: id}
		}

		return nil, fmt.Errorf("failed to find tweet by id: %w", err)
	}

	return tweet, nil
}
