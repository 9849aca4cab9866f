package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/vidstream/contents"
)

const tableVideos = "videos"

type VideoRepository struct {
	db *sql.DB
}

var _ contents.VideoRepository = (*VideoRepository)(nil)

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

const (
	videoFieldID        = "id"
	videoFieldOwnerID   = "owner_id"
	videoFieldTitle     = "title"
	videoFieldPublished = "published"
	videoFieldCreatedAt = "created_at"
	videoFieldUpdatedAt = "updated_at"
)

func videoColumns() []string {
	return []string{
		videoFieldID,
		videoFieldOwnerID,
		videoFieldTitle,
		videoFieldPublished,
		videoFieldCreatedAt,
		videoFieldUpdatedAt,
	}
}

func scanVideo(row sq.RowScanner) (*contents.Video, error) {
	var video contents.Video

	err := row.Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Published,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan video row: %w", err)
	}

	return &video, nil
}

func (repo *VideoRepository) Insert(ctx context.Context, video *contents.Video) error {
	q := sq.Insert(tableVideos).
		Columns(videoColumns()...).
		Values(
			video.ID,
			video.OwnerID,
			video.Title,
			video.Published,
			video.CreatedAt,
			video.UpdatedAt,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *VideoRepository) FindByID(ctx context.Context, id string) (*contents.Video, error) {
	q := sq.Select(videoColumns()...).
		From(tableVideos).
		Where(sq.Eq{videoFieldID: id}).
		RunWith(repo.db)

	video, err := scanVideo(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contents.VideoNotFoundError{ID: id}
		}

		return nil, fmt.Errorf("failed to find video by id: %w", err)
	}

	return video, nil
}

func (repo *VideoRepository) SetPublished(
	ctx context.Context,
	id string,
	published bool,
	updatedAt time.Time,
) error {
	q := sq.Update(tableVideos).
		Set(videoFieldPublished, published).
		Set(videoFieldUpdatedAt, updatedAt).
		Where(sq.Eq{videoFieldID: id}).
		RunWith(repo.db)

	result, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return contents.VideoNotFoundError{ID: id}
	}

	return nil
}
