package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/vidstream/engage"
	"github.com/nasermirzaei89/vidstream/paging"
)

const tableEngagements = "engagements"

type EngagementRepository struct {
	db *sql.DB
}

var _ engage.Repository = (*EngagementRepository)(nil)

func NewEngagementRepository(db *sql.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

const (
	engagementFieldID        = "id"
	engagementFieldVideoID   = "video_id"
	engagementFieldCommentID = "comment_id"
	engagementFieldTweetID   = "tweet_id"
	engagementFieldUserID    = "user_id"
	engagementFieldCreatedAt = "created_at"
	engagementFieldUpdatedAt = "updated_at"
)

func engagementColumns() []string {
	return []string{
		engagementFieldID,
		engagementFieldVideoID,
		engagementFieldCommentID,
		engagementFieldTweetID,
		engagementFieldUserID,
		engagementFieldCreatedAt,
		engagementFieldUpdatedAt,
	}
}

// targetRefColumn maps a target kind to the single reference column that is
// populated for rows of that kind.
func targetRefColumn(kind engage.TargetKind) (string, error) {
	switch kind {
	case engage.TargetKindVideo:
		return engagementFieldVideoID, nil
	case engage.TargetKindComment:
		return engagementFieldCommentID, nil
	case engage.TargetKindTweet:
		return engagementFieldTweetID, nil
	default:
		return "", engage.InvalidTargetKindError{Kind: kind}
	}
}

func scanEngagement(row sq.RowScanner) (*engage.Engagement, error) {
	var (
		engagement engage.Engagement
		videoID    sql.NullString
		commentID  sql.NullString
		tweetID    sql.NullString
	)

	err := row.Scan(
		&engagement.ID,
		&videoID,
		&commentID,
		&tweetID,
		&engagement.ActorID,
		&engagement.CreatedAt,
		&engagement.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan engagement row: %w", err)
	}

	switch {
	case videoID.Valid:
		engagement.Target = engage.VideoTarget(videoID.String)
	case commentID.Valid:
		engagement.Target = engage.CommentTarget(commentID.String)
	case tweetID.Valid:
		engagement.Target = engage.TweetTarget(tweetID.String)
	default:
		return nil, fmt.Errorf("engagement row %q has no target reference", engagement.ID)
	}

	return &engagement, nil
}

// Insert persists the engagement with exactly one reference column set. A
// violation of the per-kind partial unique indexes is returned as
// AlreadyEngagedError; the insert itself is the only round trip, so
// concurrent duplicates cannot both land.
func (repo *EngagementRepository) Insert(ctx context.Context, engagement *engage.Engagement) error {
	var videoID, commentID, tweetID *string

	switch engagement.Target.Kind {
	case engage.TargetKindVideo:
		videoID = &engagement.Target.ID
	case engage.TargetKindComment:
		commentID = &engagement.Target.ID
	case engage.TargetKindTweet:
		tweetID = &engagement.Target.ID
	default:
		return engage.InvalidTargetKindError{Kind: engagement.Target.Kind}
	}

	q := sq.Insert(tableEngagements).
		Columns(engagementColumns()...).
		Values(
			engagement.ID,
			videoID,
			commentID,
			tweetID,
			engagement.ActorID,
			engagement.CreatedAt,
			engagement.UpdatedAt,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return engage.AlreadyEngagedError{
				ActorID: engagement.ActorID,
				Target:  engagement.Target,
			}
		}

		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *EngagementRepository) DeleteByActorTarget(
	ctx context.Context,
	actorID string,
	target engage.Target,
) (bool, error) {
	refColumn, err := targetRefColumn(target.Kind)
	if err != nil {
		return false, err
	}

	q := sq.Delete(tableEngagements).
		Where(sq.Eq{
			refColumn:             target.ID,
			engagementFieldUserID: actorID,
		}).
		RunWith(repo.db)

	result, err := q.ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to exec delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// ExistsByActorTarget is a single point lookup on the partial unique index.
func (repo *EngagementRepository) ExistsByActorTarget(
	ctx context.Context,
	actorID string,
	target engage.Target,
) (bool, error) {
	refColumn, err := targetRefColumn(target.Kind)
	if err != nil {
		return false, err
	}

	q := sq.Select("1").
		From(tableEngagements).
		Where(sq.Eq{
			refColumn:             target.ID,
			engagementFieldUserID: actorID,
		}).
		Limit(1).
		RunWith(repo.db)

	var one int

	err = q.QueryRowContext(ctx).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("failed to query engagement existence: %w", err)
	}

	return true, nil
}

func (repo *EngagementRepository) CountByTarget(ctx context.Context, target engage.Target) (int, error) {
	refColumn, err := targetRefColumn(target.Kind)
	if err != nil {
		return 0, err
	}

	q := sq.Select("COUNT(*)").
		From(tableEngagements).
		Where(sq.Eq{refColumn: target.ID}).
		RunWith(repo.db)

	var count int

	err = q.QueryRowContext(ctx).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query engagement count: %w", err)
	}

	return count, nil
}

func (repo *EngagementRepository) ListByActor(
	ctx context.Context,
	actorID string,
	kind engage.TargetKind,
	params paging.Params,
) (*paging.Page[*engage.Engagement], error) {
	where := sq.And{sq.Eq{engagementFieldUserID: actorID}}

	if kind != "" {
		refColumn, err := targetRefColumn(kind)
		if err != nil {
			return nil, err
		}

		where = append(where, sq.NotEq{refColumn: nil})
	}

	countQuery := sq.Select("COUNT(*)").
		From(tableEngagements).
		Where(where).
		RunWith(repo.db)

	var totalItems int

	err := countQuery.QueryRowContext(ctx).Scan(&totalItems)
	if err != nil {
		return nil, fmt.Errorf("failed to count engagements: %w", err)
	}

	q := sq.Select(engagementColumns()...).
		From(tableEngagements).
		Where(where).
		OrderBy(
			engagementFieldCreatedAt+" DESC",
			engagementFieldID+" DESC",
		).
		Limit(uint64(params.Limit)).
		Offset(uint64(params.Offset())).
		RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close engagement rows", "error", err)
		}
	}()

	engagements := make([]*engage.Engagement, 0)

	for rows.Next() {
		engagement, err := scanEngagement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan engagement failed: %w", err)
		}

		engagements = append(engagements, engagement)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return paging.NewPage(engagements, params, totalItems), nil
}
