package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/vidstream/discuss"
	"github.com/nasermirzaei89/vidstream/engage"
)

// Resolver answers the existence checks the engagement and comment services
// run against claimed targets, each as a single point lookup.
type Resolver struct {
	db *sql.DB
}

var (
	_ engage.TargetResolver  = (*Resolver)(nil)
	_ discuss.ParentResolver = (*Resolver)(nil)
)

func NewResolver(db *sql.DB) *Resolver {
	return &Resolver{db: db}
}

func (r *Resolver) TargetExists(ctx context.Context, target engage.Target) (bool, error) {
	var table string

	switch target.Kind {
	case engage.TargetKindVideo:
		table = tableVideos
	case engage.TargetKindComment:
		table = tableComments
	case engage.TargetKindTweet:
		table = tableTweets
	default:
		return false, engage.InvalidTargetKindError{Kind: target.Kind}
	}

	exists, err := r.rowExists(ctx, table, target.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", target.Kind, err)
	}

	return exists, nil
}

func (r *Resolver) ResolveParent(ctx context.Context, parent discuss.Parent) (bool, bool, error) {
	switch parent.Kind {
	case discuss.ParentKindVideo:
		q := sq.Select(videoFieldPublished).
			From(tableVideos).
			Where(sq.Eq{videoFieldID: parent.ID}).
			RunWith(r.db)

		var published bool

		err := q.QueryRowContext(ctx).Scan(&published)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, false, nil
			}

			return false, false, fmt.Errorf("failed to check video existence: %w", err)
		}

		return true, published, nil
	case discuss.ParentKindTweet:
		exists, err := r.rowExists(ctx, tableTweets, parent.ID)
		if err != nil {
			return false, false, fmt.Errorf("failed to check tweet existence: %w", err)
		}

		// Tweets have no publication state; they are visible once created.
		return exists, exists, nil
	default:
		return false, false, discuss.InvalidParentError{Kind: parent.Kind, ParentID: parent.ID}
	}
}

func (r *Resolver) rowExists(ctx context.Context, table, id string) (bool, error) {
	q := sq.Select("1").
		From(table).
		Where(sq.Eq{"id": id}).
		Limit(1).
		RunWith(r.db)

	var one int

	err := q.QueryRowContext(ctx).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
