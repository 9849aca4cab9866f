package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/vidstream/discuss"
	"github.com/nasermirzaei89/vidstream/paging"
)

const tableComments = "comments"

type CommentRepository struct {
	db *sql.DB
}

var _ discuss.Repository = (*CommentRepository)(nil)

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const (
	commentFieldID              = "id"
	commentFieldContent         = "content"
	commentFieldVideoID         = "video_id"
	commentFieldTweetID         = "tweet_id"
	commentFieldOwnerID         = "owner_id"
	commentFieldParentCommentID = "parent_comment_id"
	commentFieldCreatedAt       = "created_at"
	commentFieldUpdatedAt       = "updated_at"
)

// likeCountExpr derives the like counter from the engagement rows scoped to
// the comment, so it cannot drift from what the uniqueness constraints admit.
const likeCountExpr = "(SELECT COUNT(*) FROM engagements e WHERE e.comment_id = c.id)"

func parentRefColumn(kind discuss.ParentKind) (string, error) {
	switch kind {
	case discuss.ParentKindVideo:
		return commentFieldVideoID, nil
	case discuss.ParentKindTweet:
		return commentFieldTweetID, nil
	default:
		return "", discuss.InvalidParentError{Kind: kind}
	}
}

func commentSelectColumns() []string {
	return []string{
		"c." + commentFieldID,
		"c." + commentFieldContent,
		"c." + commentFieldVideoID,
		"c." + commentFieldTweetID,
		"c." + commentFieldOwnerID,
		"c." + commentFieldParentCommentID,
		likeCountExpr,
		"c." + commentFieldCreatedAt,
		"c." + commentFieldUpdatedAt,
	}
}

func scanComment(row sq.RowScanner) (*discuss.Comment, error) {
	var (
		comment         discuss.Comment
		videoID         sql.NullString
		tweetID         sql.NullString
		parentCommentID sql.NullString
	)

	err := row.Scan(
		&comment.ID,
		&comment.Content,
		&videoID,
		&tweetID,
		&comment.OwnerID,
		&parentCommentID,
		&comment.LikeCount,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan comment row: %w", err)
	}

	switch {
	case videoID.Valid:
		comment.Parent = discuss.VideoParent(videoID.String)
	case tweetID.Valid:
		comment.Parent = discuss.TweetParent(tweetID.String)
	default:
		return nil, fmt.Errorf("comment row %q has no parent reference", comment.ID)
	}

	if parentCommentID.Valid {
		comment.ParentCommentID = &parentCommentID.String
	}

	return &comment, nil
}

func (repo *CommentRepository) Insert(ctx context.Context, comment *discuss.Comment) error {
	var videoID, tweetID *string

	switch comment.Parent.Kind {
	case discuss.ParentKindVideo:
		videoID = &comment.Parent.ID
	case discuss.ParentKindTweet:
		tweetID = &comment.Parent.ID
	default:
		return discuss.InvalidParentError{Kind: comment.Parent.Kind, ParentID: comment.Parent.ID}
	}

	q := sq.Insert(tableComments).
		Columns(
			commentFieldID,
			commentFieldContent,
			commentFieldVideoID,
			commentFieldTweetID,
			commentFieldOwnerID,
			commentFieldParentCommentID,
			commentFieldCreatedAt,
			commentFieldUpdatedAt,
		).
		Values(
			comment.ID,
			comment.Content,
			videoID,
			tweetID,
			comment.OwnerID,
			comment.ParentCommentID,
			comment.CreatedAt,
			comment.UpdatedAt,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *CommentRepository) FindByID(ctx context.Context, id string) (*discuss.Comment, error) {
	q := sq.Select(commentSelectColumns()...).
		From(tableComments + " AS c").
		Where(sq.Eq{"c." + commentFieldID: id}).
		RunWith(repo.db)

	comment, err := scanComment(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, discuss.CommentNotFoundError{ID: id}
		}

		return nil, fmt.Errorf("failed to find comment by id: %w", err)
	}

	return comment, nil
}

func (repo *CommentRepository) UpdateContent(
	ctx context.Context,
	id string,
	content string,
	updatedAt time.Time,
) error {
	q := sq.Update(tableComments).
		Set(commentFieldContent, content).
		Set(commentFieldUpdatedAt, updatedAt).
		Where(sq.Eq{commentFieldID: id}).
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
		return discuss.CommentNotFoundError{ID: id}
	}

	return nil
}

// Delete removes the comment; dependent engagement rows and replies go with
// it through the cascading foreign keys.
func (repo *CommentRepository) Delete(ctx context.Context, id string) error {
	q := sq.Delete(tableComments).
		Where(sq.Eq{commentFieldID: id}).
		RunWith(repo.db)

	result, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return discuss.CommentNotFoundError{ID: id}
	}

	return nil
}

// ListTopLevel pages through the parent's top-level comments, newest first
// with the row ID as tie-breaker so pagination stays stable on identical
// timestamps. Owner summaries come from a single join, not per-row lookups.
func (repo *CommentRepository) ListTopLevel(
	ctx context.Context,
	parent discuss.Parent,
	params paging.Params,
) (*paging.Page[*discuss.CommentWithOwner], error) {
	refColumn, err := parentRefColumn(parent.Kind)
	if err != nil {
		return nil, err
	}

	where := sq.And{
		sq.Eq{"c." + refColumn: parent.ID},
		sq.Eq{"c." + commentFieldParentCommentID: nil},
	}

	countQuery := sq.Select("COUNT(*)").
		From(tableComments + " AS c").
		Where(where).
		RunWith(repo.db)

	var totalItems int

	err = countQuery.QueryRowContext(ctx).Scan(&totalItems)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	columns := append(
		commentSelectColumns(),
		"u."+userFieldID,
		"u."+userFieldHandle,
		"u."+userFieldDisplayName,
		"u."+userFieldAvatarURL,
	)

	q := sq.Select(columns...).
		From(tableComments + " AS c").
		Join(tableUsers + " AS u ON u." + userFieldID + " = c." + commentFieldOwnerID).
		Where(where).
		OrderBy(
			"c."+commentFieldCreatedAt+" DESC",
			"c."+commentFieldID+" DESC",
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
			slog.ErrorContext(ctx, "failed to close comment rows", "error", err)
		}
	}()

	comments := make([]*discuss.CommentWithOwner, 0)

	for rows.Next() {
		comment, err := scanCommentWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}

		comments = append(comments, comment)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return paging.NewPage(comments, params, totalItems), nil
}

func scanCommentWithOwner(row sq.RowScanner) (*discuss.CommentWithOwner, error) {
	var (
		comment         discuss.CommentWithOwner
		videoID         sql.NullString
		tweetID         sql.NullString
		parentCommentID sql.NullString
	)

	err := row.Scan(
		&comment.ID,
		&comment.Content,
		&videoID,
		&tweetID,
		&comment.OwnerID,
		&parentCommentID,
		&comment.LikeCount,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.Owner.ID,
		&comment.Owner.Handle,
		&comment.Owner.DisplayName,
		&comment.Owner.AvatarURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan comment row: %w", err)
	}

	switch {
	case videoID.Valid:
		comment.Parent = discuss.VideoParent(videoID.String)
	case tweetID.Valid:
		comment.Parent = discuss.TweetParent(tweetID.String)
	default:
		return nil, fmt.Errorf("comment row %q has no parent reference", comment.ID)
	}

	if parentCommentID.Valid {
		comment.ParentCommentID = &parentCommentID.String
	}

	return &comment, nil
}
