package discuss

import (
	"context"
	"fmt"
	"time"

	"github.com/nasermirzaei89/vidstream/paging"
)

// MaxContentLength is a hard validation rule, not a UI hint.
const MaxContentLength = 500

type ParentKind string

const (
	ParentKindVideo ParentKind = "video"
	ParentKindTweet ParentKind = "tweet"
)

func (kind ParentKind) IsValid() bool {
	switch kind {
	case ParentKindVideo, ParentKindTweet:
		return true
	default:
		return false
	}
}

// Parent is the tagged union a comment hangs off. Exactly one kind is set.
type Parent struct {
	Kind ParentKind
	ID   string
}

func VideoParent(id string) Parent {
	return Parent{Kind: ParentKindVideo, ID: id}
}

func TweetParent(id string) Parent {
	return Parent{Kind: ParentKindTweet, ID: id}
}

func (p Parent) Validate() error {
	if !p.Kind.IsValid() || p.ID == "" {
		return InvalidParentError{Kind: p.Kind, ParentID: p.ID}
	}

	return nil
}

type Comment struct {
	ID              string
	Content         string
	Parent          Parent
	OwnerID         string
	ParentCommentID *string
	LikeCount       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OwnerSummary carries the denormalized owner fields listings are annotated
// with. Never the full user record.
type OwnerSummary struct {
	ID          string
	Handle      string
	DisplayName string
	AvatarURL   string
}

type CommentWithOwner struct {
	Comment
	Owner OwnerSummary
}

type Repository interface {
	Insert(ctx context.Context, comment *Comment) (err error)
	FindByID(ctx context.Context, id string) (comment *Comment, err error)
	UpdateContent(ctx context.Context, id string, content string, updatedAt time.Time) (err error)
	Delete(ctx context.Context, id string) (err error)
	ListTopLevel(
		ctx context.Context,
		parent Parent,
		params paging.Params,
	) (page *paging.Page[*CommentWithOwner], err error)
}

// ParentResolver reports whether a comment's claimed parent exists and, for
// videos, whether it is published. Implemented by the storage layer.
type ParentResolver interface {
	ResolveParent(ctx context.Context, parent Parent) (exists bool, published bool, err error)
}

type ContentLengthError struct {
	Length int
}

func (err ContentLengthError) Error() string {
	return fmt.Sprintf(
		"comment content must be between 1 and %d characters, got %d",
		MaxContentLength,
		err.Length,
	)
}

type InvalidParentError struct {
	Kind     ParentKind
	ParentID string
}

func (err InvalidParentError) Error() string {
	return fmt.Sprintf("invalid comment parent %s:%q", err.Kind, err.ParentID)
}

type ParentNotFoundError struct {
	Parent Parent
}

func (err ParentNotFoundError) Error() string {
	return fmt.Sprintf("comment parent %s:%q not found", err.Parent.Kind, err.Parent.ID)
}

type ParentUnpublishedError struct {
	Parent Parent
}

func (err ParentUnpublishedError) Error() string {
	return fmt.Sprintf("comment parent %s:%q is not published", err.Parent.Kind, err.Parent.ID)
}

type CommentNotFoundError struct {
	ID string
}

func (err CommentNotFoundError) Error() string {
	return fmt.Sprintf("comment %q not found", err.ID)
}

type NotCommentOwnerError struct {
	CommentID string
	UserID    string
}

func (err NotCommentOwnerError) Error() string {
	return fmt.Sprintf("user %q does not own comment %q", err.UserID, err.CommentID)
}
