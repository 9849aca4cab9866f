package discuss

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/vidstream/paging"
)

type Service struct {
	commentRepo    Repository
	parentResolver ParentResolver
}

func NewService(commentRepo Repository, parentResolver ParentResolver) *Service {
	return &Service{
		commentRepo:    commentRepo,
		parentResolver: parentResolver,
	}
}

type CreateCommentRequest struct {
	OwnerID         string
	Parent          Parent
	Content         string
	ParentCommentID string
}

// CreateComment validates in a fixed order so each failure stays
// distinguishable to the caller: content bounds, parent well-formedness,
// parent existence, then the published gate for video parents.
func (svc *Service) CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	err = req.Parent.Validate()
	if err != nil {
		return nil, err
	}

	exists, published, err := svc.parentResolver.ResolveParent(ctx, req.Parent)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve comment parent: %w", err)
	}

	if !exists {
		return nil, ParentNotFoundError{Parent: req.Parent}
	}

	if req.Parent.Kind == ParentKindVideo && !published {
		return nil, ParentUnpublishedError{Parent: req.Parent}
	}

	var parentCommentID *string

	if req.ParentCommentID != "" {
		parentComment, err := svc.commentRepo.FindByID(ctx, req.ParentCommentID)
		if err != nil {
			var notFoundErr CommentNotFoundError
			if errors.As(err, &notFoundErr) {
				return nil, notFoundErr
			}

			return nil, fmt.Errorf("failed to find parent comment: %w", err)
		}

		// A reply must stay in the thread of its own parent entity.
		if parentComment.Parent != req.Parent {
			return nil, CommentNotFoundError{ID: req.ParentCommentID}
		}

		parentCommentID = &parentComment.ID
	}

	now := time.Now()

	comment := &Comment{
		ID:              uuid.NewString(),
		Content:         content,
		Parent:          req.Parent,
		OwnerID:         req.OwnerID,
		ParentCommentID: parentCommentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = svc.commentRepo.Insert(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return comment, nil
}

// UpdateComment changes the content of the caller's own comment. Only
// content is mutable.
func (svc *Service) UpdateComment(ctx context.Context, userID, commentID, content string) (*Comment, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	comment, err := svc.findOwnedComment(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	err = svc.commentRepo.UpdateContent(ctx, comment.ID, content, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment content: %w", err)
	}

	comment.Content = content
	comment.UpdatedAt = now

	return comment, nil
}

func (svc *Service) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := svc.findOwnedComment(ctx, userID, commentID)
	if err != nil {
		return err
	}

	err = svc.commentRepo.Delete(ctx, comment.ID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

// ListTopLevel returns a page of the parent's top-level comments, newest
// first, each annotated with its owner summary.
func (svc *Service) ListTopLevel(
	ctx context.Context,
	parent Parent,
	params paging.Params,
) (*paging.Page[*CommentWithOwner], error) {
	err := parent.Validate()
	if err != nil {
		return nil, err
	}

	page, err := svc.commentRepo.ListTopLevel(ctx, parent, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return page, nil
}

func (svc *Service) findOwnedComment(ctx context.Context, userID, commentID string) (*Comment, error) {
	comment, err := svc.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		var notFoundErr CommentNotFoundError
		if errors.As(err, &notFoundErr) {
			return nil, notFoundErr
		}

		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.OwnerID != userID {
		return nil, NotCommentOwnerError{CommentID: commentID, UserID: userID}
	}

	return comment, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)

	length := utf8.RuneCountInString(content)
	if length == 0 || length > MaxContentLength {
		return "", ContentLengthError{Length: length}
	}

	return content, nil
}
