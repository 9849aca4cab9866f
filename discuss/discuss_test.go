package discuss_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nasermirzaei89/vidstream/discuss"
	"github.com/nasermirzaei89/vidstream/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParentResolver struct {
	exists    bool
	published bool
}

var _ discuss.ParentResolver = (*stubParentResolver)(nil)

func (r *stubParentResolver) ResolveParent(_ context.Context, _ discuss.Parent) (bool, bool, error) {
	return r.exists, r.published, nil
}

type fakeCommentRepository struct {
	byID map[string]*discuss.Comment
}

var _ discuss.Repository = (*fakeCommentRepository)(nil)

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{byID: make(map[string]*discuss.Comment)}
}

func (repo *fakeCommentRepository) Insert(_ context.Context, comment *discuss.Comment) error {
	repo.byID[comment.ID] = comment

	return nil
}

func (repo *fakeCommentRepository) FindByID(_ context.Context, id string) (*discuss.Comment, error) {
	comment, ok := repo.byID[id]
	if !ok {
		return nil, discuss.CommentNotFoundError{ID: id}
	}

	clone := *comment

	return &clone, nil
}

func (repo *fakeCommentRepository) UpdateContent(_ context.Context, id, content string, updatedAt time.Time) error {
	comment, ok := repo.byID[id]
	if !ok {
		return discuss.CommentNotFoundError{ID: id}
	}

	comment.Content = content
	comment.UpdatedAt = updatedAt

	return nil
}

func (repo *fakeCommentRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.byID[id]; !ok {
		return discuss.CommentNotFoundError{ID: id}
	}

	delete(repo.byID, id)

	return nil
}

func (repo *fakeCommentRepository) ListTopLevel(
	_ context.Context,
	parent discuss.Parent,
	params paging.Params,
) (*paging.Page[*discuss.CommentWithOwner], error) {
	items := make([]*discuss.CommentWithOwner, 0)

	for _, comment := range repo.byID {
		if comment.Parent != parent || comment.ParentCommentID != nil {
			continue
		}

		items = append(items, &discuss.CommentWithOwner{Comment: *comment})
	}

	return paging.NewPage(items, params, len(items)), nil
}

func seedStoredComment(repo *fakeCommentRepository, id, ownerID string, parent discuss.Parent) *discuss.Comment {
	comment := &discuss.Comment{
		ID:        id,
		Content:   "stored",
		Parent:    parent,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	repo.byID[id] = comment

	return comment
}

func TestCreateComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	publishedResolver := &stubParentResolver{exists: true, published: true}

	t.Run("creates a top-level comment", func(t *testing.T) {
		t.Parallel()

		repo := newFakeCommentRepository()
		svc := discuss.NewService(repo, publishedResolver)

		comment, err := svc.CreateComment(ctx, discuss.CreateCommentRequest{
			OwnerID: "user-1",
			Parent:  discuss.VideoParent("video-1"),
			Content: "  nice video  ",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, comment.ID)
		assert.Equal(t, "nice video", comment.Content)
		assert.Equal(t, discuss.VideoParent("video-1"), comment.Parent)
		assert.Nil(t, comment.ParentCommentID)
	})

	t.Run("content length bounds", func(t *testing.T) {
		t.Parallel()

		tt := []struct {
			name    string
			content string
			wantErr bool
		}{
			{name: "empty", content: "", wantErr: true},
			{name: "whitespace only", content: "  \t\n ", wantErr: true},
			{name: "single rune", content: "a", wantErr: false},
			{name: "at the cap", content: strings.Repeat("a", discuss.MaxContentLength), wantErr: false},
			{name: "over the cap", content: strings.Repeat("a", discuss.MaxContentLength+1), wantErr: true},
			{name: "multibyte at the cap", content: strings.Repeat("é", discuss.MaxContentLength), wantErr: false},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				svc := discuss.NewService(newFakeCommentRepository(), publishedResolver)

				_, err := svc.CreateComment(ctx, discuss.CreateCommentRequest{
					OwnerID: "user-1",
					Parent:  discuss.TweetParent("tweet-1"),
					Content: tc.content,
				})

				if tc.wantErr {
					var lengthErr discuss.ContentLengthError

					require.ErrorAs(t, err, &lengthErr)
				} else {
					require.NoError(t, err)
				}
			})
		}
	})

	t.Run("content is validated before the parent", func(t *testing.T) {
		t.Parallel()

		svc := discuss.NewService(newFakeCommentRepository(), publishedResolver)

		_, err := svc.CreateComment(ctx, discuss.CreateCommentRequest{
			OwnerID: "user-1",
			Parent:  discuss.Parent{Kind: "playlist", ID: "p-1"},
			Content: "",
		})

		var lengthErr discuss.ContentLengthError

		require.ErrorAs(t, err, &lengthErr)
	})

	t.Run("rejects an unknown parent kind", func(t *testing.T) {
		t.Parallel()

		svc := discuss.NewService(newFakeCommentRepository(), publishedResolver)

		_, err := svc.CreateComment(ctx, discuss.CreateCommentRequest{
			OwnerID: "user-1",
			Parent:  discuss.Parent{Kind: "playlist", ID: "p-1"},
			Content: "hello",
		})

		var invalidParentErr discuss.InvalidParentError

		require.ErrorAs(t, err, &invalidParentErr)
	})

	t.Run("rejects a missing parent", func(t *testing.T) {
		t.Parallel()

		svc := discuss.NewService(newFakeCommentRepository(), &stubParentResolver{exists: false})

		_, err := svc.CreateComment(ctx, discuss.CreateCommentRequest{
			OwnerID: "user-1",
			Parent:  discuss.VideoParent("video-404"),
			Content: "hello",
		})

		var notFoundErr discuss.ParentNotFoundError

		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("rejects an unpublished video parent", func(t *testing.T) {
		t.Parallel()

		svc := discuss.NewService(newFakeCommentRepository(), &stubParentResolver{exists: true, published: false})

		_, err := svc.CreateComment(ctx, discuss.CreateCommentRequest{
			OwnerID: "user-1",
			Parent:  discuss.VideoParent("video-1"),
			Content: "hello",
		})

		var unpublishedErr discuss.ParentUnpublishedError

		require.ErrorAs(t, err, &unpublishedErr)
	})

	t.Run("tweet parents have no published gate", func(t *testing.T) {
		t.Parallel()

		svc := discuss.NewService(newFakeCommentRepository(), &stubParentResolver{exists: true, published: false})

		_, err := svc.CreateComment(ctx, discuss.CreateCommentRequest{
			OwnerID: "user-1",
			Parent:  discuss.TweetParent("tweet-1"),
			Content: "hello",
		})
		require.NoError(t, err)
	})

	t.Run("creates a reply in the same thread", func(t *testing.T) {
		t.Parallel()

		repo := newFakeCommentRepository()
		svc := discuss.NewService(repo, publishedResolver)

		parent := seedStoredComment(repo, "comment-1", "user-1", discuss.VideoParent("video-1"))

		reply, err := svc.CreateComment(ctx, discuss.CreateCommentRequest{
			OwnerID:         "user-2",
			Parent:          discuss.VideoParent("video-1"),
			Content:         "agreed",
			ParentCommentID: parent.ID,
		})
		require.NoError(t, err)

		require.NotNil(t, reply.ParentCommentID)
		assert.Equal(t, parent.ID, *reply.ParentCommentID)
	})

	t.Run("rejects a reply to an unknown comment", func(t *testing.T) {
		t.Parallel()

		svc := discuss.NewService(newFakeCommentRepository(), publishedResolver)

		_, err := svc.CreateComment(ctx, discuss.CreateCommentRequest{
			OwnerID:         "user-1",
			Parent:          discuss.VideoParent("video-1"),
			Content:         "hello",
			ParentCommentID: "comment-404",
		})

		var notFoundErr discuss.CommentNotFoundError

		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("rejects a reply that crosses threads", func(t *testing.T) {
		t.Parallel()

		repo := newFakeCommentRepository()
		svc := discuss.NewService(repo, publishedResolver)

		other := seedStoredComment(repo, "comment-1", "user-1", discuss.VideoParent("video-other"))

		_, err := svc.CreateComment(ctx, discuss.CreateCommentRequest{
			OwnerID:         "user-2",
			Parent:          discuss.VideoParent("video-1"),
			Content:         "hello",
			ParentCommentID: other.ID,
		})

		var notFoundErr discuss.CommentNotFoundError

		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestUpdateComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	resolver := &stubParentResolver{exists: true, published: true}

	t.Run("owner edits the content", func(t *testing.T) {
		t.Parallel()

		repo := newFakeCommentRepository()
		svc := discuss.NewService(repo, resolver)

		seedStoredComment(repo, "comment-1", "user-1", discuss.TweetParent("tweet-1"))

		updated, err := svc.UpdateComment(ctx, "user-1", "comment-1", "edited")
		require.NoError(t, err)

		assert.Equal(t, "edited", updated.Content)

		stored, err := repo.FindByID(ctx, "comment-1")
		require.NoError(t, err)
		assert.Equal(t, "edited", stored.Content)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		t.Parallel()

		repo := newFakeCommentRepository()
		svc := discuss.NewService(repo, resolver)

		seedStoredComment(repo, "comment-1", "user-1", discuss.TweetParent("tweet-1"))

		_, err := svc.UpdateComment(ctx, "user-2", "comment-1", "edited")

		var notOwnerErr discuss.NotCommentOwnerError

		require.ErrorAs(t, err, &notOwnerErr)
	})

	t.Run("unknown comment is not found", func(t *testing.T) {
		t.Parallel()

		svc := discuss.NewService(newFakeCommentRepository(), resolver)

		_, err := svc.UpdateComment(ctx, "user-1", "comment-404", "edited")

		var notFoundErr discuss.CommentNotFoundError

		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("content is still validated", func(t *testing.T) {
		t.Parallel()

		repo := newFakeCommentRepository()
		svc := discuss.NewService(repo, resolver)

		seedStoredComment(repo, "comment-1", "user-1", discuss.TweetParent("tweet-1"))

		_, err := svc.UpdateComment(ctx, "user-1", "comment-1", strings.Repeat("a", discuss.MaxContentLength+1))

		var lengthErr discuss.ContentLengthError

		require.ErrorAs(t, err, &lengthErr)
	})
}

func TestDeleteComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	resolver := &stubParentResolver{exists: true, published: true}

	t.Run("owner deletes the comment", func(t *testing.T) {
		t.Parallel()

		repo := newFakeCommentRepository()
		svc := discuss.NewService(repo, resolver)

		seedStoredComment(repo, "comment-1", "user-1", discuss.VideoParent("video-1"))

		err := svc.DeleteComment(ctx, "user-1", "comment-1")
		require.NoError(t, err)

		_, err = repo.FindByID(ctx, "comment-1")

		var notFoundErr discuss.CommentNotFoundError

		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		t.Parallel()

		repo := newFakeCommentRepository()
		svc := discuss.NewService(repo, resolver)

		seedStoredComment(repo, "comment-1", "user-1", discuss.VideoParent("video-1"))

		err := svc.DeleteComment(ctx, "user-2", "comment-1")

		var notOwnerErr discuss.NotCommentOwnerError

		require.ErrorAs(t, err, &notOwnerErr)

		_, err = repo.FindByID(ctx, "comment-1")
		require.NoError(t, err)
	})

	t.Run("unknown comment is not found", func(t *testing.T) {
		t.Parallel()

		svc := discuss.NewService(newFakeCommentRepository(), resolver)

		err := svc.DeleteComment(ctx, "user-1", "comment-404")

		var notFoundErr discuss.CommentNotFoundError

		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestListTopLevel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("rejects an invalid parent", func(t *testing.T) {
		t.Parallel()

		svc := discuss.NewService(newFakeCommentRepository(), &stubParentResolver{})

		_, err := svc.ListTopLevel(ctx, discuss.Parent{Kind: "playlist", ID: "p-1"}, paging.NewParams(1, 10))

		var invalidParentErr discuss.InvalidParentError

		require.ErrorAs(t, err, &invalidParentErr)
	})

	t.Run("lists the parent's top-level comments", func(t *testing.T) {
		t.Parallel()

		repo := newFakeCommentRepository()
		svc := discuss.NewService(repo, &stubParentResolver{})

		seedStoredComment(repo, "comment-1", "user-1", discuss.VideoParent("video-1"))
		seedStoredComment(repo, "comment-2", "user-1", discuss.VideoParent("video-other"))

		page, err := svc.ListTopLevel(ctx, discuss.VideoParent("video-1"), paging.NewParams(1, 10))
		require.NoError(t, err)

		require.Len(t, page.Items, 1)
		assert.Equal(t, "comment-1", page.Items[0].ID)
	})
}
