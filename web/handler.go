// Package web exposes the data layer over a thin JSON boundary. It expects
// a pre-authenticated actor identifier on each request; authentication
// itself happens upstream.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/nasermirzaei89/vidstream/accounts"
	"github.com/nasermirzaei89/vidstream/contents"
	"github.com/nasermirzaei89/vidstream/discuss"
	"github.com/nasermirzaei89/vidstream/engage"
	"github.com/nasermirzaei89/vidstream/paging"
	"github.com/nasermirzaei89/vidstream/random"
)

const headerActorID = "X-Actor-ID"

type Handler struct {
	mux         *http.ServeMux
	handler     http.Handler
	accountsSvc *accounts.Service
	contentsSvc *contents.Service
	discussSvc  *discuss.Service
	engageSvc   *engage.Service
}

var _ http.Handler = (*Handler)(nil)

func NewHandler(
	accountsSvc *accounts.Service,
	contentsSvc *contents.Service,
	discussSvc *discuss.Service,
	engageSvc *engage.Service,
) *Handler {
	h := &Handler{
		mux:         http.NewServeMux(),
		handler:     nil,
		accountsSvc: accountsSvc,
		contentsSvc: contentsSvc,
		discussSvc:  discussSvc,
		engageSvc:   engageSvc,
	}

	h.registerRoutes()

	h.handler = h.logMiddleware(h.mux)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.Handle("POST /api/v1/users", h.HandleRegisterUser())
	h.mux.Handle("POST /api/v1/videos", h.HandleCreateVideo())
	h.mux.Handle("POST /api/v1/videos/{videoId}/publish", h.HandlePublishVideo())
	h.mux.Handle("POST /api/v1/tweets", h.HandleCreateTweet())

	h.mux.Handle("POST /api/v1/likes", h.HandleCreateLike())
	h.mux.Handle("DELETE /api/v1/likes", h.HandleRemoveLike())
	h.mux.Handle("POST /api/v1/likes/toggle", h.HandleToggleLike())
	h.mux.Handle("GET /api/v1/likes", h.HandleListLikes())
	h.mux.Handle("GET /api/v1/likes/state", h.HandleLikeState())
	h.mux.Handle("GET /api/v1/likes/count", h.HandleLikeCount())

	h.mux.Handle("POST /api/v1/comments", h.HandleCreateComment())
	h.mux.Handle("GET /api/v1/comments", h.HandleListComments())
	h.mux.Handle("PATCH /api/v1/comments/{commentId}", h.HandleUpdateComment())
	h.mux.Handle("DELETE /api/v1/comments/{commentId}", h.HandleDeleteComment())
}

func (h *Handler) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := random.String(8)

		next.ServeHTTP(w, r)

		slog.InfoContext(r.Context(), "request handled",
			"requestId", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func actorID(r *http.Request) (string, error) {
	id := r.Header.Get(headerActorID)
	if id == "" {
		return "", missingActorError{}
	}

	return id, nil
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		return invalidRequestBodyError{}
	}

	return nil
}

func pagingParams(r *http.Request) paging.Params {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	return paging.NewParams(page, limit)
}

func (h *Handler) HandleRegisterUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Handle      string `json:"handle"`
			DisplayName string `json:"displayName"`
			AvatarURL   string `json:"avatarUrl"`
		}

		err := decodeBody(r, &body)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		user, err := h.accountsSvc.Register(r.Context(), accounts.RegisterRequest{
			Handle:      body.Handle,
			DisplayName: body.DisplayName,
			AvatarURL:   body.AvatarURL,
		})
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusCreated, newUserDTO(user), "user registered")
	})
}

func (h *Handler) HandleCreateVideo() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		var body struct {
			Title string `json:"title"`
		}

		err = decodeBody(r, &body)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		video, err := h.contentsSvc.CreateVideo(r.Context(), contents.CreateVideoRequest{
			OwnerID: actor,
			Title:   body.Title,
		})
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusCreated, newVideoDTO(video), "video created")
	})
}

func (h *Handler) HandlePublishVideo() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		video, err := h.contentsSvc.PublishVideo(r.Context(), actor, r.PathValue("videoId"))
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusOK, newVideoDTO(video), "video published")
	})
}

func (h *Handler) HandleCreateTweet() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		var body struct {
			Content string `json:"content"`
		}

		err = decodeBody(r, &body)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		tweet, err := h.contentsSvc.CreateTweet(r.Context(), contents.CreateTweetRequest{
			OwnerID: actor,
			Content: body.Content,
		})
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusCreated, newTweetDTO(tweet), "tweet created")
	})
}

type likeTargetBody struct {
	TargetKind string `json:"targetKind"`
	TargetID   string `json:"targetId"`
}

func (body likeTargetBody) target() engage.Target {
	return engage.Target{Kind: engage.TargetKind(body.TargetKind), ID: body.TargetID}
}

func targetFromQuery(r *http.Request) engage.Target {
	q := r.URL.Query()

	return engage.Target{
		Kind: engage.TargetKind(q.Get("targetKind")),
		ID:   q.Get("targetId"),
	}
}

func (h *Handler) HandleCreateLike() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		var body likeTargetBody

		err = decodeBody(r, &body)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		engagement, err := h.engageSvc.Create(r.Context(), actor, body.target())
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusCreated, newEngagementDTO(engagement), "liked")
	})
}

func (h *Handler) HandleRemoveLike() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		err = h.engageSvc.Remove(r.Context(), actor, targetFromQuery(r))
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusOK, nil, "like removed")
	})
}

func (h *Handler) HandleToggleLike() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		var body likeTargetBody

		err = decodeBody(r, &body)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		engaged, err := h.engageSvc.Toggle(r.Context(), actor, body.target())
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusOK, map[string]bool{"liked": engaged}, "like toggled")
	})
}

func (h *Handler) HandleListLikes() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		kind := engage.TargetKind(r.URL.Query().Get("kind"))

		page, err := h.engageSvc.ListByActor(r.Context(), actor, kind, pagingParams(r))
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		data := newPageDTO(page, func(engagement *engage.Engagement, _ int) engagementDTO {
			return newEngagementDTO(engagement)
		})

		writeSuccess(r.Context(), w, http.StatusOK, data, "likes listed")
	})
}

func (h *Handler) HandleLikeState() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		liked, err := h.engageSvc.Exists(r.Context(), actor, targetFromQuery(r))
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusOK, map[string]bool{"liked": liked}, "like state fetched")
	})
}

func (h *Handler) HandleLikeCount() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count, err := h.engageSvc.CountFor(r.Context(), targetFromQuery(r))
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusOK, map[string]int{"count": count}, "like count fetched")
	})
}

func (h *Handler) HandleCreateComment() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		var body struct {
			ParentKind      string `json:"parentKind"`
			ParentID        string `json:"parentId"`
			Content         string `json:"content"`
			ParentCommentID string `json:"parentCommentId"`
		}

		err = decodeBody(r, &body)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		comment, err := h.discussSvc.CreateComment(r.Context(), discuss.CreateCommentRequest{
			OwnerID:         actor,
			Parent:          discuss.Parent{Kind: discuss.ParentKind(body.ParentKind), ID: body.ParentID},
			Content:         body.Content,
			ParentCommentID: body.ParentCommentID,
		})
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusCreated, newCommentDTO(comment), "comment created")
	})
}

func (h *Handler) HandleListComments() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		parent := discuss.Parent{
			Kind: discuss.ParentKind(q.Get("parentKind")),
			ID:   q.Get("parentId"),
		}

		page, err := h.discussSvc.ListTopLevel(r.Context(), parent, pagingParams(r))
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		data := newPageDTO(page, func(comment *discuss.CommentWithOwner, _ int) commentWithOwnerDTO {
			return newCommentWithOwnerDTO(comment)
		})

		writeSuccess(r.Context(), w, http.StatusOK, data, "comments listed")
	})
}

func (h *Handler) HandleUpdateComment() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		var body struct {
			Content string `json:"content"`
		}

		err = decodeBody(r, &body)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		comment, err := h.discussSvc.UpdateComment(r.Context(), actor, r.PathValue("commentId"), body.Content)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusOK, newCommentDTO(comment), "comment updated")
	})
}

func (h *Handler) HandleDeleteComment() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		err = h.discussSvc.DeleteComment(r.Context(), actor, r.PathValue("commentId"))
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		writeSuccess(r.Context(), w, http.StatusOK, nil, "comment deleted")
	})
}
