package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nasermirzaei89/vidstream/accounts"
	"github.com/nasermirzaei89/vidstream/contents"
	"github.com/nasermirzaei89/vidstream/discuss"
	"github.com/nasermirzaei89/vidstream/engage"
)

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, statusCode int, data any, message string) {
	writeJSON(ctx, w, statusCode, SuccessResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
	})
}

// writeError translates the domain error taxonomy into the failure
// envelope. Conflicts are expected and not logged as application errors;
// only unexpected failures get logged with full detail and surfaced as an
// opaque 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	statusCode := statusCodeForError(err)

	message := err.Error()

	if statusCode == http.StatusInternalServerError {
		slog.ErrorContext(ctx, "internal error", "error", err)

		message = "internal server error"
	}

	writeJSON(ctx, w, statusCode, ErrorResponse{
		StatusCode: statusCode,
		Error:      message,
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode response body", "error", err)
	}
}

type missingActorError struct{}

func (err missingActorError) Error() string {
	return "missing " + headerActorID + " header"
}

type invalidRequestBodyError struct{}

func (err invalidRequestBodyError) Error() string {
	return "invalid request body"
}

func statusCodeForError(err error) int {
	var (
		missingActorErr    missingActorError
		invalidBodyErr     invalidRequestBodyError
		invalidHandleErr   accounts.InvalidHandleError
		handleTakenErr     accounts.HandleTakenError
		userNotFoundErr    accounts.UserNotFoundError
		emptyTitleErr      contents.EmptyTitleError
		emptyTweetErr      contents.EmptyTweetContentError
		videoNotFoundErr   contents.VideoNotFoundError
		tweetNotFoundErr   contents.TweetNotFoundError
		notVideoOwnerErr   contents.NotVideoOwnerError
		contentLengthErr   discuss.ContentLengthError
		invalidParentErr   discuss.InvalidParentError
		parentNotFoundErr  discuss.ParentNotFoundError
		unpublishedErr     discuss.ParentUnpublishedError
		commentNotFoundErr discuss.CommentNotFoundError
		notCommentOwnerErr discuss.NotCommentOwnerError
		invalidTargetErr   engage.InvalidTargetError
		invalidKindErr     engage.InvalidTargetKindError
		targetNotFoundErr  engage.TargetNotFoundError
		alreadyEngagedErr  engage.AlreadyEngagedError
		engagementNotFound engage.EngagementNotFoundError
	)

	switch {
	case errors.As(err, &invalidBodyErr),
		errors.As(err, &invalidHandleErr),
		errors.As(err, &emptyTitleErr),
		errors.As(err, &emptyTweetErr),
		errors.As(err, &contentLengthErr),
		errors.As(err, &invalidParentErr),
		errors.As(err, &unpublishedErr),
		errors.As(err, &invalidTargetErr),
		errors.As(err, &invalidKindErr):
		return http.StatusBadRequest
	case errors.As(err, &missingActorErr):
		return http.StatusUnauthorized
	case errors.As(err, &notVideoOwnerErr),
		errors.As(err, &notCommentOwnerErr):
		return http.StatusForbidden
	case errors.As(err, &userNotFoundErr),
		errors.As(err, &videoNotFoundErr),
		errors.As(err, &tweetNotFoundErr),
		errors.As(err, &parentNotFoundErr),
		errors.As(err, &commentNotFoundErr),
		errors.As(err, &targetNotFoundErr),
		errors.As(err, &engagementNotFound):
		return http.StatusNotFound
	case errors.As(err, &handleTakenErr),
		errors.As(err, &alreadyEngagedErr):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		// Retryable, unlike the conflict/not-found family.
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
