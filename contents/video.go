package contents

import (
	"context"
	"fmt"
	"time"
)

type Video struct {
	ID        string
	OwnerID   string
	Title     string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type VideoRepository interface {
	Insert(ctx context.Context, video *Video) (err error)
	FindByID(ctx context.Context, id string) (video *Video, err error)
	SetPublished(ctx context.Context, id string, published bool, updatedAt time.Time) (err error)
}

type VideoNotFoundError struct {
	ID string
}

func (err VideoNotFoundError) Error() string {
	return fmt.Sprintf("video %q not found", err.ID)
}

type NotVideoOwnerError struct {
	VideoID string
	UserID  string
}

func (err NotVideoOwnerError) Error() string {
	return fmt.Sprintf("user %q does not own video %q", err.UserID, err.VideoID)
}

type EmptyTitleError struct{}

func (err EmptyTitleError) Error() string {
	return "video title must not be empty"
}
