package contents

import (
	"context"
	"fmt"
	"time"
)

type Tweet struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TweetRepository interface {
	Insert(ctx context.Context, tweet *Tweet) (err error)
	FindByID(ctx context.Context, id string) (tweet *Tweet, err error)
}

type TweetNotFoundError struct {
	ID string
}

func (err TweetNotFoundError) Error() string {
	return fmt.Sprintf("tweet %q not found", err.ID)
}

type EmptyTweetContentError struct{}

func (err EmptyTweetContentError) Error() string {
	return "tweet content must not be empty"
}
