package contents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	videoRepo VideoRepository
	tweetRepo TweetRepository
}

func NewService(videoRepo VideoRepository, tweetRepo TweetRepository) *Service {
	return &Service{
		videoRepo: videoRepo,
		tweetRepo: tweetRepo,
	}
}

type CreateVideoRequest struct {
	OwnerID string
	Title   string
}

// CreateVideo registers a video in draft state. It only becomes commentable
// once published.
func (svc *Service) CreateVideo(ctx context.Context, req CreateVideoRequest) (*Video, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, EmptyTitleError{}
	}

	now := time.Now()

	video := &Video{
		ID:        uuid.NewString(),
		OwnerID:   req.OwnerID,
		Title:     title,
		Published: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := svc.videoRepo.Insert(ctx, video)
	if err != nil {
		return nil, fmt.Errorf("failed to insert video: %w", err)
	}

	return video, nil
}

func (svc *Service) PublishVideo(ctx context.Context, userID, videoID string) (*Video, error) {
	video, err := svc.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		var notFoundErr VideoNotFoundError
		if errors.As(err, &notFoundErr) {
			return nil, notFoundErr
		}

		return nil, fmt.Errorf("failed to find video: %w", err)
	}

	if video.OwnerID != userID {
		return nil, NotVideoOwnerError{VideoID: videoID, UserID: userID}
	}

	if video.Published {
		return video, nil
	}

	now := time.Now()

	err = svc.videoRepo.SetPublished(ctx, video.ID, true, now)
	if err != nil {
		return nil, fmt.Errorf("failed to publish video: %w", err)
	}

	video.Published = true
	video.UpdatedAt = now

	return video, nil
}

type CreateTweetRequest struct {
	OwnerID string
	Content string
}

func (svc *Service) CreateTweet(ctx context.Context, req CreateTweetRequest) (*Tweet, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, EmptyTweetContentError{}
	}

	now := time.Now()

	tweet := &Tweet{
		ID:        uuid.NewString(),
		OwnerID:   req.OwnerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := svc.tweetRepo.Insert(ctx, tweet)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tweet: %w", err)
	}

	return tweet, nil
}
