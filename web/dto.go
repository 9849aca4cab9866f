package web

import (
	"time"

	"github.com/nasermirzaei89/vidstream/accounts"
	"github.com/nasermirzaei89/vidstream/contents"
	"github.com/nasermirzaei89/vidstream/discuss"
	"github.com/nasermirzaei89/vidstream/engage"
	"github.com/nasermirzaei89/vidstream/paging"
	"github.com/samber/lo"
)

type pageDTO[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

func newPageDTO[T, U any](page *paging.Page[T], mapItem func(T, int) U) pageDTO[U] {
	return pageDTO[U]{
		Items:      lo.Map(page.Items, mapItem),
		Page:       page.Page,
		Limit:      page.Limit,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages(),
	}
}

type userDTO struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newUserDTO(user *accounts.User) userDTO {
	return userDTO{
		ID:          user.ID,
		Handle:      user.Handle,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
	}
}

type videoDTO struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newVideoDTO(video *contents.Video) videoDTO {
	return videoDTO{
		ID:        video.ID,
		OwnerID:   video.OwnerID,
		Title:     video.Title,
		Published: video.Published,
		CreatedAt: video.CreatedAt,
		UpdatedAt: video.UpdatedAt,
	}
}

type tweetDTO struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func newTweetDTO(tweet *contents.Tweet) tweetDTO {
	return tweetDTO{
		ID:        tweet.ID,
		OwnerID:   tweet.OwnerID,
		Content:   tweet.Content,
		CreatedAt: tweet.CreatedAt,
	}
}

type engagementDTO struct {
	ID         string    `json:"id"`
	TargetKind string    `json:"targetKind"`
	TargetID   string    `json:"targetId"`
	ActorID    string    `json:"actorId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newEngagementDTO(engagement *engage.Engagement) engagementDTO {
	return engagementDTO{
		ID:         engagement.ID,
		TargetKind: string(engagement.Target.Kind),
		TargetID:   engagement.Target.ID,
		ActorID:    engagement.ActorID,
		CreatedAt:  engagement.CreatedAt,
		UpdatedAt:  engagement.UpdatedAt,
	}
}

type ownerSummaryDTO struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

type commentDTO struct {
	ID              string    `json:"id"`
	Content         string    `json:"content"`
	ParentKind      string    `json:"parentKind"`
	ParentID        string    `json:"parentId"`
	OwnerID         string    `json:"ownerId"`
	ParentCommentID *string   `json:"parentCommentId"`
	LikeCount       int       `json:"likeCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newCommentDTO(comment *discuss.Comment) commentDTO {
	return commentDTO{
		ID:              comment.ID,
		Content:         comment.Content,
		ParentKind:      string(comment.Parent.Kind),
		ParentID:        comment.Parent.ID,
		OwnerID:         comment.OwnerID,
		ParentCommentID: comment.ParentCommentID,
		LikeCount:       comment.LikeCount,
		CreatedAt:       comment.CreatedAt,
		UpdatedAt:       comment.UpdatedAt,
	}
}

type commentWithOwnerDTO struct {
	commentDTO
	Owner ownerSummaryDTO `json:"owner"`
}

func newCommentWithOwnerDTO(comment *discuss.CommentWithOwner) commentWithOwnerDTO {
	return commentWithOwnerDTO{
		commentDTO: newCommentDTO(&comment.Comment),
		Owner: ownerSummaryDTO{
			ID:          comment.Owner.ID,
			Handle:      comment.Owner.Handle,
			DisplayName: comment.Owner.DisplayName,
			AvatarURL:   comment.Owner.AvatarURL,
		},
	}
}
