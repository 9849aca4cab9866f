package engage

import (
	"context"
	"fmt"
	"time"

	"github.com/nasermirzaei89/vidstream/paging"
)

type TargetKind string

const (
	TargetKindVideo   TargetKind = "video"
	TargetKindComment TargetKind = "comment"
	TargetKindTweet   TargetKind = "tweet"
)

func (kind TargetKind) IsValid() bool {
	switch kind {
	case TargetKindVideo, TargetKindComment, TargetKindTweet:
		return true
	default:
		return false
	}
}

// Target is the tagged union an engagement points at. Exactly one kind is
// set; it only decomposes into per-kind nullable columns at the storage
// boundary.
type Target struct {
	Kind TargetKind
	ID   string
}

func VideoTarget(id string) Target {
	return Target{Kind: TargetKindVideo, ID: id}
}

func CommentTarget(id string) Target {
	return Target{Kind: TargetKindComment, ID: id}
}

func TweetTarget(id string) Target {
	return Target{Kind: TargetKindTweet, ID: id}
}

func (t Target) Validate() error {
	if !t.Kind.IsValid() {
		return InvalidTargetError{Kind: t.Kind, TargetID: t.ID}
	}

	if t.ID == "" {
		return InvalidTargetError{Kind: t.Kind, TargetID: t.ID}
	}

	return nil
}

type Engagement struct {
	ID        string
	Target    Target
	ActorID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	Insert(ctx context.Context, engagement *Engagement) (err error)
	DeleteByActorTarget(ctx context.Context, actorID string, target Target) (deleted bool, err error)
	ExistsByActorTarget(ctx context.Context, actorID string, target Target) (exists bool, err error)
	CountByTarget(ctx context.Context, target Target) (count int, err error)
	ListByActor(
		ctx context.Context,
		actorID string,
		kind TargetKind,
		params paging.Params,
	) (page *paging.Page[*Engagement], err error)
}

// TargetResolver reports whether the record a target claims to reference
// actually exists. Implemented by the storage layer.
type TargetResolver interface {
	TargetExists(ctx context.Context, target Target) (exists bool, err error)
}

type InvalidTargetError struct {
	Kind     TargetKind
	TargetID string
}

func (err InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid engagement target %s:%q", err.Kind, err.TargetID)
}

type TargetNotFoundError struct {
	Target Target
}

func (err TargetNotFoundError) Error() string {
	return fmt.Sprintf("engagement target %s:%q not found", err.Target.Kind, err.Target.ID)
}

type AlreadyEngagedError struct {
	ActorID string
	Target  Target
}

func (err AlreadyEngagedError) Error() string {
	return fmt.Sprintf(
		"user %q already engaged with %s:%q",
		err.ActorID,
		err.Target.Kind,
		err.Target.ID,
	)
}

type EngagementNotFoundError struct {
	ActorID string
	Target  Target
}

func (err EngagementNotFoundError) Error() string {
	return fmt.Sprintf(
		"engagement by user %q on %s:%q not found",
		err.ActorID,
		err.Target.Kind,
		err.Target.ID,
	)
}

type InvalidTargetKindError struct {
	Kind TargetKind
}

func (err InvalidTargetKindError) Error() string {
	return fmt.Sprintf("invalid target kind: %q", err.Kind)
}
