package engage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/vidstream/paging"
)

type Service struct {
	engagementRepo Repository
	targetResolver TargetResolver
}

func NewService(engagementRepo Repository, targetResolver TargetResolver) *Service {
	return &Service{
		engagementRepo: engagementRepo,
		targetResolver: targetResolver,
	}
}

// Create records a single engagement by the actor on the target. Uniqueness
// is enforced by the storage constraints, not by a read-then-write, so a
// concurrent duplicate attempt surfaces as AlreadyEngagedError.
func (svc *Service) Create(ctx context.Context, actorID string, target Target) (*Engagement, error) {
	err := target.Validate()
	if err != nil {
		return nil, err
	}

	exists, err := svc.targetResolver.TargetExists(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve engagement target: %w", err)
	}

	if !exists {
		return nil, TargetNotFoundError{Target: target}
	}

	now := time.Now()

	engagement := &Engagement{
		ID:        uuid.NewString(),
		Target:    target,
		ActorID:   actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = svc.engagementRepo.Insert(ctx, engagement)
	if err != nil {
		var alreadyEngagedErr AlreadyEngagedError
		if errors.As(err, &alreadyEngagedErr) {
			return nil, alreadyEngagedErr
		}

		return nil, fmt.Errorf("failed to insert engagement: %w", err)
	}

	return engagement, nil
}

// Remove withdraws the actor's own engagement. Removal is addressed by
// (actor, target), so no other principal can delete it.
func (svc *Service) Remove(ctx context.Context, actorID string, target Target) error {
	err := target.Validate()
	if err != nil {
		return err
	}

	deleted, err := svc.engagementRepo.DeleteByActorTarget(ctx, actorID, target)
	if err != nil {
		return fmt.Errorf("failed to delete engagement: %w", err)
	}

	if !deleted {
		return EngagementNotFoundError{ActorID: actorID, Target: target}
	}

	return nil
}

func (svc *Service) Exists(ctx context.Context, actorID string, target Target) (bool, error) {
	err := target.Validate()
	if err != nil {
		return false, err
	}

	exists, err := svc.engagementRepo.ExistsByActorTarget(ctx, actorID, target)
	if err != nil {
		return false, fmt.Errorf("failed to check engagement existence: %w", err)
	}

	return exists, nil
}

func (svc *Service) CountFor(ctx context.Context, target Target) (int, error) {
	err := target.Validate()
	if err != nil {
		return 0, err
	}

	count, err := svc.engagementRepo.CountByTarget(ctx, target)
	if err != nil {
		return 0, fmt.Errorf("failed to count engagements: %w", err)
	}

	return count, nil
}

// ListByActor lists the actor's engagements, newest first. An empty kind
// lists across all target kinds.
func (svc *Service) ListByActor(
	ctx context.Context,
	actorID string,
	kind TargetKind,
	params paging.Params,
) (*paging.Page[*Engagement], error) {
	if kind != "" && !kind.IsValid() {
		return nil, InvalidTargetKindError{Kind: kind}
	}

	page, err := svc.engagementRepo.ListByActor(ctx, actorID, kind, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}

	return page, nil
}

// Toggle creates the engagement if absent and removes it otherwise,
// reporting the resulting state. A create that loses a concurrent race is
// treated as "already engaged" and toggled off.
func (svc *Service) Toggle(ctx context.Context, actorID string, target Target) (engaged bool, err error) {
	_, err = svc.Create(ctx, actorID, target)
	if err == nil {
		return true, nil
	}

	var alreadyEngagedErr AlreadyEngagedError
	if !errors.As(err, &alreadyEngagedErr) {
		return false, err
	}

	err = svc.Remove(ctx, actorID, target)
	if err != nil {
		var notFoundErr EngagementNotFoundError
		if errors.As(err, &notFoundErr) {
			// Lost a race against a concurrent removal; the end state is
			// the same.
			return false, nil
		}

		return false, err
	}

	return false, nil
}
