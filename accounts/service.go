package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	userRepo Repository
}

func NewService(userRepo Repository) *Service {
	return &Service{userRepo: userRepo}
}

type RegisterRequest struct {
	Handle      string
	DisplayName string
	AvatarURL   string
}

func (svc *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	handle := strings.ToLower(strings.TrimSpace(req.Handle))
	if handle == "" || strings.ContainsAny(handle, " \t\n") {
		return nil, InvalidHandleError{Handle: req.Handle}
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = handle
	}

	now := time.Now()

	user := &User{
		ID:          uuid.NewString(),
		Handle:      handle,
		DisplayName: displayName,
		AvatarURL:   req.AvatarURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := svc.userRepo.Insert(ctx, user)
	if err != nil {
		var handleTakenErr HandleTakenError
		if errors.As(err, &handleTakenErr) {
			return nil, handleTakenErr
		}

		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (svc *Service) GetUser(ctx context.Context, id string) (*User, error) {
	user, err := svc.userRepo.FindByID(ctx, id)
	if err != nil {
		var notFoundErr UserNotFoundError
		if errors.As(err, &notFoundErr) {
			return nil, notFoundErr
		}

		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
