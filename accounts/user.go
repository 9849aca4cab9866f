package accounts

import (
	"context"
	"fmt"
	"time"
)

// User is the minimal account record the data layer needs: identity plus the
// summary fields comment listings join against. Credentials and sessions are
// handled elsewhere.
type User struct {
	ID          string
	Handle      string
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	Insert(ctx context.Context, user *User) (err error)
	FindByID(ctx context.Context, id string) (user *User, err error)
}

type UserNotFoundError struct {
	ID string
}

func (err UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q not found", err.ID)
}

type HandleTakenError struct {
	Handle string
}

func (err HandleTakenError) Error() string {
	return fmt.Sprintf("handle %q is already taken", err.Handle)
}

type InvalidHandleError struct {
	Handle string
}

func (err InvalidHandleError) Error() string {
	return fmt.Sprintf("invalid handle: %q", err.Handle)
}
