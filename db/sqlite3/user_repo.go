package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/vidstream/accounts"
)

const tableUsers = "users"

type UserRepository struct {
	db *sql.DB
}

var _ accounts.Repository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const (
	userFieldID          = "id"
	userFieldHandle      = "handle"
	userFieldDisplayName = "display_name"
	userFieldAvatarURL   = "avatar_url"
	userFieldCreatedAt   = "created_at"
	userFieldUpdatedAt   = "updated_at"
)

func userColumns() []string {
	return []string{
		userFieldID,
		userFieldHandle,
		userFieldDisplayName,
		userFieldAvatarURL,
		userFieldCreatedAt,
		userFieldUpdatedAt,
	}
}

func scanUser(row sq.RowScanner) (*accounts.User, error) {
	var user accounts.User

	err := row.Scan(
		&user.ID,
		&user.Handle,
		&user.DisplayName,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}

	return &user, nil
}

func (repo *UserRepository) Insert(ctx context.Context, user *accounts.User) error {
	q := sq.Insert(tableUsers).
		Columns(userColumns()...).
		Values(
			user.ID,
			user.Handle,
			user.DisplayName,
			user.AvatarURL,
			user.CreatedAt,
			user.UpdatedAt,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return accounts.HandleTakenError{Handle: user.Handle}
		}

		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *UserRepository) FindByID(ctx context.Context, id string) (*accounts.User, error) {
	q := sq.Select(userColumns()...).
		From(tableUsers).
		Where(sq.Eq{userFieldID: id}).
		RunWith(repo.db)

	user, err := scanUser(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.UserNotFoundError{ID: id}
		}

		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}

	return user, nil
}
