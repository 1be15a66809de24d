package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/beantunes235/fantasyforge/internal/model"
)

const userColumns = `id, username, password_hash, email, created_at`

// CreateUser inserts a user, enforcing unique username and email.
func (s *Store) CreateUser(ctx context.Context, nu model.NewUser) (*model.User, error) {
	createdAt := s.clock.Now()
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email, created_at) VALUES (?, ?, ?, ?)`,
		nu.Username, nu.PasswordHash, nullableString(nu.Email), toMillis(createdAt),
	)
	if err != nil {
		switch {
		case uniqueViolation(err, "users.username"):
			return nil, model.ErrUsernameExists
		case uniqueViolation(err, "users.email"):
			return nil, model.ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &model.User{
		ID:           model.UserID(id),
		Username:     nu.Username,
		PasswordHash: nu.PasswordHash,
		Email:        nu.Email,
		CreatedAt:    fromMillis(toMillis(createdAt)),
	}, nil
}

func (s *Store) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, int64(id))
	return scanUser(row)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user      model.User
		email     sql.NullString
		createdAt int64
	)
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &email, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Email = email.String
	user.CreatedAt = fromMillis(createdAt)
	return &user, nil
}
