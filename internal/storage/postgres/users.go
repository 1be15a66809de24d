package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/beantunes235/fantasyforge/internal/model"
)

const userColumns = `id, username, password_hash, email, created_at`

func (s *Store) CreateUser(ctx context.Context, nu model.NewUser) (*model.User, error) {
	var email *string
	if nu.Email != "" {
		email = &nu.Email
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, email, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		nu.Username, nu.PasswordHash, email, s.clock.Now(),
	)
	user, err := scanUser(row)
	if err != nil {
		switch {
		case isUniqueViolation(err, "username"):
			return nil, model.ErrUsernameExists
		case isUniqueViolation(err, "email"):
			return nil, model.ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id)))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		id        int64
		user      model.User
		email     *string
		createdAt time.Time
	)
	if err := row.Scan(&id, &user.Username, &user.PasswordHash, &email, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	user.ID = model.UserID(id)
	if email != nil {
		user.Email = *email
	}
	user.CreatedAt = createdAt
	return &user, nil
}
