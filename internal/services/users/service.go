// Package users registers accounts and owns the demo account that stands in
// for the signed-in user.
package users

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/validation"
)

// DemoUsername is the account every save is attributed to
const DemoUsername = "demo"

// Store is the slice of the content store the service needs
type Store interface {
	CreateUser(ctx context.Context, nu model.NewUser) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// Service handles account creation
type Service struct {
	store     Store
	validator *validation.Validator
	logger    *slog.Logger
	cost      int

	mu   sync.Mutex
	demo *model.User
}

// Config holds configuration for the users service
type Config struct {
	BcryptCost int
}

// DefaultConfig returns default users configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// New creates a users service
func New(store Store, logger *slog.Logger, cfg Config) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		store:     store,
		validator: validation.New(),
		logger:    logger,
		cost:      cfg.BcryptCost,
	}
}

// Register creates an account with a bcrypt-hashed password. DemoUsername is
// reserved and always reported as taken.
func (s *Service) Register(ctx context.Context, req model.UserRequest) (*model.User, error) {
	if err := s.validator.Request("user", req); err != nil {
		return nil, err
	}
	if strings.EqualFold(strings.TrimSpace(req.Username), DemoUsername) {
		return nil, model.ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, model.NewUser{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// EnsureDemoOwner returns the demo account, creating it on first use
func (s *Service) EnsureDemoOwner(ctx context.Context) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.demo != nil {
		return s.demo, nil
	}

	user, err := s.store.GetUserByUsername(ctx, DemoUsername)
	if errors.Is(err, model.ErrUserNotFound) {
		user, err = s.createDemo(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("demo owner: %w", err)
	}

	s.demo = user
	return user, nil
}

// createDemo makes the demo account with an unguessable password nobody knows
func (s *Service) createDemo(ctx context.Context) (*model.User, error) {
	secret := make([]byte, 24)
	_, _ = rand.Read(secret)

	hash, err := bcrypt.GenerateFromPassword([]byte(base64.RawURLEncoding.EncodeToString(secret)), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, model.NewUser{Username: DemoUsername, PasswordHash: string(hash)})
	if errors.Is(err, model.ErrUsernameExists) {
		// another process created it first
		return s.store.GetUserByUsername(ctx, DemoUsername)
	}
	return user, err
}
