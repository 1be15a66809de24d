package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/beantunes235/fantasyforge/internal/dependencies/clock"
	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
	"github.com/beantunes235/fantasyforge/internal/services/catalog"
	"github.com/beantunes235/fantasyforge/internal/services/generation"
	"github.com/beantunes235/fantasyforge/internal/services/llm"
	"github.com/beantunes235/fantasyforge/internal/services/templates"
	"github.com/beantunes235/fantasyforge/internal/services/users"
	"github.com/beantunes235/fantasyforge/internal/storage"
	"github.com/beantunes235/fantasyforge/internal/storage/memory"
	pgstorage "github.com/beantunes235/fantasyforge/internal/storage/postgres"
	redisstorage "github.com/beantunes235/fantasyforge/internal/storage/redis"
	"github.com/beantunes235/fantasyforge/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// DefaultGenerationTimeout bounds each external generation call
const DefaultGenerationTimeout = 90 * time.Second

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.ContentStore

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Completer llm.Completer // nil in demo mode

	// Services
	Breaker        *generation.Breaker
	Templates      *templates.Generator
	Gateway        *generation.Gateway
	UsersService   *users.Service
	CatalogService *catalog.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend: memory, redis, sqlite or postgres
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// PostgresConfig holds pool settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
	// LLMConfig configures the external model. An empty APIKey starts in demo mode.
	LLMConfig llm.Config
	// GenerationTimeout bounds each external call; zero means DefaultGenerationTimeout
	GenerationTimeout time.Duration
	// UsersConfig holds configuration for the users service (optional)
	UsersConfig users.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	store, err := openStorage(ctx, cfg, clk, rnd)
	if err != nil {
		return nil, err
	}

	var (
		completer llm.Completer
		breaker   *generation.Breaker
	)
	if cfg.LLMConfig.APIKey == "" {
		logger.Warn("no API key configured, generating from templates only")
		breaker = generation.NewTrippedBreaker(generation.NoAPIKeyMessage)
	} else {
		completer = llm.New(cfg.LLMConfig, logger)
		breaker = generation.NewBreaker()
	}

	breaker.Publish()

	timeout := cfg.GenerationTimeout
	if timeout == 0 {
		timeout = DefaultGenerationTimeout
	}

	return newWithDependencies(store, clk, rnd, completer, breaker, timeout, cfg.UsersConfig, logger), nil
}

func openStorage(ctx context.Context, cfg Config, clk clock.Clock, rnd random.Random) (storage.ContentStore, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(clk, rnd), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig, clk, rnd)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		store, err := sqlite.Open(ctx, cfg.SQLitePath, clk, rnd)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		store, err := pgstorage.Open(ctx, *cfg.PostgresConfig, clk, rnd)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, sqlite or postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.ContentStore,
	clk clock.Clock,
	rnd random.Random,
	completer llm.Completer,
	breaker *generation.Breaker,
	timeout time.Duration,
	usersCfg users.Config,
	logger *slog.Logger,
) *App {
	// Create services
	tmpl := templates.New(store, rnd)
	gateway := generation.New(breaker, completer, tmpl, store, rnd, timeout, logger)
	usersService := users.New(store, logger, usersCfg)
	catalogService := catalog.New(store, gateway, usersService, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Completer:      completer,
		Breaker:        breaker,
		Templates:      tmpl,
		Gateway:        gateway,
		UsersService:   usersService,
		CatalogService: catalogService,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
