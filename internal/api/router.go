package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beantunes235/fantasyforge/internal/api/handler"
	"github.com/beantunes235/fantasyforge/internal/api/middleware"
	"github.com/beantunes235/fantasyforge/internal/api/response"
	"github.com/beantunes235/fantasyforge/internal/services/catalog"
	"github.com/beantunes235/fantasyforge/internal/services/users"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	CatalogService *catalog.Service
	UsersService   *users.Service
}

// NewRouter creates a new API router with all routes configured.
// /metrics is served at the root, everything else under /api.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	worldHandler := handler.NewWorldHandler(cfg.CatalogService)
	creatureHandler := handler.NewCreatureHandler(cfg.CatalogService)
	storyHandler := handler.NewStoryHandler(cfg.CatalogService)
	userHandler := handler.NewUserHandler(cfg.UsersService)
	statusHandler := handler.NewStatusHandler(cfg.CatalogService)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.NotFoundHandler = http.HandlerFunc(notFound)

	// World routes
	api.HandleFunc("/worlds", worldHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/worlds/my-worlds", worldHandler.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/world/generate", worldHandler.Generate).Methods(http.MethodPost)
	api.HandleFunc("/world/{id}", worldHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/world/{id}", worldHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/world/{id}/save", worldHandler.Save).Methods(http.MethodPost)
	api.HandleFunc("/world/{id}/feature", worldHandler.Feature).Methods(http.MethodPost)

	// Creature routes
	api.HandleFunc("/world/{worldId}/creatures", creatureHandler.ListByWorld).Methods(http.MethodGet)
	api.HandleFunc("/creature/generate", creatureHandler.Generate).Methods(http.MethodPost)
	api.HandleFunc("/creature/{id}", creatureHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/creature/{id}", creatureHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/creature/{id}/save", creatureHandler.Save).Methods(http.MethodPost)

	// Story routes
	api.HandleFunc("/world/{worldId}/stories", storyHandler.ListByWorld).Methods(http.MethodGet)
	api.HandleFunc("/story/generate", storyHandler.Generate).Methods(http.MethodPost)
	api.HandleFunc("/story/{id}", storyHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/story/{id}", storyHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/story/{id}/save", storyHandler.Save).Methods(http.MethodPost)

	// User routes
	api.HandleFunc("/users", userHandler.Create).Methods(http.MethodPost)

	// Status endpoints
	api.HandleFunc("/status", statusHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/health", statusHandler.Health).Methods(http.MethodGet)

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusNotFound, map[string]string{"message": "Not found", "code": "NOT_FOUND"})
}
