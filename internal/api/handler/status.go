package handler

import (
	"net/http"

	"github.com/beantunes235/fantasyforge/internal/api/response"
	"github.com/beantunes235/fantasyforge/internal/services/catalog"
)

// StatusHandler reports server and generator state
type StatusHandler struct {
	catalog *catalog.Service
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(catalog *catalog.Service) *StatusHandler {
	return &StatusHandler{catalog: catalog}
}

// Status handles GET /api/status
func (h *StatusHandler) Status(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, response.StatusFromBreaker(h.catalog.Status()))
}

// Health handles GET /api/health
func (h *StatusHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, response.Health{Status: "ok"})
}
