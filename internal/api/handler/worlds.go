package handler

import (
	"net/http"
	"strconv"

	"github.com/beantunes235/fantasyforge/internal/api/apierr"
	"github.com/beantunes235/fantasyforge/internal/api/request"
	"github.com/beantunes235/fantasyforge/internal/api/response"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/services/catalog"
)

// WorldHandler handles world endpoints
type WorldHandler struct {
	catalog *catalog.Service
}

// NewWorldHandler creates a new world handler
func NewWorldHandler(catalog *catalog.Service) *WorldHandler {
	return &WorldHandler{catalog: catalog}
}

// List handles GET /api/worlds?featured={bool}
func (h *WorldHandler) List(w http.ResponseWriter, r *http.Request) {
	var featured *bool
	if raw := r.URL.Query().Get("featured"); raw != "" {
		flag, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, apierr.NewInvalidRequestError("featured must be true or false"))
			return
		}
		featured = &flag
	}

	worlds, err := h.catalog.ListWorlds(r.Context(), featured)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.Map(worlds, response.WorldFromModel))
}

// ListMine handles GET /api/worlds/my-worlds
func (h *WorldHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	worlds, err := h.catalog.ListMyWorlds(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.Map(worlds, response.WorldFromModel))
}

// Get handles GET /api/world/{id}
func (h *WorldHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	world, err := h.catalog.GetWorld(r.Context(), model.WorldID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.WorldFromModel(world))
}

// Generate handles POST /api/world/generate
func (h *WorldHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateWorldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	world, err := h.catalog.GenerateWorld(r.Context(), req.ToModel())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.WorldFromModel(world))
}

// Save handles POST /api/world/{id}/save
func (h *WorldHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	world, err := h.catalog.SaveWorld(r.Context(), model.WorldID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.WorldFromModel(world))
}

// Feature handles POST /api/world/{id}/feature
func (h *WorldHandler) Feature(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.FeatureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	featured := true
	if req.Featured != nil {
		featured = *req.Featured
	}

	world, err := h.catalog.FeatureWorld(r.Context(), model.WorldID(id), featured)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.WorldFromModel(world))
}

// Delete handles DELETE /api/world/{id}
func (h *WorldHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.catalog.DeleteWorld(r.Context(), model.WorldID(id)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
