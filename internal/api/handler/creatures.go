package handler

import (
	"net/http"

	"github.com/beantunes235/fantasyforge/internal/api/request"
	"github.com/beantunes235/fantasyforge/internal/api/response"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/services/catalog"
)

// CreatureHandler handles creature endpoints
type CreatureHandler struct {
	catalog *catalog.Service
}

// NewCreatureHandler creates a new creature handler
func NewCreatureHandler(catalog *catalog.Service) *CreatureHandler {
	return &CreatureHandler{catalog: catalog}
}

// ListByWorld handles GET /api/world/{worldId}/creatures
func (h *CreatureHandler) ListByWorld(w http.ResponseWriter, r *http.Request) {
	worldID, err := pathID(r, "worldId")
	if err != nil {
		WriteError(w, err)
		return
	}

	creatures, err := h.catalog.ListCreatures(r.Context(), model.WorldID(worldID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.Map(creatures, response.CreatureFromModel))
}

// Get handles GET /api/creature/{id}
func (h *CreatureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	creature, err := h.catalog.GetCreature(r.Context(), model.CreatureID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.CreatureFromModel(creature))
}

// Generate handles POST /api/creature/generate
func (h *CreatureHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateCreatureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	creature, err := h.catalog.GenerateCreature(r.Context(), req.ToModel())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.CreatureFromModel(creature))
}

// Save handles POST /api/creature/{id}/save
func (h *CreatureHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.SaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	creature, err := h.catalog.SaveCreature(r.Context(), model.CreatureID(id), req.World())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.CreatureFromModel(creature))
}

// Delete handles DELETE /api/creature/{id}
func (h *CreatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.catalog.DeleteCreature(r.Context(), model.CreatureID(id)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
