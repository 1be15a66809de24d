package handler

import (
	"net/http"

	"github.com/beantunes235/fantasyforge/internal/api/request"
	"github.com/beantunes235/fantasyforge/internal/api/response"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/services/catalog"
)

// StoryHandler handles story endpoints
type StoryHandler struct {
	catalog *catalog.Service
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(catalog *catalog.Service) *StoryHandler {
	return &StoryHandler{catalog: catalog}
}

// ListByWorld handles GET /api/world/{worldId}/stories
func (h *StoryHandler) ListByWorld(w http.ResponseWriter, r *http.Request) {
	worldID, err := pathID(r, "worldId")
	if err != nil {
		WriteError(w, err)
		return
	}

	stories, err := h.catalog.ListStories(r.Context(), model.WorldID(worldID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.Map(stories, response.StoryFromModel))
}

// Get handles GET /api/story/{id}
func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	story, err := h.catalog.GetStory(r.Context(), model.StoryID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.StoryFromModel(story))
}

// Generate handles POST /api/story/generate
func (h *StoryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateStoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	story, err := h.catalog.GenerateStory(r.Context(), req.ToModel())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.StoryFromModel(story))
}

// Save handles POST /api/story/{id}/save
func (h *StoryHandler) Save(w http.ResponseWriter, r *http.Request) {
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

	story, err := h.catalog.SaveStory(r.Context(), model.StoryID(id), req.World())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.StoryFromModel(story))
}

// Delete handles DELETE /api/story/{id}
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.catalog.DeleteStory(r.Context(), model.StoryID(id)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
