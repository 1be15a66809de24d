package handler

import (
	"net/http"

	"github.com/beantunes235/fantasyforge/internal/api/request"
	"github.com/beantunes235/fantasyforge/internal/api/response"
	"github.com/beantunes235/fantasyforge/internal/services/users"
)

// UserHandler handles account endpoints
type UserHandler struct {
	users *users.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *users.Service) *UserHandler {
	return &UserHandler{users: users}
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.users.Register(r.Context(), req.ToModel())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.UserFromModel(user))
}
