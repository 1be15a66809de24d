package request

import "github.com/beantunes235/fantasyforge/internal/model"

// GenerateWorldRequest is the request body for generating a world
type GenerateWorldRequest struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	MagicSystem string `json:"magicSystem"`
}

// ToModel converts the body to a generation request
func (r GenerateWorldRequest) ToModel() model.WorldRequest {
	return model.WorldRequest{
		Description: r.Description,
		Type:        r.Type,
		MagicSystem: r.MagicSystem,
	}
}

// GenerateCreatureRequest is the request body for generating a creature
type GenerateCreatureRequest struct {
	Description  string `json:"description"`
	Type         string `json:"type"`
	PowerLevel   int    `json:"powerLevel"`
	Intelligence int    `json:"intelligence"`
	WorldID      *int64 `json:"worldId,omitempty"`
}

// ToModel converts the body to a generation request
func (r GenerateCreatureRequest) ToModel() model.CreatureRequest {
	return model.CreatureRequest{
		Description:  r.Description,
		Type:         r.Type,
		PowerLevel:   r.PowerLevel,
		Intelligence: r.Intelligence,
		WorldID:      worldID(r.WorldID),
	}
}

// GenerateStoryRequest is the request body for generating a story
type GenerateStoryRequest struct {
	Theme        string   `json:"theme"`
	Protagonist  string   `json:"protagonist"`
	Setting      string   `json:"setting"`
	PlotElements []string `json:"plotElements"`
	WorldID      *int64   `json:"worldId,omitempty"`
	CreatureIDs  []int64  `json:"creatureIds,omitempty"`
}

// ToModel converts the body to a generation request
func (r GenerateStoryRequest) ToModel() model.StoryRequest {
	creatureIDs := make([]model.CreatureID, 0, len(r.CreatureIDs))
	for _, id := range r.CreatureIDs {
		creatureIDs = append(creatureIDs, model.CreatureID(id))
	}
	return model.StoryRequest{
		Theme:        r.Theme,
		Protagonist:  r.Protagonist,
		Setting:      r.Setting,
		PlotElements: append([]string{}, r.PlotElements...),
		WorldID:      worldID(r.WorldID),
		CreatureIDs:  creatureIDs,
	}
}

// SaveRequest is the request body for attaching a creature or story to a world
type SaveRequest struct {
	WorldID *int64 `json:"worldId"`
}

// World returns the target world, nil when absent
func (r SaveRequest) World() *model.WorldID {
	return worldID(r.WorldID)
}

// FeatureRequest is the request body for featuring a world
type FeatureRequest struct {
	Featured *bool `json:"featured"`
}

// CreateUserRequest is the request body for registering a user
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// ToModel converts the body to a registration request
func (r CreateUserRequest) ToModel() model.UserRequest {
	return model.UserRequest{
		Username: r.Username,
		Password: r.Password,
		Email:    r.Email,
	}
}

func worldID(id *int64) *model.WorldID {
	if id == nil {
		return nil
	}
	w := model.WorldID(*id)
	return &w
}
