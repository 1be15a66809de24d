package response

import (
	"time"

	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/services/generation"
)

// World represents a world in API responses
type World struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	MagicSystem   string    `json:"magicSystem"`
	Geography     string    `json:"geography"`
	Magic         string    `json:"magic"`
	Inhabitants   string    `json:"inhabitants"`
	History       string    `json:"history"`
	Region        string    `json:"region"`
	Regions       []string  `json:"regions"`
	ImageURL      string    `json:"imageUrl"`
	CreatureCount int       `json:"creatureCount"`
	StoryCount    int       `json:"storyCount"`
	Featured      bool      `json:"featured"`
	UserID        *int64    `json:"userId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// WorldFromModel converts a model.World to a response World
func WorldFromModel(w *model.World) World {
	var owner *int64
	if w.OwnerUserID != nil {
		id := int64(*w.OwnerUserID)
		owner = &id
	}
	return World{
		ID:            int64(w.ID),
		Name:          w.Name,
		Description:   w.Description,
		Type:          w.Type,
		MagicSystem:   w.MagicSystem,
		Geography:     w.Geography,
		Magic:         w.Magic,
		Inhabitants:   w.Inhabitants,
		History:       w.History,
		Region:        w.Region,
		Regions:       nonNil(w.Regions),
		ImageURL:      w.ImageURL,
		CreatureCount: w.CreatureCount,
		StoryCount:    w.StoryCount,
		Featured:      w.Featured,
		UserID:        owner,
		CreatedAt:     w.CreatedAt,
	}
}

// Creature represents a creature in API responses
type Creature struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	PowerLevel   int       `json:"powerLevel"`
	Intelligence int       `json:"intelligence"`
	Speed        int       `json:"speed"`
	Magic        int       `json:"magic"`
	Abilities    []string  `json:"abilities"`
	ImageURL     string    `json:"imageUrl"`
	WorldID      *int64    `json:"worldId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreatureFromModel converts a model.Creature to a response Creature
func CreatureFromModel(c *model.Creature) Creature {
	return Creature{
		ID:           int64(c.ID),
		Name:         c.Name,
		Description:  c.Description,
		Type:         c.Type,
		PowerLevel:   c.PowerLevel,
		Intelligence: c.Intelligence,
		Speed:        c.Speed,
		Magic:        c.Magic,
		Abilities:    nonNil(c.Abilities),
		ImageURL:     c.ImageURL,
		WorldID:      worldID(c.WorldID),
		CreatedAt:    c.CreatedAt,
	}
}

// Story represents a story in API responses
type Story struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Theme        string    `json:"theme"`
	Protagonist  string    `json:"protagonist"`
	Setting      string    `json:"setting"`
	PlotElements []string  `json:"plotElements"`
	WorldID      *int64    `json:"worldId"`
	CreatureIDs  []int64   `json:"creatureIds"`
	CreatedAt    time.Time `json:"createdAt"`
}

// StoryFromModel converts a model.Story to a response Story
func StoryFromModel(s *model.Story) Story {
	creatureIDs := make([]int64, 0, len(s.CreatureIDs))
	for _, id := range s.CreatureIDs {
		creatureIDs = append(creatureIDs, int64(id))
	}
	return Story{
		ID:           int64(s.ID),
		Title:        s.Title,
		Content:      s.Content,
		Theme:        s.Theme,
		Protagonist:  s.Protagonist,
		Setting:      s.Setting,
		PlotElements: nonNil(s.PlotElements),
		WorldID:      worldID(s.WorldID),
		CreatureIDs:  creatureIDs,
		CreatedAt:    s.CreatedAt,
	}
}

// User represents a user in API responses. The password hash is never sent.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:        int64(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// GeneratorStatus reports whether external generation is enabled
type GeneratorStatus struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// Status is the response for GET /api/status
type Status struct {
	OpenAI GeneratorStatus `json:"openai"`
	Demo   bool            `json:"demo"`
	Server string          `json:"server"`
}

// StatusFromBreaker builds the status response
func StatusFromBreaker(b generation.BreakerStatus) Status {
	return Status{
		OpenAI: GeneratorStatus{Available: b.Available, Error: b.Error},
		Demo:   !b.Available,
		Server: "online",
	}
}

// Health is the response for GET /api/health
type Health struct {
	Status string `json:"status"`
}

// Map converts every element of items with convert. The result is never nil.
func Map[M any, R any](items []M, convert func(M) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func worldID(id *model.WorldID) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}
