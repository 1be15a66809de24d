package model

import "time"

// WorldID uniquely identifies a world
type WorldID int64

// WorldDraft is a generated world that has not been persisted yet
type WorldDraft struct {
	Name        string   `validate:"required"`
	Description string   `validate:"required"`
	Type        string   `validate:"required"`
	MagicSystem string   `validate:"required"`
	Geography   string   `validate:"required"`
	Magic       string   `validate:"required"`
	Inhabitants string   `validate:"required"`
	History     string   `validate:"required"`
	Region      string   `validate:"required"`
	Regions     []string `validate:"required,min=1,dive,required"`
	ImageURL    string   `validate:"required,url"`
}

// World is a persisted fantasy world.
// CreatureCount and StoryCount are maintained by the store and always equal
// the number of creatures/stories whose WorldID points here.
type World struct {
	ID WorldID
	WorldDraft

	CreatureCount int
	StoryCount    int
	Featured      bool
	OwnerUserID   *UserID
	CreatedAt     time.Time
}

// Clone returns a deep copy of the world
func (w *World) Clone() *World {
	c := *w
	c.Regions = append([]string(nil), w.Regions...)
	if w.OwnerUserID != nil {
		owner := *w.OwnerUserID
		c.OwnerUserID = &owner
	}
	return &c
}

// WorldPatch lists the world fields to overwrite; nil fields are left as is
type WorldPatch struct {
	Name        *string
	Description *string
	Type        *string
	MagicSystem *string
	Geography   *string
	Magic       *string
	Inhabitants *string
	History     *string
	Region      *string
	Regions     []string
	ImageURL    *string
	Featured    *bool
	OwnerUserID *UserID
}

// Apply merges the patch into w
func (p WorldPatch) Apply(w *World) {
	setString(&w.Name, p.Name)
	setString(&w.Description, p.Description)
	setString(&w.Type, p.Type)
	setString(&w.MagicSystem, p.MagicSystem)
	setString(&w.Geography, p.Geography)
	setString(&w.Magic, p.Magic)
	setString(&w.Inhabitants, p.Inhabitants)
	setString(&w.History, p.History)
	setString(&w.Region, p.Region)
	setString(&w.ImageURL, p.ImageURL)
	if p.Regions != nil {
		w.Regions = append([]string(nil), p.Regions...)
	}
	if p.Featured != nil {
		w.Featured = *p.Featured
	}
	if p.OwnerUserID != nil {
		owner := *p.OwnerUserID
		w.OwnerUserID = &owner
	}
}

// WorldFilter narrows a world listing; nil fields match everything
type WorldFilter struct {
	Featured    *bool
	OwnerUserID *UserID
}

// Matches reports whether w passes the filter
func (f WorldFilter) Matches(w *World) bool {
	if f.Featured != nil && w.Featured != *f.Featured {
		return false
	}
	if f.OwnerUserID != nil && (w.OwnerUserID == nil || *w.OwnerUserID != *f.OwnerUserID) {
		return false
	}
	return true
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
