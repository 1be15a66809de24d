package model

import "time"

// StoryID uniquely identifies a story
type StoryID int64

// StoryDraft is a generated story that has not been persisted yet
type StoryDraft struct {
	Title        string `validate:"required"`
	Content      string `validate:"required"`
	Theme        string `validate:"required"`
	Protagonist  string `validate:"required"`
	Setting      string `validate:"required"`
	PlotElements []string // ordered, duplicates allowed
	WorldID      *WorldID
	CreatureIDs  []CreatureID // ordered references
}

// Story is a persisted story
type Story struct {
	ID StoryID
	StoryDraft
	CreatedAt time.Time
}

// Clone returns a deep copy of the story
func (s *Story) Clone() *Story {
	out := *s
	out.PlotElements = append([]string{}, s.PlotElements...)
	out.CreatureIDs = append([]CreatureID{}, s.CreatureIDs...)
	out.WorldID = cloneWorldID(s.WorldID)
	return &out
}

// StoryPatch lists the story fields to overwrite; nil fields are left as is
type StoryPatch struct {
	Title        *string
	Content      *string
	Theme        *string
	Protagonist  *string
	Setting      *string
	PlotElements []string
	WorldID      *WorldID
	CreatureIDs  []CreatureID
}

// Apply merges the patch into s
func (p StoryPatch) Apply(s *Story) {
	setString(&s.Title, p.Title)
	setString(&s.Content, p.Content)
	setString(&s.Theme, p.Theme)
	setString(&s.Protagonist, p.Protagonist)
	setString(&s.Setting, p.Setting)
	if p.PlotElements != nil {
		s.PlotElements = append([]string{}, p.PlotElements...)
	}
	if p.CreatureIDs != nil {
		s.CreatureIDs = append([]CreatureID{}, p.CreatureIDs...)
	}
	if p.WorldID != nil {
		s.WorldID = cloneWorldID(p.WorldID)
	}
}
