package model

import "time"

// CreatureID uniquely identifies a creature
type CreatureID int64

// Stat bounds shared by every creature rating
const (
	MinStat = 1
	MaxStat = 10
)

// CreatureDraft is a generated creature that has not been persisted yet
type CreatureDraft struct {
	Name         string   `validate:"required"`
	Description  string   `validate:"required"`
	Type         string   `validate:"required"`
	PowerLevel   int      `validate:"min=1,max=10"`
	Intelligence int      `validate:"min=1,max=10"`
	Speed        int      `validate:"min=1,max=10"`
	Magic        int      `validate:"min=1,max=10"`
	Abilities    []string `validate:"required,min=1,unique,dive,required"`
	ImageURL     string   `validate:"required,url"`
	WorldID      *WorldID
}

// Creature is a persisted creature
type Creature struct {
	ID CreatureID
	CreatureDraft
	CreatedAt time.Time
}

// Clone returns a deep copy of the creature
func (c *Creature) Clone() *Creature {
	out := *c
	out.Abilities = append([]string(nil), c.Abilities...)
	out.WorldID = cloneWorldID(c.WorldID)
	return &out
}

// CreaturePatch lists the creature fields to overwrite; nil fields are left as is
type CreaturePatch struct {
	Name         *string
	Description  *string
	Type         *string
	PowerLevel   *int
	Intelligence *int
	Speed        *int
	Magic        *int
	Abilities    []string
	ImageURL     *string
	WorldID      *WorldID
}

// Apply merges the patch into c
func (p CreaturePatch) Apply(c *Creature) {
	setString(&c.Name, p.Name)
	setString(&c.Description, p.Description)
	setString(&c.Type, p.Type)
	setString(&c.ImageURL, p.ImageURL)
	setInt(&c.PowerLevel, p.PowerLevel)
	setInt(&c.Intelligence, p.Intelligence)
	setInt(&c.Speed, p.Speed)
	setInt(&c.Magic, p.Magic)
	if p.Abilities != nil {
		c.Abilities = append([]string(nil), p.Abilities...)
	}
	if p.WorldID != nil {
		c.WorldID = cloneWorldID(p.WorldID)
	}
}

// ChildFilter narrows a creature or story listing
type ChildFilter struct {
	WorldID *WorldID
}

// MatchesWorld reports whether a child attached to worldID passes the filter
func (f ChildFilter) MatchesWorld(worldID *WorldID) bool {
	if f.WorldID == nil {
		return true
	}
	return worldID != nil && *worldID == *f.WorldID
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func cloneWorldID(id *WorldID) *WorldID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// SameWorld reports whether two optional world references point at the same world
func SameWorld(a, b *WorldID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
