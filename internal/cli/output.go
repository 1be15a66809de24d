package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case World:
		o.printWorld(v)
	case []World:
		o.printWorlds(v)
	case Creature:
		o.printCreature(v)
	case []Creature:
		o.printCreatures(v)
	case Story:
		o.printStory(v)
	case []Story:
		o.printStories(v)
	case User:
		o.printUser(v)
	case StatusResult:
		o.printStatusResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// World response type (matches API)
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

// Creature response type
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

// Story response type
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

// User response type
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatusResult response type
type StatusResult struct {
	OpenAI struct {
		Available bool   `json:"available"`
		Error     string `json:"error,omitempty"`
	} `json:"openai"`
	Demo   bool   `json:"demo"`
	Server string `json:"server"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printWorld(w World) {
	featured := ""
	if w.Featured {
		featured = " [featured]"
	}
	fmt.Fprintf(o.w, "World: %s (#%d)%s\n", w.Name, w.ID, featured)
	fmt.Fprintf(o.w, "Type: %s\n", w.Type)
	fmt.Fprintf(o.w, "Magic System: %s\n", w.MagicSystem)
	if len(w.Regions) > 0 {
		fmt.Fprintf(o.w, "Regions: %s\n", strings.Join(w.Regions, ", "))
	}
	fmt.Fprintf(o.w, "Creatures: %d  Stories: %d\n", w.CreatureCount, w.StoryCount)
	fmt.Fprintf(o.w, "\n%s\n", w.Description)
	for _, section := range []struct{ title, body string }{
		{"Geography", w.Geography},
		{"Magic", w.Magic},
		{"Inhabitants", w.Inhabitants},
		{"History", w.History},
	} {
		if section.body != "" {
			fmt.Fprintf(o.w, "\n%s:\n  %s\n", section.title, section.body)
		}
	}
}

func (o *Output) printWorlds(worlds []World) {
	if len(worlds) == 0 {
		fmt.Fprintln(o.w, "No worlds")
		return
	}
	for _, w := range worlds {
		featured := ""
		if w.Featured {
			featured = " *"
		}
		fmt.Fprintf(o.w, "%5d  %s (%s)%s\n", w.ID, w.Name, w.Type, featured)
	}
}

func (o *Output) printCreature(c Creature) {
	fmt.Fprintf(o.w, "Creature: %s (#%d)\n", c.Name, c.ID)
	fmt.Fprintf(o.w, "Type: %s\n", c.Type)
	fmt.Fprintf(o.w, "World: %s\n", optionalID(c.WorldID))
	fmt.Fprintf(o.w, "Power: %d  Intelligence: %d  Speed: %d  Magic: %d\n",
		c.PowerLevel, c.Intelligence, c.Speed, c.Magic)
	if len(c.Abilities) > 0 {
		fmt.Fprintln(o.w, "Abilities:")
		for _, a := range c.Abilities {
			fmt.Fprintf(o.w, "  - %s\n", a)
		}
	}
	fmt.Fprintf(o.w, "\n%s\n", c.Description)
}

func (o *Output) printCreatures(creatures []Creature) {
	if len(creatures) == 0 {
		fmt.Fprintln(o.w, "No creatures")
		return
	}
	for _, c := range creatures {
		fmt.Fprintf(o.w, "%5d  %s (%s) power %d\n", c.ID, c.Name, c.Type, c.PowerLevel)
	}
}

func (o *Output) printStory(s Story) {
	fmt.Fprintf(o.w, "Story: %s (#%d)\n", s.Title, s.ID)
	fmt.Fprintf(o.w, "Theme: %s\n", s.Theme)
	fmt.Fprintf(o.w, "Protagonist: %s\n", s.Protagonist)
	fmt.Fprintf(o.w, "Setting: %s\n", s.Setting)
	fmt.Fprintf(o.w, "World: %s\n", optionalID(s.WorldID))
	if len(s.PlotElements) > 0 {
		fmt.Fprintf(o.w, "Plot: %s\n", strings.Join(s.PlotElements, ", "))
	}
	fmt.Fprintf(o.w, "\n%s\n", s.Content)
}

func (o *Output) printStories(stories []Story) {
	if len(stories) == 0 {
		fmt.Fprintln(o.w, "No stories")
		return
	}
	for _, s := range stories {
		fmt.Fprintf(o.w, "%5d  %s (%s)\n", s.ID, s.Title, s.Theme)
	}
}

func (o *Output) printUser(u User) {
	fmt.Fprintf(o.w, "User: %s (#%d)\n", u.Username, u.ID)
	if u.Email != "" {
		fmt.Fprintf(o.w, "Email: %s\n", u.Email)
	}
}

func (o *Output) printStatusResult(s StatusResult) {
	fmt.Fprintf(o.w, "Server: %s\n", s.Server)
	if s.OpenAI.Available {
		fmt.Fprintln(o.w, "Generation: external model")
		return
	}
	fmt.Fprintln(o.w, "Generation: templates (demo mode)")
	if s.OpenAI.Error != "" {
		fmt.Fprintf(o.w, "Reason: %s\n", s.OpenAI.Error)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

func optionalID(id *int64) string {
	if id == nil {
		return "none"
	}
	return "#" + strconv.FormatInt(*id, 10)
}
