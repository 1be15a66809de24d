package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/services/templates"
)

// errSchemaMismatch marks a well-formed response that does not describe a usable record
var errSchemaMismatch = errors.New("response does not match schema")

type worldPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	MagicSystem string   `json:"magicSystem"`
	Geography   string   `json:"geography"`
	Magic       string   `json:"magic"`
	Inhabitants string   `json:"inhabitants"`
	History     string   `json:"history"`
	Region      string   `json:"region"`
	Regions     []string `json:"regions"`
}

type creaturePayload struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	PowerLevel   *int     `json:"powerLevel"`
	Intelligence *int     `json:"intelligence"`
	Speed        *int     `json:"speed"`
	Magic        *int     `json:"magic"`
	Abilities    []string `json:"abilities"`
}

type storyPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// decode parses raw into dst. Malformed JSON is a plain error; a value of the
// wrong JSON type is a schema mismatch.
func decode(raw string, dst any) error {
	err := json.Unmarshal([]byte(raw), dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("%w: field %q: %w", errSchemaMismatch, typeErr.Field, err)
	}
	return fmt.Errorf("decode response: %w", err)
}

func (p worldPayload) draft(req model.WorldRequest, imageURL string) model.WorldDraft {
	regions := nonBlank(p.Regions)
	if len(regions) == 0 && strings.TrimSpace(p.Region) != "" {
		regions = []string{p.Region}
	}

	return model.WorldDraft{
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Type:        orFallback(p.Type, req.Type),
		MagicSystem: orFallback(p.MagicSystem, req.MagicSystem),
		Geography:   p.Geography,
		Magic:       p.Magic,
		Inhabitants: p.Inhabitants,
		History:     p.History,
		Region:      p.Region,
		Regions:     regions,
		ImageURL:    imageURL,
	}
}

func (p creaturePayload) draft(req model.CreatureRequest, rnd random.Random, imageURL string) model.CreatureDraft {
	abilities := distinct(p.Abilities)
	if len(abilities) == 0 {
		abilities = random.Sample(rnd, templates.Abilities, 3)
	}

	return model.CreatureDraft{
		Name:         strings.TrimSpace(p.Name),
		Description:  p.Description,
		Type:         orFallback(p.Type, req.Type),
		PowerLevel:   statOr(p.PowerLevel, templates.ClampStat(req.PowerLevel)),
		Intelligence: statOr(p.Intelligence, templates.ClampStat(req.Intelligence)),
		Speed:        statOr(p.Speed, 3+rnd.Intn(8)),
		Magic:        statOr(p.Magic, 3+rnd.Intn(8)),
		Abilities:    abilities,
		ImageURL:     imageURL,
		WorldID:      req.WorldID,
	}
}

func (p storyPayload) draft(req model.StoryRequest, worldName string) model.StoryDraft {
	return model.StoryDraft{
		Title:        strings.TrimSpace(p.Title),
		Content:      p.Content,
		Theme:        orFallback(req.Theme, "Adventure"),
		Protagonist:  orFallback(req.Protagonist, "Unknown Hero"),
		Setting:      orFallback(req.Setting, worldName),
		PlotElements: append([]string{}, req.PlotElements...),
		WorldID:      req.WorldID,
		CreatureIDs:  append([]model.CreatureID{}, req.CreatureIDs...),
	}
}

// statOr returns *v when it is a valid stat, otherwise fallback.
// fallback is evaluated by the caller even when unused so the random draw
// order does not depend on the response.
func statOr(v *int, fallback int) int {
	if v == nil || *v < model.MinStat || *v > model.MaxStat {
		return fallback
	}
	return *v
}

func orFallback(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// distinct drops blanks and repeats, keeping first-seen order
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range nonBlank(values) {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
