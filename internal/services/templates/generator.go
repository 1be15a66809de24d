// Package templates synthesises worlds, creatures and stories from fixed
// string templates without any network calls.
package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
	"github.com/beantunes235/fantasyforge/internal/model"
)

// ContentReader is the slice of the content store the templates read for context
type ContentReader interface {
	GetWorld(ctx context.Context, id model.WorldID) (*model.World, error)
	GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error)
	RandomStockImage(category model.ImageCategory) string
}

// Generator builds drafts from templates. Output is fixed for fixed random draws.
type Generator struct {
	store  ContentReader
	random random.Random
}

// New creates a template generator
func New(store ContentReader, rnd random.Random) *Generator {
	return &Generator{store: store, random: rnd}
}

// World generates a world draft. Blank type and magic system are picked at random.
func (g *Generator) World(req model.WorldRequest) model.WorldDraft {
	worldType := g.orRandom(req.Type, worldTypes)
	magicSystem := g.orRandom(req.MagicSystem, magicSystems)

	name := ""
	if utf8.RuneCountInString(req.Description) > 20 {
		name = strings.Join(firstTokens(req.Description, 2), "")
	}
	if name == "" {
		name = random.Pick(g.random, worldNames)
	}

	description := req.Description
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf("A magical realm of wonder and adventure, where the %s forces shape reality and %s magic flows freely.", worldType, magicSystem)
	}

	standing := "respected adventurers"
	if worldType == "ancient" {
		standing = "revered elders"
	}

	return model.WorldDraft{
		Name:        name,
		Description: description,
		Type:        worldType,
		MagicSystem: magicSystem,
		Geography:   fmt.Sprintf("A varied landscape with towering mountains, lush forests, and vast plains. The %s nature of this world creates unique geographical formations not seen elsewhere.", worldType),
		Magic:       fmt.Sprintf("The %s magic system is predominant here, allowing practitioners to manipulate the fundamental forces of the world. Magic users are %s in society.", magicSystem, standing),
		Inhabitants: fmt.Sprintf("Various intelligent species populate this realm, from humans and elves to more exotic creatures. The inhabitants have adapted to the %s environment and many have innate %s abilities.", worldType, magicSystem),
		History:     fmt.Sprintf("The world has a rich history spanning thousands of years, with great empires rising and falling. The discovery of %s magic changed the course of civilization dramatically.", magicSystem),
		Region:      fmt.Sprintf("The central region known as the %s Heartlands", name),
		Regions: []string{
			"Northern " + name,
			name + " Forests",
			"Southern " + name + " Plains",
			name + " Mountains",
		},
		ImageURL: g.store.RandomStockImage(model.ImageLandscape),
	}
}

// Creature generates a creature draft. Power and intelligence are clamped to [1,10].
func (g *Generator) Creature(req model.CreatureRequest) model.CreatureDraft {
	power := ClampStat(req.PowerLevel)
	intelligence := ClampStat(req.Intelligence)
	creatureType := g.orRandom(req.Type, creatureTypes)

	name := ""
	if utf8.RuneCountInString(req.Description) > 10 {
		name = strings.Join(firstTokens(req.Description, 2), " ")
	}
	if name == "" {
		name = random.Pick(g.random, creatureEpithets) + " " + creatureType
	}

	abilities := random.Sample(g.random, Abilities, max(2, (power+intelligence)/4))
	speed := ClampStat(g.random.Intn(5) + power/2)
	magic := ClampStat(g.random.Intn(5) + power/2)

	description := req.Description
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf("A %s and %s creature that inhabits remote regions. %ss are known for their %s abilities.",
			powerAdjectives[power-1], intelligenceAdjectives[intelligence-1], creatureType, strings.Join(abilities, " and "))
	}

	return model.CreatureDraft{
		Name:         name,
		Description:  description,
		Type:         creatureType,
		PowerLevel:   power,
		Intelligence: intelligence,
		Speed:        speed,
		Magic:        magic,
		Abilities:    abilities,
		ImageURL:     g.store.RandomStockImage(model.ImageCreature),
		WorldID:      req.WorldID,
	}
}

// Story generates a story draft, naming the referenced world and creatures
// when they exist. Missing references are ignored.
func (g *Generator) Story(ctx context.Context, req model.StoryRequest) (model.StoryDraft, error) {
	worldName := "the realm"
	if req.WorldID != nil {
		world, err := g.store.GetWorld(ctx, *req.WorldID)
		switch {
		case err == nil:
			worldName = world.Name
		case !errors.Is(err, model.ErrWorldNotFound):
			return model.StoryDraft{}, fmt.Errorf("load world %d: %w", *req.WorldID, err)
		}
	}

	var creatureNames []string
	for _, id := range req.CreatureIDs {
		creature, err := g.store.GetCreature(ctx, id)
		if errors.Is(err, model.ErrCreatureNotFound) {
			continue
		}
		if err != nil {
			return model.StoryDraft{}, fmt.Errorf("load creature %d: %w", id, err)
		}
		creatureNames = append(creatureNames, creature.Name)
	}

	theme := strings.TrimSpace(req.Theme)
	protagonist := strings.TrimSpace(req.Protagonist)
	setting := strings.TrimSpace(req.Setting)

	var title string
	switch {
	case protagonist != "" && theme != "":
		title = fmt.Sprintf("%s %s: %s", random.Pick(g.random, titlePrefixes), protagonist, theme)
	case protagonist != "":
		title = fmt.Sprintf("%s %s", random.Pick(g.random, titlePrefixes), protagonist)
	case theme != "":
		title = fmt.Sprintf("%s: A Tale of %s", theme, worldName)
	default:
		title = random.Pick(g.random, titlePrefixes) + " " + random.Pick(g.random, titleSuffixes)
	}

	beginning := fmt.Sprintf(random.Pick(g.random, beginnings), worldName)
	middle := random.Pick(g.random, middles)
	ending := random.Pick(g.random, endings)

	hero := protagonist
	if hero == "" {
		hero = "a brave hero"
	}
	companions := ""
	if len(creatureNames) > 0 {
		companions = " accompanied by " + strings.Join(creatureNames, " and ")
	}
	place := "in the lands of " + worldName
	if setting != "" {
		place = "in " + setting
	}
	plot := ""
	if len(req.PlotElements) > 0 {
		plot = fmt.Sprintf("\n\nThe journey involved %s, testing our hero at every turn.", strings.Join(req.PlotElements, ", "))
	}

	var content strings.Builder
	fmt.Fprintf(&content, "%s %s%s %s %s\n\n", beginning, hero, companions, place, middle)
	fmt.Fprintf(&content, "As the tale unfolds, %s discovers that the fate of %s hangs in the balance. "+
		"Ancient powers stir, and forgotten truths come to light. "+
		"With each challenge overcome, our protagonist grows stronger, wiser, and more determined.%s\n\n", hero, worldName, plot)
	content.WriteString("The path is fraught with danger and unexpected allies. Mountains are climbed, rivers crossed, and battles fought. " +
		"Through darkness and light, the journey continues, ever forward toward destiny.\n\n")
	content.WriteString(ending)

	return model.StoryDraft{
		Title:        title,
		Content:      content.String(),
		Theme:        orDefault(theme, "Adventure"),
		Protagonist:  orDefault(protagonist, "Unknown Hero"),
		Setting:      orDefault(setting, worldName),
		PlotElements: append([]string{}, req.PlotElements...),
		WorldID:      req.WorldID,
		CreatureIDs:  append([]model.CreatureID{}, req.CreatureIDs...),
	}, nil
}

// ClampStat forces a creature stat into [MinStat, MaxStat]
func ClampStat(v int) int {
	return min(max(v, model.MinStat), model.MaxStat)
}

func (g *Generator) orRandom(value string, options []string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return random.Pick(g.random, options)
}

func firstTokens(s string, n int) []string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return fields
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
