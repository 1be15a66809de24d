package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"

	"github.com/beantunes235/fantasyforge/internal/dependencies/clock"
	"github.com/beantunes235/fantasyforge/internal/dependencies/mocks"
	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/storage/memory"
	"github.com/beantunes235/fantasyforge/internal/storage/stock"
	"github.com/beantunes235/fantasyforge/internal/storage/storagetest"
)

type GeneratorSuite struct {
	suite.Suite
	store     *memory.Storage
	rnd       *mocks.MockRandom
	generator *Generator
	validate  *validator.Validate
	ctx       context.Context
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) SetupTest() {
	s.store = memory.New(clock.New(), random.New())
	s.rnd = mocks.NewMockRandom()
	s.generator = New(s.store, s.rnd)
	s.validate = validator.New()
	s.ctx = context.Background()
}

// World tests

func (s *GeneratorSuite) TestWorldPicksBlankFieldsAtRandom() {
	s.rnd.QueueIntn(5, 0, 3) // type, magic system, name

	draft := s.generator.World(model.WorldRequest{Description: "tiny"})

	s.Equal("ancient", draft.Type)
	s.Equal("arcane", draft.MagicSystem)
	s.Equal("Avaloria", draft.Name)
	s.Equal("tiny", draft.Description)
	s.Contains(draft.Magic, "revered elders")
	s.Equal("The central region known as the Avaloria Heartlands", draft.Region)
	s.Equal([]string{"Northern Avaloria", "Avaloria Forests", "Southern Avaloria Plains", "Avaloria Mountains"}, draft.Regions)
	s.Contains(stock.List(model.ImageLandscape), draft.ImageURL)
	s.Zero(s.rnd.Remaining())
}

func (s *GeneratorSuite) TestWorldNameFromLongDescription() {
	draft := s.generator.World(model.WorldRequest{
		Description: "Crystal Spires rise over a frozen sea of glass",
		Type:        "medieval",
		MagicSystem: "rune",
	})

	s.Equal("CrystalSpires", draft.Name)
	s.Equal("medieval", draft.Type)
	s.Equal("rune", draft.MagicSystem)
	s.Contains(draft.Magic, "respected adventurers")
	s.Contains(draft.Geography, "The medieval nature of this world")
	s.Contains(draft.History, "The discovery of rune magic")
}

func (s *GeneratorSuite) TestWorldTemplatedDescriptionWhenBlank() {
	draft := s.generator.World(model.WorldRequest{Type: "primal", MagicSystem: "wild"})

	s.Equal("A magical realm of wonder and adventure, where the primal forces shape reality and wild magic flows freely.", draft.Description)
}

func (s *GeneratorSuite) TestWorldWhitespaceDescriptionFallsBackToNameList() {
	s.rnd.QueueIntn(0, 0, 9)

	draft := s.generator.World(model.WorldRequest{Description: strings.Repeat(" ", 30)})

	s.Equal("Stormhold", draft.Name)
	s.NoError(s.validate.Struct(draft))
}

func (s *GeneratorSuite) TestWorldDraftPassesValidation() {
	gen := New(s.store, random.New())
	for i := 0; i < 25; i++ {
		s.NoError(s.validate.Struct(gen.World(model.WorldRequest{})))
	}
}

// Creature tests

func (s *GeneratorSuite) TestCreatureFixedDraws() {
	// type, epithet, three ability draws, speed, magic
	s.rnd.QueueIntn(0, 2, 0, 0, 0, 4, 0)

	draft := s.generator.Creature(model.CreatureRequest{PowerLevel: 8, Intelligence: 6})

	s.Equal("Dragon", draft.Type)
	s.Equal("Legendary Dragon", draft.Name)
	s.Equal([]string{"Fire breath", "Lightning strike", "Invisibility"}, draft.Abilities)
	s.Equal(8, draft.Speed)
	s.Equal(4, draft.Magic)
	s.Equal("A mighty and clever creature that inhabits remote regions. Dragons are known for their Fire breath and Lightning strike and Invisibility abilities.", draft.Description)
	s.Contains(stock.List(model.ImageCreature), draft.ImageURL)
	s.Zero(s.rnd.Remaining())
}

func (s *GeneratorSuite) TestCreatureNameFromDescription() {
	worldID := model.WorldID(3)
	draft := s.generator.Creature(model.CreatureRequest{
		Description:  "Storm Serpent of the northern seas",
		Type:         "Serpent",
		PowerLevel:   5,
		Intelligence: 5,
		WorldID:      &worldID,
	})

	s.Equal("Storm Serpent", draft.Name)
	s.Equal("Serpent", draft.Type)
	s.Equal("Storm Serpent of the northern seas", draft.Description)
	s.Require().NotNil(draft.WorldID)
	s.Equal(worldID, *draft.WorldID)
}

func (s *GeneratorSuite) TestCreatureClampsInputs() {
	draft := s.generator.Creature(model.CreatureRequest{Type: "Hydra", PowerLevel: 0, Intelligence: 15})

	s.Equal(1, draft.PowerLevel)
	s.Equal(10, draft.Intelligence)
	s.Len(draft.Abilities, 2)
}

func (s *GeneratorSuite) TestCreatureAbilityCountScalesWithStats() {
	gen := New(s.store, random.New())

	draft := gen.Creature(model.CreatureRequest{Type: "Hydra", PowerLevel: 10, Intelligence: 10})
	s.Len(draft.Abilities, 5)

	draft = gen.Creature(model.CreatureRequest{Type: "Hydra", PowerLevel: 1, Intelligence: 1})
	s.Len(draft.Abilities, 2)
}

func (s *GeneratorSuite) TestCreatureIsTotalOverStatRange() {
	gen := New(s.store, random.New())
	for power := 1; power <= 10; power++ {
		for intelligence := 1; intelligence <= 10; intelligence++ {
			draft := gen.Creature(model.CreatureRequest{PowerLevel: power, Intelligence: intelligence})
			s.Require().NoError(s.validate.Struct(draft), "power=%d intelligence=%d", power, intelligence)
			s.GreaterOrEqual(len(draft.Abilities), 2)
		}
	}
}

// Story tests

func (s *GeneratorSuite) TestStoryWithWorldAndCreatures() {
	world, err := s.store.CreateWorld(s.ctx, storagetest.WorldDraft("Eldoria"))
	s.Require().NoError(err)
	creature, err := s.store.CreateCreature(s.ctx, storagetest.CreatureDraft("Zephyr", &world.ID))
	s.Require().NoError(err)

	s.rnd.QueueIntn(0, 1, 0, 2) // title prefix, beginning, middle, ending

	draft, err := s.generator.Story(s.ctx, model.StoryRequest{
		Theme:        "Redemption",
		Protagonist:  "Kael",
		Setting:      "Sky Citadel",
		PlotElements: []string{"betrayal", "storm"},
		WorldID:      &world.ID,
		CreatureIDs:  []model.CreatureID{creature.ID},
	})
	s.Require().NoError(err)

	s.Equal("The Legend of Kael: Redemption", draft.Title)
	s.True(strings.HasPrefix(draft.Content,
		"Beyond the misty mountains of Eldoria, hidden from prying eyes, Kael accompanied by Zephyr in Sky Citadel our hero embarked on a quest"))
	s.Contains(draft.Content, "the fate of Eldoria hangs in the balance")
	s.Contains(draft.Content, "The journey involved betrayal, storm, testing our hero at every turn.")
	s.True(strings.HasSuffix(draft.Content, endings[2]))
	s.Equal("Redemption", draft.Theme)
	s.Equal("Kael", draft.Protagonist)
	s.Equal("Sky Citadel", draft.Setting)
	s.Equal([]string{"betrayal", "storm"}, draft.PlotElements)
	s.Equal([]model.CreatureID{creature.ID}, draft.CreatureIDs)
}

func (s *GeneratorSuite) TestStoryThemeOnly() {
	draft, err := s.generator.Story(s.ctx, model.StoryRequest{Theme: "Redemption"})
	s.Require().NoError(err)

	s.Equal("Redemption: A Tale of the realm", draft.Title)
	s.Equal("Unknown Hero", draft.Protagonist)
	s.Equal("the realm", draft.Setting)
	s.Contains(draft.Content, "a brave hero in the lands of the realm")
	s.NotContains(draft.Content, "The journey involved")
	s.NotNil(draft.PlotElements)
	s.NotNil(draft.CreatureIDs)
}

func (s *GeneratorSuite) TestStoryProtagonistOnly() {
	s.rnd.QueueIntn(2)

	draft, err := s.generator.Story(s.ctx, model.StoryRequest{Protagonist: "Lyra"})
	s.Require().NoError(err)

	s.Equal("Tale of Lyra", draft.Title)
	s.Equal("Adventure", draft.Theme)
}

func (s *GeneratorSuite) TestStoryWithoutThemeOrProtagonist() {
	s.rnd.QueueIntn(4, 1)

	draft, err := s.generator.Story(s.ctx, model.StoryRequest{})
	s.Require().NoError(err)

	s.Equal("Saga of the Ancient Power", draft.Title)
	s.NoError(s.validate.Struct(draft))
}

func (s *GeneratorSuite) TestStoryBlankThemeAndProtagonistUseDefaults() {
	s.rnd.QueueIntn(0, 0)

	draft, err := s.generator.Story(s.ctx, model.StoryRequest{
		Protagonist: "   ",
		Theme:       "  ",
		Setting:     "\t",
	})
	s.Require().NoError(err)

	s.Equal("The Legend of Destiny", draft.Title)
	s.Equal("Unknown Hero", draft.Protagonist)
	s.Equal("Adventure", draft.Theme)
	s.Equal("the realm", draft.Setting)
	s.Contains(draft.Content, "a brave hero in the lands of the realm")
}

func (s *GeneratorSuite) TestStoryTrimsThemeAndProtagonist() {
	draft, err := s.generator.Story(s.ctx, model.StoryRequest{Protagonist: "  Lyra ", Theme: " Loss  "})
	s.Require().NoError(err)

	s.Equal("The Legend of Lyra: Loss", draft.Title)
	s.Equal("Lyra", draft.Protagonist)
	s.Equal("Loss", draft.Theme)
}

func (s *GeneratorSuite) TestStoryIgnoresMissingReferences() {
	missingWorld := model.WorldID(999)

	draft, err := s.generator.Story(s.ctx, model.StoryRequest{
		Theme:       "Loss",
		WorldID:     &missingWorld,
		CreatureIDs: []model.CreatureID{404},
	})
	s.Require().NoError(err)

	s.Equal("Loss: A Tale of the realm", draft.Title)
	s.NotContains(draft.Content, "accompanied by")
	s.Require().NotNil(draft.WorldID)
	s.Equal(missingWorld, *draft.WorldID)
	s.Equal([]model.CreatureID{404}, draft.CreatureIDs)
}

func (s *GeneratorSuite) TestStoryDuplicatesPlotElements() {
	draft, err := s.generator.Story(s.ctx, model.StoryRequest{PlotElements: []string{"storm", "storm"}})
	s.Require().NoError(err)

	s.Equal([]string{"storm", "storm"}, draft.PlotElements)
	s.Contains(draft.Content, "The journey involved storm, storm,")
}

func (s *GeneratorSuite) TestClampStat() {
	s.Equal(1, ClampStat(-4))
	s.Equal(7, ClampStat(7))
	s.Equal(10, ClampStat(12))
}
