package generation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/beantunes235/fantasyforge/internal/dependencies/mocks"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/services/llm"
	"github.com/beantunes235/fantasyforge/internal/services/templates"
	"github.com/beantunes235/fantasyforge/internal/storage/memory"
	"github.com/beantunes235/fantasyforge/internal/storage/stock"
	"github.com/beantunes235/fantasyforge/internal/testutil"
)

// fakeCompleter returns queued responses in order and records every request
type fakeCompleter struct {
	mu        sync.Mutex
	responses []fakeResponse
	requests  []llm.Request
	block     bool
}

type fakeResponse struct {
	body string
	err  error
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	block := f.block
	var resp fakeResponse
	if len(f.responses) > 0 {
		resp, f.responses = f.responses[0], f.responses[1:]
	}
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return resp.body, resp.err
}

func (f *fakeCompleter) queue(body string) {
	f.responses = append(f.responses, fakeResponse{body: body})
}

func (f *fakeCompleter) fail(err error) {
	f.responses = append(f.responses, fakeResponse{err: err})
}

type GatewaySuite struct {
	suite.Suite

	completer *fakeCompleter
	random    *mocks.MockRandom
	store     *memory.Storage
	breaker   *Breaker
	gateway   *Gateway
	ctx       context.Context
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.ctx = context.Background()
	s.completer = &fakeCompleter{}
	s.random = mocks.NewMockRandom()
	s.store = memory.New(mocks.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)), mocks.NewMockRandom())
	s.breaker = NewBreaker()
	s.gateway = s.newGateway(s.breaker, s.completer)
}

func (s *GatewaySuite) newGateway(breaker *Breaker, completer llm.Completer) *Gateway {
	return New(
		breaker,
		completer,
		templates.New(s.store, s.random),
		s.store,
		s.random,
		time.Second,
		testutil.NopLogger(),
	)
}

func (s *GatewaySuite) worldRequest() model.WorldRequest {
	return model.WorldRequest{Description: "A floating archipelago above a sea of clouds", Type: "floating", MagicSystem: "elemental"}
}

func (s *GatewaySuite) creatureRequest() model.CreatureRequest {
	return model.CreatureRequest{Description: "A storm-feathered hawk that hunts lightning", Type: "Bird", PowerLevel: 6, Intelligence: 4}
}

const worldJSON = `{
  "name": "Skyreach",
  "description": "Islands drifting over endless cloud.",
  "type": "floating",
  "magicSystem": "elemental",
  "geography": "Floating isles linked by rope bridges.",
  "magic": "Wind is bound into crystals.",
  "inhabitants": "Sky elves and cloud giants.",
  "history": "The isles rose when the old continent shattered.",
  "region": "The Windward Reach",
  "regions": ["Windward Reach", "Stormhold", "Cloudmere"]
}`

func (s *GatewaySuite) TestWorldFromExternalResponse() {
	s.completer.queue(worldJSON)

	draft, err := s.gateway.GenerateWorld(s.ctx, s.worldRequest())
	s.Require().NoError(err)

	s.Equal("Skyreach", draft.Name)
	s.Equal([]string{"Windward Reach", "Stormhold", "Cloudmere"}, draft.Regions)
	s.Contains(stock.List(model.ImageLandscape), draft.ImageURL)

	s.Require().Len(s.completer.requests, 1)
	req := s.completer.requests[0]
	s.Equal(kindWorld, req.Kind)
	s.InDelta(0.8, req.Temperature, 0.001)
	s.Contains(req.Prompt, "A floating archipelago above a sea of clouds")
	s.Contains(req.Prompt, "elemental")
}

func (s *GatewaySuite) TestWorldFillsMissingFieldsFromRequest() {
	s.completer.queue(`{
  "name": "Skyreach",
  "description": "Islands drifting over endless cloud.",
  "geography": "Floating isles.",
  "magic": "Wind crystals.",
  "inhabitants": "Sky elves.",
  "history": "Shattered continent.",
  "region": "The Windward Reach"
}`)

	draft, err := s.gateway.GenerateWorld(s.ctx, s.worldRequest())
	s.Require().NoError(err)

	s.Equal("floating", draft.Type)
	s.Equal("elemental", draft.MagicSystem)
	s.Equal([]string{"The Windward Reach"}, draft.Regions)
}

func (s *GatewaySuite) TestCreatureNormalizesStatsAndAbilities() {
	s.completer.queue(`{
  "name": "Thunderhawk",
  "description": "A hawk wreathed in static.",
  "type": "Bird",
  "magic": 14,
  "abilities": ["Flight", "Lightning Strike", "Flight", " ", "Storm Call"]
}`)
	// speed, then magic: 3+4 and 3+0
	s.random.QueueIntn(4, 0)

	draft, err := s.gateway.GenerateCreature(s.ctx, s.creatureRequest())
	s.Require().NoError(err)

	s.Equal("Thunderhawk", draft.Name)
	s.Equal(6, draft.PowerLevel)
	s.Equal(4, draft.Intelligence)
	s.Equal(7, draft.Speed)
	s.Equal(3, draft.Magic)
	s.Equal([]string{"Flight", "Lightning Strike", "Storm Call"}, draft.Abilities)
	s.Contains(stock.List(model.ImageCreature), draft.ImageURL)
	s.Nil(draft.WorldID)
}

func (s *GatewaySuite) TestCreatureSamplesAbilitiesWhenNoneReturned() {
	s.completer.queue(`{"name": "Thunderhawk", "description": "A hawk.", "type": "Bird", "speed": 5, "magic": 5, "abilities": []}`)

	draft, err := s.gateway.GenerateCreature(s.ctx, s.creatureRequest())
	s.Require().NoError(err)

	s.Len(draft.Abilities, 3)
	for _, ability := range draft.Abilities {
		s.Contains(templates.Abilities, ability)
	}
}

func (s *GatewaySuite) TestCreaturePromptDescribesWorld() {
	world, err := s.store.CreateWorld(s.ctx, model.WorldDraft{
		Name: "Skyreach", Description: "Islands in the sky", Type: "floating", MagicSystem: "elemental",
		Geography: "Floating isles", Magic: "Wind crystals", Inhabitants: "Sky elves", History: "Old",
		Region: "Reach", Regions: []string{"Reach"}, ImageURL: "https://example.com/a.jpg",
	})
	s.Require().NoError(err)
	s.completer.queue(`{"name": "Thunderhawk", "description": "A hawk.", "type": "Bird", "speed": 5, "magic": 5, "abilities": ["Flight"]}`)

	req := s.creatureRequest()
	req.WorldID = &world.ID
	draft, err := s.gateway.GenerateCreature(s.ctx, req)
	s.Require().NoError(err)

	s.Equal(&world.ID, draft.WorldID)
	prompt := s.completer.requests[0].Prompt
	s.Contains(prompt, `"Skyreach"`)
	s.Contains(prompt, "Geography: Floating isles")
	s.Contains(prompt, "Inhabitants: Sky elves")
}

func (s *GatewaySuite) TestStoryUsesContextAndRequestFields() {
	world, err := s.store.CreateWorld(s.ctx, model.WorldDraft{
		Name: "Skyreach", Description: "Islands in the sky", Type: "floating", MagicSystem: "elemental",
		Geography: "Floating isles", Magic: "Wind crystals", Inhabitants: "Sky elves", History: "The isles rose long ago",
		Region: "Reach", Regions: []string{"Reach"}, ImageURL: "https://example.com/a.jpg",
	})
	s.Require().NoError(err)
	creature, err := s.store.CreateCreature(s.ctx, model.CreatureDraft{
		Name: "Thunderhawk", Description: "A hawk of storms", Type: "Bird",
		PowerLevel: 5, Intelligence: 5, Speed: 5, Magic: 5,
		Abilities: []string{"Flight"}, ImageURL: "https://example.com/b.jpg", WorldID: &world.ID,
	})
	s.Require().NoError(err)
	s.completer.queue(`{"title": "Wings over Skyreach", "content": "Once upon a cloud..."}`)

	draft, err := s.gateway.GenerateStory(s.ctx, model.StoryRequest{
		Theme:        "courage",
		PlotElements: []string{"storm", "storm"},
		WorldID:      &world.ID,
		CreatureIDs:  []model.CreatureID{creature.ID, 999},
	})
	s.Require().NoError(err)

	s.Equal("Wings over Skyreach", draft.Title)
	s.Equal("Once upon a cloud...", draft.Content)
	s.Equal("courage", draft.Theme)
	s.Equal("Unknown Hero", draft.Protagonist)
	s.Equal("Skyreach", draft.Setting)
	s.Equal([]string{"storm", "storm"}, draft.PlotElements)
	s.Equal([]model.CreatureID{creature.ID, 999}, draft.CreatureIDs)

	req := s.completer.requests[0]
	s.Equal(storyMaxTokens, req.MaxTokens)
	s.Contains(req.Prompt, "History: The isles rose long ago")
	s.Contains(req.Prompt, "- Thunderhawk: A hawk of storms")
	s.Contains(req.Prompt, "Plot elements to include: storm, storm")
}

func (s *GatewaySuite) TestSchemaMismatchFallsBackToTemplate() {
	s.completer.queue(`{"description": "no name here"}`)

	draft, err := s.gateway.GenerateWorld(s.ctx, s.worldRequest())
	s.Require().NoError(err)

	s.Equal(templates.New(s.store, mocks.NewMockRandom()).World(s.worldRequest()).Name, draft.Name)
	s.True(s.breaker.Available())
}

func (s *GatewaySuite) TestWrongJSONTypeFallsBackToTemplate() {
	s.completer.queue(`{"name": "Thunderhawk", "description": "A hawk.", "type": "Bird", "powerLevel": "very high"}`)

	draft, err := s.gateway.GenerateCreature(s.ctx, s.creatureRequest())
	s.Require().NoError(err)

	s.Equal("A storm-feathered", draft.Name)
	s.True(s.breaker.Available())
}

func (s *GatewaySuite) TestQuotaTripsBreakerAndFallsBack() {
	s.completer.fail(&llm.QuotaError{Message: "You exceeded your current quota"})

	draft, err := s.gateway.GenerateWorld(s.ctx, s.worldRequest())
	s.Require().NoError(err)
	s.NotEmpty(draft.Name)

	status := s.gateway.Status()
	s.False(status.Available)
	s.Equal("You exceeded your current quota", status.Error)

	// later calls never reach the completer
	_, err = s.gateway.GenerateCreature(s.ctx, s.creatureRequest())
	s.Require().NoError(err)
	_, err = s.gateway.GenerateStory(s.ctx, model.StoryRequest{Theme: "loss"})
	s.Require().NoError(err)
	s.Len(s.completer.requests, 1)
	s.False(s.gateway.Status().Available)
}

func (s *GatewaySuite) TestTransientErrorLeavesBreakerClosed() {
	s.completer.fail(errors.New("connection reset by peer"))

	_, err := s.gateway.GenerateWorld(s.ctx, s.worldRequest())
	s.Require().ErrorIs(err, model.ErrGenerationFailed)
	s.True(s.breaker.Available())

	s.completer.queue(worldJSON)
	draft, err := s.gateway.GenerateWorld(s.ctx, s.worldRequest())
	s.Require().NoError(err)
	s.Equal("Skyreach", draft.Name)
}

func (s *GatewaySuite) TestMalformedJSONFails() {
	s.completer.queue(`{"name": "Skyreach",`)

	_, err := s.gateway.GenerateWorld(s.ctx, s.worldRequest())
	s.Require().ErrorIs(err, model.ErrGenerationFailed)
	s.True(s.breaker.Available())
}

func (s *GatewaySuite) TestTimeoutFails() {
	s.completer.block = true
	gateway := New(s.breaker, s.completer, templates.New(s.store, s.random), s.store, s.random, 10*time.Millisecond, testutil.NopLogger())

	_, err := gateway.GenerateStory(s.ctx, model.StoryRequest{Theme: "haste"})
	s.Require().ErrorIs(err, model.ErrGenerationFailed)
	s.Require().ErrorIs(err, context.DeadlineExceeded)
	s.True(s.breaker.Available())
}

func (s *GatewaySuite) TestTrippedBreakerUsesTemplatesOnly() {
	gateway := s.newGateway(NewTrippedBreaker(NoAPIKeyMessage), s.completer)

	draft, err := gateway.GenerateStory(s.ctx, model.StoryRequest{Theme: "hope", Protagonist: "Mira"})
	s.Require().NoError(err)

	s.Equal("The Legend of Mira: hope", draft.Title)
	s.Empty(s.completer.requests)
	s.Equal(BreakerStatus{Available: false, Error: NoAPIKeyMessage}, gateway.Status())
}

func (s *GatewaySuite) TestNilCompleterUsesTemplates() {
	gateway := s.newGateway(NewBreaker(), nil)

	draft, err := gateway.GenerateCreature(s.ctx, s.creatureRequest())
	s.Require().NoError(err)
	s.Equal("Bird", draft.Type)
}
