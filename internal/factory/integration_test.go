package factory

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/services/llm"
	redisstorage "github.com/beantunes235/fantasyforge/internal/storage/redis"
	"github.com/beantunes235/fantasyforge/internal/testutil"
)

// scriptedCompleter replays canned responses in order
type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (c *scriptedCompleter) CompleteJSON(_ context.Context, _ llm.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return "", nil
}

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) world(id model.WorldID) *model.World {
	world, err := s.app.Storage.GetWorld(s.ctx, id)
	s.Require().NoError(err)
	return world
}

// Test: worlds, creatures and stories generated in demo mode keep counters in step
func (s *IntegrationSuite) TestDemoModeContentFlow() {
	catalog := s.app.CatalogService

	world, err := catalog.GenerateWorld(s.ctx, model.WorldRequest{Description: "Endless marshes lit by will-o-wisps"})
	s.Require().NoError(err)
	other, err := catalog.GenerateWorld(s.ctx, model.WorldRequest{Description: "A frozen empire beneath the aurora"})
	s.Require().NoError(err)

	creature, err := catalog.GenerateCreature(s.ctx, model.CreatureRequest{
		Description: "A lantern-eyed heron", PowerLevel: 3, Intelligence: 9, WorldID: &world.ID,
	})
	s.Require().NoError(err)
	story, err := catalog.GenerateStory(s.ctx, model.StoryRequest{
		Theme: "fog", WorldID: &world.ID, CreatureIDs: []model.CreatureID{creature.ID},
	})
	s.Require().NoError(err)

	s.Equal(1, s.world(world.ID).CreatureCount)
	s.Equal(1, s.world(world.ID).StoryCount)

	// move both children to the other world
	_, err = catalog.SaveCreature(s.ctx, creature.ID, &other.ID)
	s.Require().NoError(err)
	_, err = catalog.SaveStory(s.ctx, story.ID, &other.ID)
	s.Require().NoError(err)

	s.Equal(0, s.world(world.ID).CreatureCount)
	s.Equal(0, s.world(world.ID).StoryCount)
	s.Equal(1, s.world(other.ID).CreatureCount)
	s.Equal(1, s.world(other.ID).StoryCount)

	// deleting the world detaches its children
	s.Require().NoError(catalog.DeleteWorld(s.ctx, other.ID))
	got, err := catalog.GetStory(s.ctx, story.ID)
	s.Require().NoError(err)
	s.Nil(got.WorldID)

	status := catalog.Status()
	s.False(status.Available)
}

func (s *IntegrationSuite) TestSeedThenSaveWorld() {
	seeded, err := s.app.CatalogService.SeedSamples(s.ctx)
	s.Require().NoError(err)
	s.True(seeded)

	saved, err := s.app.CatalogService.SaveWorld(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(saved.OwnerUserID)

	demo, err := s.app.Storage.GetUserByUsername(s.ctx, "demo")
	s.Require().NoError(err)
	s.Equal(demo.ID, *saved.OwnerUserID)
}

// Test: the external model is used until it reports a quota failure
func (s *IntegrationSuite) TestExternalThenQuotaFallback() {
	completer := &scriptedCompleter{
		responses: []string{`{
  "name": "Mirefen", "description": "A drowned kingdom.", "type": "swamp", "magicSystem": "spirit",
  "geography": "Bogs", "magic": "Spirits", "inhabitants": "Bog folk", "history": "Sunk long ago",
  "region": "The Mire", "regions": ["The Mire", "Reedholm"]
}`},
		errs: []error{nil, &llm.QuotaError{Message: "You exceeded your current quota"}},
	}
	app := NewTestAppWithCompleter(completer)

	world, err := app.CatalogService.GenerateWorld(s.ctx, model.WorldRequest{Description: "A drowned kingdom of reeds"})
	s.Require().NoError(err)
	s.Equal("Mirefen", world.Name)
	s.True(app.CatalogService.Status().Available)

	creature, err := app.CatalogService.GenerateCreature(s.ctx, model.CreatureRequest{
		Description: "A reed-cloaked stalker", Type: "Wraith", PowerLevel: 5, Intelligence: 5, WorldID: &world.ID,
	})
	s.Require().NoError(err)
	s.Equal("Wraith", creature.Type)

	status := app.CatalogService.Status()
	s.False(status.Available)
	s.Equal("You exceeded your current quota", status.Error)

	_, err = app.CatalogService.GenerateStory(s.ctx, model.StoryRequest{Theme: "rot"})
	s.Require().NoError(err)
	s.Equal(2, completer.calls)
}

// Storage selection

func TestNewMemory(t *testing.T) {
	app, err := New(t.Context(), Config{Logger: testutil.NopLogger()})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Nil(t, app.Completer)
	assert.False(t, app.Breaker.Available())
}

func TestNewWithAPIKey(t *testing.T) {
	app, err := New(t.Context(), Config{LLMConfig: llm.Config{APIKey: "sk-test"}})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.NotNil(t, app.Completer)
	assert.True(t, app.Breaker.Available())
}

func TestNewSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forge.db")
	app, err := New(t.Context(), Config{StorageType: StorageTypeSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	seeded, err := app.CatalogService.SeedSamples(t.Context())
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	app, err := New(t.Context(), Config{StorageType: StorageTypeRedis, RedisConfig: &redisCfg})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	worlds, err := app.CatalogService.ListWorlds(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, worlds)
}

func TestNewRejectsBadStorageConfig(t *testing.T) {
	tests := []Config{
		{StorageType: "cassandra"},
		{StorageType: StorageTypeRedis},
		{StorageType: StorageTypeSQLite},
		{StorageType: StorageTypePostgres},
	}
	for _, cfg := range tests {
		_, err := New(t.Context(), cfg)
		assert.Error(t, err, "storage type %q", cfg.StorageType)
	}
}
