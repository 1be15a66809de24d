package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/beantunes235/fantasyforge/internal/dependencies/clock"
	"github.com/beantunes235/fantasyforge/internal/dependencies/mocks"
	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/storage"
	"github.com/beantunes235/fantasyforge/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStore: func(t *testing.T, clk clock.Clock, rnd random.Random) storage.ContentStore {
			return New(clk, rnd)
		},
	})
}

func TestIDsStartAtOne(t *testing.T) {
	s := New(mocks.NewMockClock(time.Now()), random.New())

	world, err := s.CreateWorld(t.Context(), storagetest.WorldDraft("Eldoria"))
	require.NoError(t, err)
	assert.Equal(t, model.WorldID(1), world.ID)

	creature, err := s.CreateCreature(t.Context(), storagetest.CreatureDraft("Zephyr", &world.ID))
	require.NoError(t, err)
	assert.Equal(t, model.CreatureID(1), creature.ID)
}

func TestCreateCreatureCopiesDraft(t *testing.T) {
	s := New(mocks.NewMockClock(time.Now()), random.New())

	draft := storagetest.CreatureDraft("Zephyr", nil)
	creature, err := s.CreateCreature(t.Context(), draft)
	require.NoError(t, err)

	draft.Abilities[0] = "changed"
	got, err := s.GetCreature(t.Context(), creature.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flight", got.Abilities[0])
}

func TestConcurrentCreatesKeepCounterConsistent(t *testing.T) {
	s := New(clock.New(), random.New())
	world, err := s.CreateWorld(t.Context(), storagetest.WorldDraft("Busy"))
	require.NoError(t, err)

	const n = 50
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, _ = s.CreateCreature(t.Context(), storagetest.CreatureDraft("Swarm", &world.ID))
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}

	got, err := s.GetWorld(t.Context(), world.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.CreatureCount)
}
