package random_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beantunes235/fantasyforge/internal/dependencies/mocks"
	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
)

func TestPickUsesQueuedIndex(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(2)

	assert.Equal(t, "c", random.Pick(rnd, []string{"a", "b", "c"}))
}

func TestPickEmptyReturnsZero(t *testing.T) {
	assert.Equal(t, "", random.Pick(random.New(), []string{}))
}

func TestPickOutOfRangeFallsBackToFirst(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(99)

	assert.Equal(t, "a", random.Pick(rnd, []string{"a", "b"}))
}

func TestSampleIsWithoutReplacement(t *testing.T) {
	rnd := mocks.NewMockRandom()
	// Always choosing offset 0 walks the pool in order
	items := []string{"a", "b", "c", "d"}

	got := random.Sample(rnd, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, []string{"a", "b", "c", "d"}, items, "input must not be modified")
}

func TestSampleFollowsDraws(t *testing.T) {
	rnd := mocks.NewMockRandom()
	// pool [a b c d]: pick idx 3 -> d, pool [d b c a]; pick 1+1=2 -> c
	rnd.QueueIntn(3, 1)

	got := random.Sample(rnd, []string{"a", "b", "c", "d"}, 2)
	assert.Equal(t, []string{"d", "c"}, got)
}

func TestSampleCapsAtPoolSize(t *testing.T) {
	got := random.Sample(random.New(), []int{1, 2, 3}, 10)
	assert.Len(t, got, 3)
	assert.ElementsMatch(t, []int{1, 2, 3}, got)
}

func TestSampleDistinctWithRealRandom(t *testing.T) {
	pool := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	for i := 0; i < 50; i++ {
		got := random.Sample(random.New(), pool, 6)
		seen := map[int]bool{}
		for _, v := range got {
			assert.False(t, seen[v], "duplicate %d", v)
			seen[v] = true
		}
	}
}

func TestCryptoRandomIntnRange(t *testing.T) {
	r := random.New()
	for i := 0; i < 100; i++ {
		v := r.Intn(5)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
	}
	assert.Equal(t, 0, r.Intn(0))
}

func TestSampleShrinksBoundEachDraw(t *testing.T) {
	rnd := mocks.NewMockRandom()

	random.Sample(rnd, []string{"a", "b", "c", "d"}, 3)
	assert.Equal(t, []int{4, 3, 2}, rnd.Bounds())
}
