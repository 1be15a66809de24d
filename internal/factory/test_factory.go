package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/beantunes235/fantasyforge/internal/dependencies/mocks"
	"github.com/beantunes235/fantasyforge/internal/services/generation"
	"github.com/beantunes235/fantasyforge/internal/services/llm"
	"github.com/beantunes235/fantasyforge/internal/services/users"
	"github.com/beantunes235/fantasyforge/internal/storage/memory"
	"github.com/beantunes235/fantasyforge/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App in demo mode (templates only) with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithCompleter(nil)
}

// NewTestAppWithCompleter creates an App whose external generation goes to
// completer. A nil completer starts in demo mode.
func NewTestAppWithCompleter(completer llm.Completer) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	// stock images draw from their own queue so tests only script generation draws
	store := memory.New(mockClock, mocks.NewMockRandom())

	breaker := generation.NewBreaker()
	if completer == nil {
		breaker = generation.NewTrippedBreaker(generation.NoAPIKeyMessage)
	}

	app := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		completer,
		breaker,
		time.Second,
		users.Config{BcryptCost: bcrypt.MinCost},
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
