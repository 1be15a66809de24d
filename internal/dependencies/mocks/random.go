package mocks

import (
	"sync"

	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu      sync.Mutex
	queue   []int
	next    int
	history []int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining. Every bound
// asked for is recorded in Bounds.
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, n)
	if r.next >= len(r.queue) {
		return 0
	}
	result := r.queue[r.next]
	r.next++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, values...)
}

// Remaining returns how many queued Intn results have not been consumed
func (r *MockRandom) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue) - r.next
}

// Bounds returns the n passed to each Intn call so far, oldest first
func (r *MockRandom) Bounds() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.history...)
}

// Reset clears all queued results and recorded bounds
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = nil
	r.next = 0
	r.history = nil
}
