package random

import (
	"crypto/rand"
	"math/big"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	max := big.NewInt(int64(n))
	result, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fall back to 0 on error (should never happen with crypto/rand)
		return 0
	}
	return int(result.Int64())
}

// Pick returns a uniformly chosen element of items, or the zero value if items is empty
func Pick[T any](r Random, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[bounded(r, len(items))]
}

// Sample draws k distinct elements of items without replacement, preserving
// draw order. k is capped at len(items); items is not modified.
func Sample[T any](r Random, items []T, k int) []T {
	if k > len(items) {
		k = len(items)
	}
	if k <= 0 {
		return []T{}
	}

	pool := append([]T(nil), items...)
	out := make([]T, 0, k)
	for i := 0; i < k; i++ {
		// Partial Fisher-Yates: swap a random remaining element into position i
		j := i + bounded(r, len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, pool[i])
	}
	return out
}

// bounded returns r.Intn(n), or 0 when the source answers outside [0, n)
func bounded(r Random, n int) int {
	v := r.Intn(n)
	if v < 0 || v >= n {
		return 0
	}
	return v
}
