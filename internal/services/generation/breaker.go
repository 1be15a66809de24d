package generation

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var externalAvailable = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "forge_generation_external_available",
	Help: "1 while external generation is enabled, 0 once the process has switched to templates.",
})

// BreakerStatus is a snapshot of the breaker
type BreakerStatus struct {
	Available bool
	Error     string
}

// Breaker is a one-way latch: once tripped, external generation stays off
// for the life of the process. Safe for concurrent use.
type Breaker struct {
	available atomic.Bool

	mu        sync.Mutex
	lastError string
	gauge     prometheus.Gauge
}

// NewBreaker returns a breaker that allows external generation
func NewBreaker() *Breaker {
	b := &Breaker{}
	b.available.Store(true)
	return b
}

// NewTrippedBreaker returns a breaker that starts in template-only mode
func NewTrippedBreaker(reason string) *Breaker {
	return &Breaker{lastError: reason}
}

// Publish makes b the breaker behind the process-wide availability gauge.
// Only the server's own breaker should be published.
func (b *Breaker) Publish() *Breaker {
	return b.reportTo(externalAvailable)
}

func (b *Breaker) reportTo(gauge prometheus.Gauge) *Breaker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.gauge = gauge
	b.setGauge()
	return b
}

// setGauge must be called with mu held
func (b *Breaker) setGauge() {
	if b.gauge == nil {
		return
	}
	if b.available.Load() {
		b.gauge.Set(1)
	} else {
		b.gauge.Set(0)
	}
}

// Available reports whether external generation may be attempted
func (b *Breaker) Available() bool {
	return b.available.Load()
}

// Trip switches to template-only mode and records reason. It reports whether
// this call performed the switch; later calls keep the first reason.
func (b *Breaker) Trip(reason string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.available.Load() {
		return false
	}
	b.lastError = reason
	b.available.Store(false)
	b.setGauge()
	return true
}

// Status returns the current availability and the recorded error
func (b *Breaker) Status() BreakerStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BreakerStatus{Available: b.available.Load(), Error: b.lastError}
}
