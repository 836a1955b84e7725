// Package observability provides hooks for metrics, tracing, and logging.
//
// The engine emits events through a small hook interface with a no-op
// default, so library packages stay free of observability backends.
// Consumers register an implementation at startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnStrategy(ctx, junctionID, "TRUE_TRIM", true, dur)
package observability

import (
	"context"
	"sync"
	"time"
)

// EngineHooks receives events from junction processing.
type EngineHooks interface {
	// OnDiscover records a topology-discovery result for a junction.
	OnDiscover(ctx context.Context, junctionID string, segmentCount int)

	// OnStrategy records a single reconnection-strategy attempt.
	// outcome is the strategy's outcome tag; applied reports whether it
	// succeeded (and therefore short-circuited the chain).
	OnStrategy(ctx context.Context, junctionID, outcome string, applied bool, duration time.Duration)

	// OnJunctionDone records the final outcome for one junction.
	OnJunctionDone(ctx context.Context, junctionID, outcome string, err error)
}

// noopEngineHooks is the default no-op implementation.
type noopEngineHooks struct{}

func (noopEngineHooks) OnDiscover(context.Context, string, int)                         {}
func (noopEngineHooks) OnStrategy(context.Context, string, string, bool, time.Duration) {}
func (noopEngineHooks) OnJunctionDone(context.Context, string, string, error)           {}

var (
	mu          sync.RWMutex
	engineHooks EngineHooks = noopEngineHooks{}
)

// SetEngineHooks registers the engine hook implementation.
// Pass nil to restore the no-op default.
func SetEngineHooks(h EngineHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = noopEngineHooks{}
	}
	engineHooks = h
}

// Engine returns the registered engine hooks. Never nil.
func Engine() EngineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return engineHooks
}
