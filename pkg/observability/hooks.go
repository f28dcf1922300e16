// Package observability lets callers observe solving, animation, caching
// and the HTTP API without the engine depending on a metrics backend.
//
// # Hooks
//
// Each event category has a hook interface and a no-op implementation:
//
//   - [SolverHooks]: a layout solve starting and finishing, with the
//     strategy that produced the result.
//   - [MotionHooks]: a motion being set up and frames being sampled.
//   - [CacheHooks]: hits, misses and writes of the result cache.
//   - [APIHooks]: requests served by the HTTP API.
//
// # Usage
//
// Register hooks once at startup, before any work runs:
//
//	observability.SetSolverHooks(&solveMetrics{})
//	observability.SetCacheHooks(&cacheMetrics{})
//
// Libraries read the current hooks at the point of the event:
//
//	observability.Solver().OnSolveStart(ctx, "root", len(widgets))
package observability

import (
	"context"
	"sync"
	"time"
)

// SolverHooks receives layout solve events.
type SolverHooks interface {
	OnSolveStart(ctx context.Context, container string, widgets int)
	// OnSolveComplete reports the strategy that produced the layout:
	// "direct", "graph", "grouping" or "linear".
	OnSolveComplete(ctx context.Context, container, strategy string, duration time.Duration, err error)
}

// MotionHooks receives animation events.
type MotionHooks interface {
	OnMotionSetup(ctx context.Context, widget string, keys int, err error)
	OnFrames(ctx context.Context, frames, widgets int, duration time.Duration)
}

// CacheHooks receives cache events. keyType is the kind of entry:
// "solve", "animate", "artifact" or "scene".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// APIHooks receives events for requests served by the HTTP API.
type APIHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopSolverHooks ignores every event.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolveStart(context.Context, string, int) {}
func (NoopSolverHooks) OnSolveComplete(context.Context, string, string, time.Duration, error) {
}

// NoopMotionHooks ignores every event.
type NoopMotionHooks struct{}

func (NoopMotionHooks) OnMotionSetup(context.Context, string, int, error) {}
func (NoopMotionHooks) OnFrames(context.Context, int, int, time.Duration) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopAPIHooks ignores every event.
type NoopAPIHooks struct{}

func (NoopAPIHooks) OnRequest(context.Context, string, string)                      {}
func (NoopAPIHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	hooksMu     sync.RWMutex
	solverHooks SolverHooks = NoopSolverHooks{}
	motionHooks MotionHooks = NoopMotionHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	apiHooks    APIHooks    = NoopAPIHooks{}
)

// SetSolverHooks registers solver hooks. A nil h is ignored.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetMotionHooks registers motion hooks. A nil h is ignored.
func SetMotionHooks(h MotionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		motionHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetAPIHooks registers API hooks. A nil h is ignored.
func SetAPIHooks(h APIHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		apiHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Motion returns the registered motion hooks.
func Motion() MotionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return motionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// API returns the registered API hooks.
func API() APIHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return apiHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solverHooks = NoopSolverHooks{}
	motionHooks = NoopMotionHooks{}
	cacheHooks = NoopCacheHooks{}
	apiHooks = NoopAPIHooks{}
}
