// Package observability provides hooks for metrics, tracing, and diagnostics.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Two styles coexist:
//
//   - [TemplateHooks] are injected per call through generator parameters.
//     They observe the layout retry loop (which template was tried, which
//     one passed acceptance, which one was finally chosen) and never affect
//     the generated level.
//   - [PipelineHooks] and [CacheHooks] are registered once at startup and
//     read through a global registry by the pipeline runner and the cache
//     backends.
//
// # Usage
//
// Register process-wide hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Collect template telemetry for one batch:
//
//	counter := observability.NewTemplateCounter()
//	params.Hooks = counter
//	// ... generate ...
//	for _, row := range counter.Snapshot() { ... }
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Template Hooks
// =============================================================================

// TemplateHooks receives events from a generator's layout retry loop.
// Implementations must not mutate generator state.
type TemplateHooks interface {
	// OnTemplateTry records one placement attempt with the named template.
	OnTemplateTry(name string)

	// OnTemplateAccept records an attempt that passed the acceptance gate.
	OnTemplateAccept(name string)

	// OnTemplateChoose records the layout finally kept for a level. The name
	// is FallbackTemplate when retries ran out.
	OnTemplateChoose(name string)
}

// FallbackTemplate is the name reported to OnTemplateChoose when a generator
// degrades to its unvalidated ring layout.
const FallbackTemplate = "fallback_ring"

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the generation pipeline.
type PipelineHooks interface {
	// Generate events
	OnGenerateStart(ctx context.Context, generator, tier string, seed uint64)
	OnGenerateComplete(ctx context.Context, generator string, nodeCount int, fallback bool, duration time.Duration, err error)

	// Snap events
	OnSnapStart(ctx context.Context, nodeCount int)
	OnSnapComplete(ctx context.Context, improved bool, duration time.Duration)

	// Tune events
	OnTuneStart(ctx context.Context, tier string, trials int)
	OnTuneComplete(ctx context.Context, inBand bool, diodesAdded int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTemplateHooks is a no-op implementation of TemplateHooks.
type NoopTemplateHooks struct{}

func (NoopTemplateHooks) OnTemplateTry(string)    {}
func (NoopTemplateHooks) OnTemplateAccept(string) {}
func (NoopTemplateHooks) OnTemplateChoose(string) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, string, string, uint64) {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, string, int, bool, time.Duration, error) {
}
func (NoopPipelineHooks) OnSnapStart(context.Context, int)                         {}
func (NoopPipelineHooks) OnSnapComplete(context.Context, bool, time.Duration)      {}
func (NoopPipelineHooks) OnTuneStart(context.Context, string, int)                 {}
func (NoopPipelineHooks) OnTuneComplete(context.Context, bool, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
