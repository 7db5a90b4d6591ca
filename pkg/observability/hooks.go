// Package observability lets applications observe grid mutations, cache
// traffic and HTTP requests without linking a metrics backend into the
// library packages.
//
// Hooks are registered once by main and read by libraries through the
// package-level accessors:
//
//	func main() {
//	    observability.SetGridHooks(&promGridHooks{})
//	    observability.SetCacheHooks(&promCacheHooks{})
//	    // ... run application
//	}
//
// Libraries emit events around their work:
//
//	start := time.Now()
//	observability.Grid().OnMutationStart(ctx, "split", docID)
//	// ... apply the operation ...
//	observability.Grid().OnMutationComplete(ctx, "split", docID, time.Since(start), err)
//
// Every accessor returns a no-op implementation until a hook is registered.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Grid Hooks
// =============================================================================

// GridHooks receives events from document mutations and layout passes.
type GridHooks interface {
	// Mutation events, one pair per applied operation.
	OnMutationStart(ctx context.Context, op, docID string)
	OnMutationComplete(ctx context.Context, op, docID string, duration time.Duration, err error)

	// OnLayout records a full layout pass over a document.
	OnLayout(ctx context.Context, docID string, regions int, width, height float64)

	// OnViolation records a region laid out outside its constraints.
	OnViolation(ctx context.Context, docID, regionID, reason string)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the status written for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGridHooks is a no-op implementation of GridHooks.
type NoopGridHooks struct{}

func (NoopGridHooks) OnMutationStart(context.Context, string, string) {}
func (NoopGridHooks) OnMutationComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopGridHooks) OnLayout(context.Context, string, int, float64, float64) {}
func (NoopGridHooks) OnViolation(context.Context, string, string, string)     {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                     {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	gridHooks  GridHooks  = NoopGridHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetGridHooks registers custom grid hooks. A nil h is ignored.
func SetGridHooks(h GridHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gridHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Grid returns the registered grid hooks.
func Grid() GridHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gridHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	gridHooks = NoopGridHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
