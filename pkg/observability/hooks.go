// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks let a deployment instrument discovery, rendering, and cache traffic
// without the library taking a dependency on any observability backend.
// No-op defaults are installed; main registers real implementations at
// startup:
//
//	observability.SetDiagramHooks(&myDiagramHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
package observability

import (
	"context"
	"sync"
	"time"
)

// DiagramHooks receives events from diagram discovery and rendering.
type DiagramHooks interface {
	// Discovery events
	OnDiscoverStart(ctx context.Context, rootCount int)
	OnDiscoverComplete(ctx context.Context, modelCount, edgeCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, bytes int, duration time.Duration, err error)
}

// CacheHooks receives events from render cache operations.
type CacheHooks interface {
	OnHit(ctx context.Context, key string)
	OnMiss(ctx context.Context, key string)
	OnSet(ctx context.Context, key string, bytes int)
}

// noopDiagramHooks is the default no-op implementation.
type noopDiagramHooks struct{}

func (noopDiagramHooks) OnDiscoverStart(context.Context, int)                               {}
func (noopDiagramHooks) OnDiscoverComplete(context.Context, int, int, time.Duration, error) {}
func (noopDiagramHooks) OnRenderStart(context.Context, string)                              {}
func (noopDiagramHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// noopCacheHooks is the default no-op implementation.
type noopCacheHooks struct{}

func (noopCacheHooks) OnHit(context.Context, string)      {}
func (noopCacheHooks) OnMiss(context.Context, string)     {}
func (noopCacheHooks) OnSet(context.Context, string, int) {}

var (
	mu           sync.RWMutex
	diagramHooks DiagramHooks = noopDiagramHooks{}
	cacheHooks   CacheHooks   = noopCacheHooks{}
)

// SetDiagramHooks registers diagram instrumentation. Passing nil restores
// the no-op defaults. Call at startup, before any commands run.
func SetDiagramHooks(h DiagramHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		diagramHooks = noopDiagramHooks{}
		return
	}
	diagramHooks = h
}

// SetCacheHooks registers cache instrumentation. Passing nil restores the
// no-op defaults.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		cacheHooks = noopCacheHooks{}
		return
	}
	cacheHooks = h
}

// Diagram returns the registered diagram hooks.
func Diagram() DiagramHooks {
	mu.RLock()
	defer mu.RUnlock()
	return diagramHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
