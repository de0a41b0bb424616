// Package observability lets a binary observe beer's library packages
// without those packages depending on a metrics or tracing backend.
//
// Libraries report through the accessors [Pipeline], [Cache] and [HTTP];
// by default every hook is a no-op. A binary installs its own hooks once,
// before any run starts:
//
//	observability.SetHTTPHooks(observability.LogHooks{Logger: logger})
//
// [LogHooks] implements every hook interface on top of a charmbracelet
// logger and is what the beer CLI registers in verbose mode.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives run-level events: one resolution, one plan and
// one install per run.
type PipelineHooks interface {
	OnResolveStart(ctx context.Context, root string)
	OnResolveComplete(ctx context.Context, root string, nodeCount int, duration time.Duration, err error)
	OnPlanComplete(ctx context.Context, root string, groupCount int, duration time.Duration, err error)
	OnInstallStart(ctx context.Context, root string, packageCount int)
	OnInstallComplete(ctx context.Context, root string, succeeded, failed, skipped int, duration time.Duration, err error)
}

// CacheHooks receives manifest cache lookups and writes. keyType names
// what was cached, currently always "manifest".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives every registry request. OnError is called instead of
// OnResponse when no response arrived.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// Noop implements every hook interface and does nothing.
type Noop struct{}

func (Noop) OnResolveStart(context.Context, string)                                         {}
func (Noop) OnResolveComplete(context.Context, string, int, time.Duration, error)           {}
func (Noop) OnPlanComplete(context.Context, string, int, time.Duration, error)              {}
func (Noop) OnInstallStart(context.Context, string, int)                                    {}
func (Noop) OnInstallComplete(context.Context, string, int, int, int, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                                             {}
func (Noop) OnCacheMiss(context.Context, string)                                            {}
func (Noop) OnCacheSet(context.Context, string, int)                                        {}
func (Noop) OnRequest(context.Context, string, string, string)                              {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration)         {}
func (Noop) OnError(context.Context, string, string, string, error)                         {}

// slot holds one registered hook. atomic.Value needs a consistent concrete
// type, hence the box.
type slot[T any] struct{ v atomic.Value }

type box[T any] struct{ h T }

func (s *slot[T]) load() T   { return s.v.Load().(box[T]).h }
func (s *slot[T]) store(h T) { s.v.Store(box[T]{h}) }

func newSlot[T any](h T) *slot[T] {
	s := &slot[T]{}
	s.store(h)
	return s
}

var (
	pipelineSlot = newSlot[PipelineHooks](Noop{})
	cacheSlot    = newSlot[CacheHooks](Noop{})
	httpSlot     = newSlot[HTTPHooks](Noop{})
)

// SetPipelineHooks registers h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.store(h)
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.store(h)
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.store(h)
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.load() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.load() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.load() }

// Reset restores the no-op hooks.
func Reset() {
	pipelineSlot.store(Noop{})
	cacheSlot.store(Noop{})
	httpSlot.store(Noop{})
}
