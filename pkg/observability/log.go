package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to Logger at debug level, failures at warn.
type LogHooks struct {
	Logger *log.Logger
}

// Register installs h for all hook categories.
func (h LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) logger() *log.Logger {
	if h.Logger == nil {
		return log.Default()
	}
	return h.Logger
}

func (h LogHooks) OnResolveStart(_ context.Context, root string) {
	h.logger().Debug("resolve started", "root", root)
}

func (h LogHooks) OnResolveComplete(_ context.Context, root string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger().Warn("resolve failed", "root", root, "duration", d, "err", err)
		return
	}
	h.logger().Debug("resolve finished", "root", root, "packages", nodeCount, "duration", d)
}

func (h LogHooks) OnPlanComplete(_ context.Context, root string, groupCount int, d time.Duration, err error) {
	if err != nil {
		h.logger().Warn("plan failed", "root", root, "err", err)
		return
	}
	h.logger().Debug("plan finished", "root", root, "groups", groupCount, "duration", d)
}

func (h LogHooks) OnInstallStart(_ context.Context, root string, packageCount int) {
	h.logger().Debug("install started", "root", root, "packages", packageCount)
}

func (h LogHooks) OnInstallComplete(_ context.Context, root string, succeeded, failed, skipped int, d time.Duration, err error) {
	h.logger().Debug("install finished", "root", root,
		"succeeded", succeeded, "failed", failed, "skipped", skipped, "duration", d, "err", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger().Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger().Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger().Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger().Debug("http request", "method", method, "host", host, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger().Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger().Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ HTTPHooks     = LogHooks{}
)
