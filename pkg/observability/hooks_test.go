package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingHooks struct {
	Noop
	requests int
}

func (h *countingHooks) OnRequest(context.Context, string, string, string) { h.requests++ }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Pipeline().(Noop); !ok {
		t.Errorf("Pipeline() = %T, want Noop", Pipeline())
	}
	if _, ok := Cache().(Noop); !ok {
		t.Errorf("Cache() = %T, want Noop", Cache())
	}
	if _, ok := HTTP().(Noop); !ok {
		t.Errorf("HTTP() = %T, want Noop", HTTP())
	}
}

func TestSetAndReset(t *testing.T) {
	defer Reset()

	h := &countingHooks{}
	SetHTTPHooks(h)
	SetHTTPHooks(nil)
	HTTP().OnRequest(context.Background(), "GET", "registry.example", "/web/beer_package.toml")
	if h.requests != 1 {
		t.Errorf("requests = %d, want 1", h.requests)
	}

	Reset()
	if _, ok := HTTP().(Noop); !ok {
		t.Error("Reset() did not restore Noop")
	}
}

func TestLogHooks(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	LogHooks{Logger: logger}.Register()

	ctx := context.Background()
	Pipeline().OnResolveComplete(ctx, "web", 3, time.Millisecond, nil)
	Pipeline().OnPlanComplete(ctx, "web", 0, 0, errors.New("cycle"))
	Cache().OnCacheHit(ctx, "manifest")
	HTTP().OnResponse(ctx, "GET", "registry.example", "/web/beer_package.toml", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"resolve finished", "plan failed", "cache hit", "http response", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
