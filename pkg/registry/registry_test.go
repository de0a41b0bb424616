package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beer/pkg/cache"
)

const webManifest = `name = "web"
git_repository = "https://example.com/web.git"
dependencies = ["lib-a"]

[formula]
install_cmds = ["make"]
`

func TestLookupClassifies(t *testing.T) {
	src := mapSource{"web": []byte(webManifest)}
	transport := errSource{err: errors.New("connection reset")}
	oversized := errSource{err: fmt.Errorf("fetch web: %w", ErrTooLarge)}

	tests := []struct {
		name string
		src  Source
		pkg  string
		want FetchKind
	}{
		{"found", src, "web", Found},
		{"missing", src, "nope", NotFound},
		{"transport", transport, "web", TransportError},
		{"oversized", oversized, "web", Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Lookup(context.Background(), tt.src, tt.pkg)
			if res.Kind != tt.want {
				t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, tt.want, res.Err)
			}
			if tt.want == Found && string(res.Data) != webManifest {
				t.Errorf("Data = %q", res.Data)
			}
			if tt.want != Found && res.Err == nil {
				t.Error("Err = nil, want error")
			}
		})
	}
}

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/web/beer_package.toml" && strings.HasPrefix(r.UserAgent(), "beer/"):
			_, _ = io.WriteString(w, webManifest)
		case r.URL.Path == "/huge/beer_package.toml":
			// Valid TOML up to the size limit: a long comment hides the formula.
			_, _ = io.WriteString(w, "name = \"huge\"\ngit_repository = \"x\"\ndependencies = []\n# ")
			_, _ = io.WriteString(w, strings.Repeat("x", MaxManifestSize))
			_, _ = io.WriteString(w, "\n[formula]\ninstall_cmds = [\"make\"]\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL + "/")
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}
	if got := src.URL("web"); got != srv.URL+"/web/beer_package.toml" {
		t.Errorf("URL = %q", got)
	}

	data, err := src.Fetch(context.Background(), "web")
	if err != nil {
		t.Fatalf("Fetch(web): %v", err)
	}
	if string(data) != webManifest {
		t.Errorf("Fetch(web) = %q", data)
	}

	_, err = src.Fetch(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch(missing) err = %v, want ErrNotFound", err)
	}

	data, err = src.Fetch(context.Background(), "huge")
	if !errors.Is(err, ErrTooLarge) || data != nil {
		t.Errorf("Fetch(huge) = %d bytes, err %v; want ErrTooLarge", len(data), err)
	}
	if res := Lookup(context.Background(), src, "huge"); res.Kind != Invalid {
		t.Errorf("Lookup(huge) kind = %v, want invalid", res.Kind)
	}
}

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, webManifest)
	}))
	defer srv.Close()

	src, _ := NewHTTPSource(srv.URL)
	src.Delay = time.Millisecond

	if _, err := src.Fetch(context.Background(), "web"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestHTTPSourceTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src, _ := NewHTTPSource(srv.URL)
	src.Delay = time.Millisecond

	res := Lookup(context.Background(), src, "web")
	if res.Kind != TransportError {
		t.Fatalf("Kind = %v, want TransportError", res.Kind)
	}
}

func TestNewHTTPSourceRejectsBadScheme(t *testing.T) {
	if _, err := NewHTTPSource("ftp://example.com"); err == nil {
		t.Error("expected error for ftp scheme")
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "web"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "web", "beer_package.toml"), []byte(webManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lib-a.toml"), []byte("name = \"lib-a\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewDirSource(dir)
	if err != nil {
		t.Fatalf("NewDirSource: %v", err)
	}
	ctx := context.Background()

	if data, err := src.Fetch(ctx, "web"); err != nil || string(data) != webManifest {
		t.Errorf("Fetch(web) = %q, %v", data, err)
	}
	if data, err := src.Fetch(ctx, "lib-a"); err != nil || !strings.Contains(string(data), "lib-a") {
		t.Errorf("Fetch(lib-a) = %q, %v", data, err)
	}
	if _, err := src.Fetch(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch(missing) err = %v, want ErrNotFound", err)
	}
	if _, err := src.Fetch(ctx, "../etc"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch(../etc) err = %v, want validation error", err)
	}
	big := append([]byte("name = \"big\"\n# "), make([]byte, MaxManifestSize)...)
	if err := os.WriteFile(filepath.Join(dir, "big.toml"), big, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Fetch(ctx, "big"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Fetch(big) err = %v, want ErrTooLarge", err)
	}
}

func TestCachedSource(t *testing.T) {
	inner := &countingSource{Source: mapSource{"web": []byte(webManifest)}}
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	src := NewCachedSource(inner, c, nil, time.Hour, false)
	for range 3 {
		if _, err := src.Fetch(ctx, "web"); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if inner.calls.Load() != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls.Load())
	}

	// Misses are not cached.
	for range 2 {
		if _, err := src.Fetch(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Fetch(missing) err = %v", err)
		}
	}
	if inner.calls.Load() != 3 {
		t.Errorf("inner calls = %d, want 3", inner.calls.Load())
	}

	refresh := NewCachedSource(inner, c, nil, time.Hour, true)
	if _, err := refresh.Fetch(ctx, "web"); err != nil {
		t.Fatal(err)
	}
	if inner.calls.Load() != 4 {
		t.Errorf("refresh should bypass cache reads, calls = %d", inner.calls.Load())
	}
}

func TestServer(t *testing.T) {
	h := NewServer(mapSource{"web": []byte(webManifest)}, log.New(io.Discard))
	srv := httptest.NewServer(h)
	defer srv.Close()

	tests := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/web/beer_package.toml", http.StatusOK},
		{"/missing/beer_package.toml", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatalf("GET %s: %v", tt.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.want)
		}
	}

	// The server speaks the layout HTTPSource expects.
	src, _ := NewHTTPSource(srv.URL)
	data, err := src.Fetch(context.Background(), "web")
	if err != nil || string(data) != webManifest {
		t.Errorf("round trip = %q, %v", data, err)
	}
}

type mapSource map[string][]byte

func (m mapSource) Name() string { return "map" }

func (m mapSource) Fetch(_ context.Context, name string) ([]byte, error) {
	if data, ok := m[name]; ok {
		return data, nil
	}
	return nil, notFound(name)
}

type errSource struct{ err error }

func (s errSource) Name() string                                  { return "err" }
func (s errSource) Fetch(context.Context, string) ([]byte, error) { return nil, s.err }

type countingSource struct {
	Source
	calls atomic.Int32
}

func (s *countingSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	s.calls.Add(1)
	return s.Source.Fetch(ctx, name)
}
