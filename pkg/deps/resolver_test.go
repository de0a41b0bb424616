package deps

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	beererrors "github.com/matzehuels/beer/pkg/errors"
	"github.com/matzehuels/beer/pkg/formula"
	"github.com/matzehuels/beer/pkg/registry"
)

type fakeSource struct {
	mu        sync.Mutex
	manifests map[string]string
	failures  map[string]error
	calls     map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		manifests: make(map[string]string),
		failures:  make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (s *fakeSource) add(name string, deps ...string) *fakeSource {
	quoted := make([]string, len(deps))
	for i, d := range deps {
		quoted[i] = fmt.Sprintf("%q", d)
	}
	s.manifests[name] = fmt.Sprintf(`name = %q
git_repository = "https://example.com/%s.git"
dependencies = [%s]

[formula]
install_cmds = ["make"]
`, name, name, strings.Join(quoted, ", "))
	return s
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Fetch(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
	if err, ok := s.failures[name]; ok {
		return nil, err
	}
	if m, ok := s.manifests[name]; ok {
		return []byte(m), nil
	}
	return nil, fmt.Errorf("%w: %s", registry.ErrNotFound, name)
}

func resolve(t *testing.T, src registry.Source, root string) (*Graph, error) {
	t.Helper()
	return NewResolver(src, formula.TOMLDecoder{}, Options{Workers: 4}).Resolve(context.Background(), root)
}

func TestResolveDiamond(t *testing.T) {
	src := newFakeSource().add("a", "b", "c").add("b", "d").add("c", "d").add("d")

	g, err := resolve(t, src, "a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got, want := g.Names(), []string{"a", "b", "d", "c"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if g.DAG().EdgeCount() != 4 {
		t.Errorf("EdgeCount = %d, want 4", g.DAG().EdgeCount())
	}
	if got := g.Dependents("d"); len(got) != 2 {
		t.Errorf("Dependents(d) = %v, want b and c", got)
	}
	for name, n := range src.calls {
		if n != 1 {
			t.Errorf("%s fetched %d times, want 1", name, n)
		}
	}
	if err := g.DAG().Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestResolveWebScenario(t *testing.T) {
	src := newFakeSource().add("web", "lib-a", "lib-b").add("lib-a").add("lib-b")

	g, err := resolve(t, src, "web")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g.Len() != 3 {
		t.Errorf("Len = %d, want 3", g.Len())
	}
	if got := g.Dependencies("web"); !slices.Equal(got, []string{"lib-a", "lib-b"}) {
		t.Errorf("Dependencies(web) = %v", got)
	}
	if g.Root() != "web" {
		t.Errorf("Root = %q", g.Root())
	}
	pkg, ok := g.Package("lib-a")
	if !ok || pkg.GitRepository != "https://example.com/lib-a.git" {
		t.Errorf("Package(lib-a) = %+v, %v", pkg, ok)
	}
	if fp := g.Fingerprint("web"); fp != formula.Fingerprint([]byte(src.manifests["web"])) {
		t.Errorf("Fingerprint(web) = %q", fp)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func() *fakeSource
		root  string
		check func(t *testing.T, err error)
	}{
		{
			name:  "self dependency",
			setup: func() *fakeSource { return newFakeSource().add("a", "a") },
			root:  "a",
			check: wantCycle("a", "a"),
		},
		{
			name: "three cycle",
			setup: func() *fakeSource {
				return newFakeSource().add("a", "b").add("b", "c").add("c", "a")
			},
			root:  "a",
			check: wantCycle("a", "b", "c", "a"),
		},
		{
			name: "cycle below root",
			setup: func() *fakeSource {
				return newFakeSource().add("app", "x").add("x", "y").add("y", "x")
			},
			root:  "app",
			check: wantCycle("x", "y", "x"),
		},
		{
			name:  "missing dependency",
			setup: func() *fakeSource { return newFakeSource().add("a", "missing") },
			root:  "a",
			check: wantUnresolved("missing", "a"),
		},
		{
			name:  "missing root",
			setup: newFakeSource,
			root:  "ghost",
			check: wantUnresolved("ghost", ""),
		},
		{
			name: "first missing in declared order",
			setup: func() *fakeSource {
				return newFakeSource().add("a", "x", "y")
			},
			root:  "a",
			check: wantUnresolved("x", "a"),
		},
		{
			name: "transport failure",
			setup: func() *fakeSource {
				s := newFakeSource().add("a", "b")
				s.failures["b"] = errors.New("connection refused")
				return s
			},
			root: "a",
			check: func(t *testing.T, err error) {
				wantUnresolved("b", "a")(t, err)
				if !strings.Contains(err.Error(), "connection refused") {
					t.Errorf("error %q lacks transport cause", err)
				}
			},
		},
		{
			name: "malformed manifest",
			setup: func() *fakeSource {
				s := newFakeSource().add("a", "b")
				s.manifests["b"] = "name = [unterminated"
				return s
			},
			root:  "a",
			check: wantMalformed("b"),
		},
		{
			name: "oversized manifest",
			setup: func() *fakeSource {
				s := newFakeSource().add("a", "b")
				s.failures["b"] = fmt.Errorf("fetch b: %w", registry.ErrTooLarge)
				return s
			},
			root:  "a",
			check: wantMalformed("b"),
		},
		{
			name: "name mismatch",
			setup: func() *fakeSource {
				s := newFakeSource().add("a", "b").add("other")
				s.manifests["b"] = s.manifests["other"]
				return s
			},
			root:  "a",
			check: wantMalformed("b"),
		},
		{
			name:  "invalid root name",
			setup: newFakeSource,
			root:  "../etc",
			check: func(t *testing.T, err error) {
				if !beererrors.Is(err, beererrors.ErrCodeInvalidPackage) {
					t.Errorf("err = %v, want INVALID_PACKAGE", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := resolve(t, tt.setup(), tt.root)
			if err == nil {
				t.Fatalf("Resolve succeeded with %d nodes, want error", g.Len())
			}
			if g != nil {
				t.Error("partial graph returned with error")
			}
			if !beererrors.IsResolution(err) {
				t.Errorf("IsResolution(%v) = false", err)
			}
			tt.check(t, err)
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	src := newFakeSource().add("a", "b", "c", "d").add("b", "x").add("c", "y").add("d")
	for range 20 {
		_, err := resolve(t, src, "a")
		wantUnresolved("x", "b")(t, err)
	}
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := newFakeSource().add("a", "b").add("b")
	_, err := NewResolver(src, nil, Options{}).Resolve(ctx, "a")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{}.WithDefaults()
	if opts.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", opts.Workers, DefaultWorkers)
	}
	if opts.Logger == nil {
		t.Error("Logger is nil")
	}
}

func wantCycle(path ...string) func(*testing.T, error) {
	return func(t *testing.T, err error) {
		t.Helper()
		var cyc *beererrors.CyclicDependencyError
		if !errors.As(err, &cyc) {
			t.Fatalf("err = %v, want CyclicDependencyError", err)
		}
		if !slices.Equal(cyc.Path, path) {
			t.Errorf("Path = %v, want %v", cyc.Path, path)
		}
	}
}

func wantUnresolved(name, requestedBy string) func(*testing.T, error) {
	return func(t *testing.T, err error) {
		t.Helper()
		var ue *beererrors.UnresolvedDependencyError
		if !errors.As(err, &ue) {
			t.Fatalf("err = %v, want UnresolvedDependencyError", err)
		}
		if ue.Name != name || ue.RequestedBy != requestedBy {
			t.Errorf("got (%q, %q), want (%q, %q)", ue.Name, ue.RequestedBy, name, requestedBy)
		}
	}
}

func wantMalformed(name string) func(*testing.T, error) {
	return func(t *testing.T, err error) {
		t.Helper()
		var me *beererrors.MalformedManifestError
		if !errors.As(err, &me) {
			t.Fatalf("err = %v, want MalformedManifestError", err)
		}
		if me.Name != name {
			t.Errorf("Name = %q, want %q", me.Name, name)
		}
	}
}
