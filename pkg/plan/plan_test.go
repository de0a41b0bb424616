package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/beer/pkg/dag"
	"github.com/matzehuels/beer/pkg/deps"
	"github.com/matzehuels/beer/pkg/formula"
	"github.com/matzehuels/beer/pkg/registry"
)

// graph resolves root from packages given as name -> dependencies.
func graph(t *testing.T, root string, packages map[string][]string) *deps.Graph {
	t.Helper()
	src := registry.NewMemorySource()
	for name, ds := range packages {
		err := src.Add(&formula.Package{
			Name:          name,
			GitRepository: "https://example.com/" + name + ".git",
			Dependencies:  ds,
		})
		if err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	g, err := deps.NewResolver(src, nil, deps.Options{}).Resolve(context.Background(), root)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", root, err)
	}
	return g
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		packages map[string][]string
		want     [][]string
	}{
		{
			name:     "single",
			root:     "a",
			packages: map[string][]string{"a": nil},
			want:     [][]string{{"a"}},
		},
		{
			name:     "chain",
			root:     "a",
			packages: map[string][]string{"a": {"b"}, "b": {"c"}, "c": nil},
			want:     [][]string{{"c"}, {"b"}, {"a"}},
		},
		{
			name:     "web",
			root:     "web",
			packages: map[string][]string{"web": {"lib-a", "lib-b"}, "lib-a": nil, "lib-b": nil},
			want:     [][]string{{"lib-a", "lib-b"}, {"web"}},
		},
		{
			name:     "diamond",
			root:     "a",
			packages: map[string][]string{"a": {"b", "c"}, "b": {"d"}, "c": {"d"}, "d": nil},
			want:     [][]string{{"d"}, {"b", "c"}, {"a"}},
		},
		{
			name: "uneven depths",
			root: "app",
			packages: map[string][]string{
				"app":  {"http", "log"},
				"http": {"net"},
				"net":  {"log"},
				"log":  nil,
			},
			want: [][]string{{"log"}, {"net"}, {"http"}, {"app"}},
		},
		{
			name:     "discovery order within group",
			root:     "r",
			packages: map[string][]string{"r": {"z", "m", "a"}, "z": nil, "m": nil, "a": nil},
			want:     [][]string{{"z", "m", "a"}, {"r"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph(t, tt.root, tt.packages)
			p, err := Plan(g)
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			if !slices.EqualFunc(p.Groups, tt.want, slices.Equal[[]string]) {
				t.Errorf("Groups = %v, want %v", p.Groups, tt.want)
			}
			assertTopological(t, g, p)
		})
	}
}

// assertTopological checks that every dependency sits in an earlier group
// than its dependent and that every package appears exactly once.
func assertTopological(t *testing.T, g *deps.Graph, p *InstallPlan) {
	t.Helper()
	flat := p.Flatten()
	if len(flat) != g.Len() || p.Len() != g.Len() {
		t.Fatalf("plan has %d packages, graph has %d", len(flat), g.Len())
	}
	for _, name := range g.Names() {
		gi, ok := p.GroupOf(name)
		if !ok {
			t.Fatalf("%s missing from plan", name)
		}
		for _, dep := range g.Dependencies(name) {
			di, _ := p.GroupOf(dep)
			if di >= gi {
				t.Errorf("%s (group %d) does not precede %s (group %d)", dep, di, name, gi)
			}
		}
		if slices.Index(flat[slices.Index(flat, name)+1:], name) >= 0 {
			t.Errorf("%s appears more than once", name)
		}
	}
}

func TestGroupOfMissing(t *testing.T) {
	p := &InstallPlan{Groups: [][]string{{"a"}}}
	if _, ok := p.GroupOf("b"); ok {
		t.Error("GroupOf(b) reported found")
	}
}

func TestPlanAssignsRows(t *testing.T) {
	g := graph(t, "a", map[string][]string{"a": {"b", "c"}, "b": {"d"}, "c": {"d"}, "d": nil})
	p, err := Plan(g)
	if err != nil {
		t.Fatal(err)
	}
	for i, group := range p.Groups {
		got := dag.NodeIDs(g.DAG().NodesInRow(i))
		if !slices.Equal(got, group) {
			t.Errorf("row %d = %v, want %v", i, got, group)
		}
	}
	if g.DAG().RowCount() != len(p.Groups) {
		t.Errorf("RowCount = %d, want %d", g.DAG().RowCount(), len(p.Groups))
	}
}

func TestWriteJSON(t *testing.T) {
	g := graph(t, "web", map[string][]string{"web": {"lib-a", "lib-b"}, "lib-a": nil, "lib-b": nil})
	p, err := Plan(g)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(g, p, &buf); err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}

	if doc.Root != "web" || len(doc.Nodes) != 3 || len(doc.Edges) != 2 || len(doc.Groups) != 2 {
		t.Fatalf("doc = %+v", doc)
	}
	web := doc.Nodes[0]
	if web.ID != "web" || web.Group != 1 || web.Repository != "https://example.com/web.git" {
		t.Errorf("web node = %+v", web)
	}
	if !slices.Equal(web.Dependencies, []string{"lib-a", "lib-b"}) || len(web.Fingerprint) != 64 {
		t.Errorf("web node = %+v", web)
	}
}

func TestToDOT(t *testing.T) {
	g := graph(t, "web", map[string][]string{"web": {"lib-a", "lib-b"}, "lib-a": nil, "lib-b": nil})
	p, err := Plan(g)
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(g, p)
	for _, want := range []string{
		"digraph G {",
		"subgraph cluster_0 {",
		`label="group 1";`,
		`"web" -> "lib-a";`,
		`"web" -> "lib-b";`,
		`"web" [label="web", penwidth=2];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	g := graph(t, "a", map[string][]string{"a": {"b"}, "b": nil})
	p, _ := Plan(g)

	svg, err := RenderSVG(context.Background(), ToDOT(g, p))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox=`) {
		t.Errorf("unexpected SVG header: %.200s", svg)
	}
}
