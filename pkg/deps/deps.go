package deps

import (
	"slices"

	"github.com/matzehuels/beer/pkg/dag"
	"github.com/matzehuels/beer/pkg/formula"
)

// DefaultWorkers is the default number of concurrent manifest fetches.
const DefaultWorkers = 8

// Options configures dependency resolution behavior.
type Options struct {
	Workers int                  // Concurrent fetches (default: 8)
	Logger  func(string, ...any) // Progress/error callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Graph is a resolved dependency graph. Edges point from a dependent to its
// dependency. A Graph is immutable once returned by Resolve and safe to
// share between goroutines.
type Graph struct {
	root         string
	dag          *dag.DAG
	packages     map[string]*formula.Package
	fingerprints map[string]string
}

func newGraph(root string) *Graph {
	return &Graph{
		root:         root,
		dag:          dag.New(),
		packages:     make(map[string]*formula.Package),
		fingerprints: make(map[string]string),
	}
}

func (g *Graph) add(pkg *formula.Package, fingerprint string) {
	_ = g.dag.AddNode(dag.Node{ID: pkg.Name})
	g.packages[pkg.Name] = pkg
	g.fingerprints[pkg.Name] = fingerprint
}

// Root returns the name the graph was resolved from.
func (g *Graph) Root() string { return g.root }

// DAG returns the underlying graph. Callers must not mutate it.
func (g *Graph) DAG() *dag.DAG { return g.dag }

// Len returns the number of packages.
func (g *Graph) Len() int { return g.dag.NodeCount() }

// Names returns package names in discovery order: depth-first pre-order from
// the root, following dependencies in declared order.
func (g *Graph) Names() []string { return g.dag.IDs() }

// Has reports whether name is part of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.packages[name]
	return ok
}

// Package returns the decoded manifest of name.
func (g *Graph) Package(name string) (*formula.Package, bool) {
	p, ok := g.packages[name]
	return p, ok
}

// Fingerprint returns the manifest fingerprint of name.
func (g *Graph) Fingerprint(name string) string { return g.fingerprints[name] }

// Dependencies returns the direct dependencies of name in declared order.
func (g *Graph) Dependencies(name string) []string {
	return slices.Clone(g.dag.Children(name))
}

// Dependents returns the packages that directly depend on name.
func (g *Graph) Dependents(name string) []string {
	return slices.Clone(g.dag.Parents(name))
}

// TransitiveDependents returns every package that depends on name directly
// or indirectly, nearest first.
func (g *Graph) TransitiveDependents(name string) []string {
	return g.dag.Ancestors(name)
}
