package deps

import (
	"slices"

	"github.com/matzehuels/beer/pkg/dag"
	"github.com/matzehuels/beer/pkg/errors"
	"github.com/matzehuels/beer/pkg/formula"
	"github.com/matzehuels/beer/pkg/registry"
)

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

type linker struct {
	fetched map[string]*manifest
	g       *Graph
	state   map[string]visitState
	stack   []string
}

func link(root string, fetched map[string]*manifest) (*Graph, error) {
	l := &linker{
		fetched: fetched,
		g:       newGraph(root),
		state:   make(map[string]visitState),
	}
	if err := l.visit(root, ""); err != nil {
		return nil, err
	}
	return l.g, nil
}

func (l *linker) visit(name, requestedBy string) error {
	switch l.state[name] {
	case visiting:
		i := slices.Index(l.stack, name)
		path := append(slices.Clone(l.stack[i:]), name)
		return &errors.CyclicDependencyError{Path: path}
	case visited:
		return nil
	}

	pkg, err := l.check(name, requestedBy)
	if err != nil {
		return err
	}

	l.state[name] = visiting
	l.stack = append(l.stack, name)
	l.g.add(pkg, formula.Fingerprint(l.fetched[name].raw))

	for _, dep := range pkg.Dependencies {
		if err := l.visit(dep, name); err != nil {
			return err
		}
		if err := l.g.dag.AddEdge(dag.Edge{From: name, To: dep}); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "link %s -> %s", name, dep)
		}
	}

	l.stack = l.stack[:len(l.stack)-1]
	l.state[name] = visited
	return nil
}

// check converts the crawl outcome for name into a package or a resolution
// error.
func (l *linker) check(name, requestedBy string) (*formula.Package, error) {
	m, ok := l.fetched[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "package %q was never fetched", name)
	}
	switch m.kind {
	case registry.NotFound:
		return nil, &errors.UnresolvedDependencyError{Name: name, RequestedBy: requestedBy}
	case registry.TransportError:
		return nil, &errors.UnresolvedDependencyError{Name: name, RequestedBy: requestedBy, Cause: m.fetchErr}
	case registry.Invalid:
		return nil, &errors.MalformedManifestError{Name: name, Detail: m.fetchErr.Error(), Cause: m.fetchErr}
	}
	if m.decodeErr != nil {
		return nil, &errors.MalformedManifestError{Name: name, Detail: m.decodeErr.Error(), Cause: m.decodeErr}
	}
	if m.pkg.Name != name {
		return nil, &errors.MalformedManifestError{
			Name:   name,
			Detail: "manifest declares name \"" + m.pkg.Name + "\"",
		}
	}
	return m.pkg, nil
}
