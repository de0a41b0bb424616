package plan

import (
	"slices"

	"github.com/matzehuels/beer/pkg/deps"
	"github.com/matzehuels/beer/pkg/errors"
)

// InstallPlan is an ordered list of install groups.
type InstallPlan struct {
	Groups [][]string `json:"groups"`
}

// Flatten returns every package in install order. The result is a
// topological order of the graph: dependencies come before dependents.
func (p *InstallPlan) Flatten() []string {
	out := make([]string, 0, p.Len())
	for _, g := range p.Groups {
		out = append(out, g...)
	}
	return out
}

// Len returns the number of packages in the plan.
func (p *InstallPlan) Len() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g)
	}
	return n
}

// GroupOf returns the index of the group containing name.
func (p *InstallPlan) GroupOf(name string) (int, bool) {
	for i, g := range p.Groups {
		if slices.Contains(g, name) {
			return i, true
		}
	}
	return 0, false
}

// Plan computes install groups with Kahn's algorithm run over dependency
// counts: a package is placed in the first round in which all of its
// dependencies have been placed.
//
// Each node's Row in g's DAG is set to its group index.
//
// Plan returns an ErrCodeFatalPlanInvariant error if some package can never
// be placed. Resolution rejects cycles, so this indicates a bug rather than
// bad input.
func Plan(g *deps.Graph) (*InstallPlan, error) {
	names := g.Names()
	order := make(map[string]int, len(names))
	remaining := make(map[string]int, len(names))
	var ready []string

	for i, name := range names {
		order[name] = i
		remaining[name] = len(g.Dependencies(name))
		if remaining[name] == 0 {
			ready = append(ready, name)
		}
	}

	p := &InstallPlan{}
	placed := 0
	for len(ready) > 0 {
		p.Groups = append(p.Groups, ready)
		placed += len(ready)

		var next []string
		for _, name := range ready {
			for _, dependent := range g.Dependents(name) {
				remaining[dependent]--
				if remaining[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		slices.SortFunc(next, func(a, b string) int { return order[a] - order[b] })
		ready = next
	}

	if placed != len(names) {
		var stuck []string
		for _, name := range names {
			if remaining[name] > 0 {
				stuck = append(stuck, name)
			}
		}
		return nil, errors.New(errors.ErrCodeFatalPlanInvariant,
			"%d of %d packages could not be placed: %v", len(names)-placed, len(names), stuck)
	}

	rows := make(map[string]int, len(names))
	for i, group := range p.Groups {
		for _, name := range group {
			rows[name] = i
		}
	}
	g.DAG().SetRows(rows)
	return p, nil
}
