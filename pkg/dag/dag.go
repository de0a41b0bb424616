package dag

import (
	"errors"
	"slices"
)

// Errors reported while building or checking a graph.
var (
	ErrInvalidNodeID       = errors.New("node ID must not be empty")
	ErrDuplicateNodeID     = errors.New("duplicate node ID")
	ErrUnknownSourceNode   = errors.New("unknown source node")
	ErrUnknownTargetNode   = errors.New("unknown target node")
	ErrSelfEdge            = errors.New("self-referencing edge")
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
	ErrGraphHasCycle       = errors.New("graph contains a cycle")
)

// Node is a package vertex. Row holds the install group index once the
// graph has been planned.
type Node struct {
	ID  string
	Row int
}

// Edge records that From depends on To.
type Edge struct {
	From string
	To   string
}

// DAG is a directed graph of packages that remembers insertion order.
// Use New to create one. A DAG must not be mutated concurrently.
type DAG struct {
	nodes map[string]*Node
	order []string
	edges []Edge
	deps  map[string][]string // id -> what id depends on
	users map[string][]string // id -> what depends on id
	rows  map[int][]*Node
}

// New returns an empty graph.
func New() *DAG {
	return &DAG{
		nodes: make(map[string]*Node),
		deps:  make(map[string][]string),
		users: make(map[string][]string),
		rows:  make(map[int][]*Node),
	}
}

// AddNode inserts n. IDs must be non-empty and unique.
func (d *DAG) AddNode(n Node) error {
	switch {
	case n.ID == "":
		return ErrInvalidNodeID
	case d.nodes[n.ID] != nil:
		return ErrDuplicateNodeID
	}
	node := &n
	d.nodes[n.ID] = node
	d.order = append(d.order, n.ID)
	d.rows[n.Row] = append(d.rows[n.Row], node)
	return nil
}

// AddEdge links two existing nodes. Repeating an edge is a no-op so a
// dependency reached along several paths is recorded once per dependent.
func (d *DAG) AddEdge(e Edge) error {
	switch {
	case e.From == e.To:
		return ErrSelfEdge
	case d.nodes[e.From] == nil:
		return ErrUnknownSourceNode
	case d.nodes[e.To] == nil:
		return ErrUnknownTargetNode
	case slices.Contains(d.deps[e.From], e.To):
		return nil
	}
	d.edges = append(d.edges, e)
	d.deps[e.From] = append(d.deps[e.From], e.To)
	d.users[e.To] = append(d.users[e.To], e.From)
	return nil
}

// SetRows assigns rows by node ID and rebuilds the row index. Nodes absent
// from rows keep their current row.
func (d *DAG) SetRows(rows map[string]int) {
	d.rows = make(map[int][]*Node)
	for _, id := range d.order {
		n := d.nodes[id]
		if r, ok := rows[id]; ok {
			n.Row = r
		}
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// Node looks up a node by ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Nodes returns every node in insertion order.
func (d *DAG) Nodes() []*Node {
	out := make([]*Node, len(d.order))
	for i, id := range d.order {
		out[i] = d.nodes[id]
	}
	return out
}

// IDs returns every node ID in insertion order.
func (d *DAG) IDs() []string { return slices.Clone(d.order) }

// Edges returns a copy of the edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

func (d *DAG) NodeCount() int { return len(d.nodes) }
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the direct dependencies of id in edge order. Callers
// must not modify the result.
func (d *DAG) Children(id string) []string { return d.deps[id] }

// Parents returns the direct dependents of id. Callers must not modify the
// result.
func (d *DAG) Parents(id string) []string { return d.users[id] }

// NodesInRow returns the nodes of one row in insertion order.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowCount returns the number of non-empty rows.
func (d *DAG) RowCount() int { return len(d.rows) }

// Ancestors returns every node that reaches id, nearest first. id itself
// is excluded.
func (d *DAG) Ancestors(id string) []string {
	seen := map[string]bool{id: true}
	queue := slices.Clone(d.users[id])
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, d.users[cur]...)
	}
	return out
}

// Validate reports ErrInvalidEdgeEndpoint for a dangling edge and
// ErrGraphHasCycle if any node can reach itself.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		if d.nodes[e.From] == nil || d.nodes[e.To] == nil {
			return ErrInvalidEdgeEndpoint
		}
	}

	const (
		unvisited = iota
		onStack
		finished
	)
	state := make(map[string]int, len(d.nodes))
	var visit func(string) bool
	visit = func(id string) bool {
		state[id] = onStack
		for _, next := range d.deps[id] {
			switch state[next] {
			case onStack:
				return true
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}
		state[id] = finished
		return false
	}
	for _, id := range d.order {
		if state[id] == unvisited && visit(id) {
			return ErrGraphHasCycle
		}
	}
	return nil
}

// NodeIDs maps nodes to their IDs.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
