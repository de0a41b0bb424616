package plan

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/beer/pkg/deps"
)

// Document is the JSON form of a resolved graph and its install plan.
type Document struct {
	Root   string     `json:"root"`
	Nodes  []Node     `json:"nodes"`
	Edges  []Edge     `json:"edges"`
	Groups [][]string `json:"groups"`
}

// Node is one package in a Document.
type Node struct {
	ID           string   `json:"id"`
	Group        int      `json:"group"`
	Repository   string   `json:"repository"`
	Fingerprint  string   `json:"fingerprint"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Edge points from a package to one of its dependencies.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewDocument builds the serializable view of g and p. Nodes appear in
// discovery order.
func NewDocument(g *deps.Graph, p *InstallPlan) Document {
	doc := Document{
		Root:   g.Root(),
		Nodes:  make([]Node, 0, g.Len()),
		Groups: p.Groups,
	}
	for _, name := range g.Names() {
		n := Node{ID: name, Fingerprint: g.Fingerprint(name), Dependencies: g.Dependencies(name)}
		n.Group, _ = p.GroupOf(name)
		if pkg, ok := g.Package(name); ok {
			n.Repository = pkg.GitRepository
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	for _, e := range g.DAG().Edges() {
		doc.Edges = append(doc.Edges, Edge{From: e.From, To: e.To})
	}
	return doc
}

// WriteJSON encodes the document for g and p to w.
func WriteJSON(g *deps.Graph, p *InstallPlan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(g, p)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
