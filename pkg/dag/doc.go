// Package dag holds the package graph behind a resolved dependency set.
//
// An edge From -> To means From depends on To. Both directions are indexed:
// [DAG.Children] lists what a package needs and [DAG.Parents] lists who
// needs it. Installation walks the reverse direction with [DAG.Ancestors]
// to find everything that must be skipped when a package fails.
//
//	g := dag.New()
//	_ = g.AddNode(dag.Node{ID: "app"})
//	_ = g.AddNode(dag.Node{ID: "lib"})
//	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
//
// Nodes and children come back in insertion order, so a builder that adds
// them reproducibly gets reproducible traversals. After planning, each
// node's Row is its install group and [DAG.NodesInRow] lists a group.
package dag
