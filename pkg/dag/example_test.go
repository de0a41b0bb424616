package dag_test

import (
	"fmt"

	"github.com/matzehuels/beer/pkg/dag"
)

func ExampleDAG_basic() {
	// A simple chain: app -> lib -> core
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "lib"})
	_ = g.AddNode(dag.Node{ID: "core"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Order:", g.IDs())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Order: [app lib core]
}

func ExampleDAG_Ancestors() {
	// Diamond: app needs auth and cache, both need core
	g := dag.New()
	for _, id := range []string{"app", "auth", "cache", "core"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "app", To: "auth"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "cache"})
	_ = g.AddEdge(dag.Edge{From: "auth", To: "core"})
	_ = g.AddEdge(dag.Edge{From: "cache", To: "core"})

	fmt.Println("Parents of core:", g.Parents("core"))
	fmt.Println("Ancestors of core:", g.Ancestors("core"))
	// Output:
	// Parents of core: [auth cache]
	// Ancestors of core: [auth cache app]
}
