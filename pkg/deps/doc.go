// Package deps resolves the transitive dependency graph of a package.
//
// # Overview
//
// Given a root package name, a [Resolver] fetches its manifest from a
// [registry.Source], decodes it, and follows the declared dependencies until
// every reachable package is known. The result is a [Graph]: a [dag.DAG] with
// an edge from each package to each of its dependencies, plus the decoded
// manifest and fingerprint of every node.
//
// # Resolving
//
//	src, _ := registry.NewHTTPSource("https://registry.example.com")
//	r := deps.NewResolver(src, formula.TOMLDecoder{}, deps.Options{Workers: 8})
//	g, err := r.Resolve(ctx, "web")
//
// Resolution runs in two phases:
//
//  1. Crawl: a worker pool fetches manifests concurrently. Each name is
//     fetched at most once no matter how many packages depend on it, so a
//     diamond A -> {B, C} -> D fetches D once. Failures are recorded per name.
//  2. Link: a depth-first walk from the root, in declared dependency order,
//     builds the graph and reports the first problem it meets. The walk is
//     deterministic, so the same registry state always yields the same error
//     and the same discovery order regardless of fetch timing.
//
// # Errors
//
// Resolution is all-or-nothing. Resolve returns no graph when any reachable
// package is missing, malformed, or part of a cycle:
//
//   - [errors.UnresolvedDependencyError]: not found, or the registry could
//     not be reached (the transport error is the cause)
//   - [errors.MalformedManifestError]: decode failure or name mismatch
//   - [errors.CyclicDependencyError]: the path of the cycle, e.g. a -> b -> a;
//     a package depending on itself is the cycle [a a]
//
// [errors.UnresolvedDependencyError]: github.com/matzehuels/beer/pkg/errors.UnresolvedDependencyError
// [errors.MalformedManifestError]: github.com/matzehuels/beer/pkg/errors.MalformedManifestError
// [errors.CyclicDependencyError]: github.com/matzehuels/beer/pkg/errors.CyclicDependencyError
// [registry.Source]: github.com/matzehuels/beer/pkg/registry.Source
// [dag.DAG]: github.com/matzehuels/beer/pkg/dag.DAG
package deps
