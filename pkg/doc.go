// Package pkg provides the core libraries of beer, a package installer that
// builds packages from source in dependency order.
//
// # Overview
//
// A package is described by a TOML formula (beer_package.toml) naming its
// git repository, its dependencies and the commands that build it. Given a
// package name, beer fetches the formulas of its whole dependency graph,
// rejects missing, malformed and cyclic dependencies, groups the packages
// into install rounds, and installs each round concurrently.
//
// # Architecture
//
//	registry (HTTP, directory, cache)
//	         ↓
//	    [deps] resolve the dependency graph ([dag])
//	         ↓
//	    [plan] order it into install groups
//	         ↓
//	    [install] clone + build, tracked in a [ledger]
//	         ↓
//	    [store] installed markers for later runs
//
// [pipeline] wires these stages together for the CLI.
//
// # Quick Start
//
//	src, _ := registry.NewHTTPSource("https://formulas.example.com")
//	runner := pipeline.NewRunner(src, nil, checkout.NewGitCloner("git"), &execx.ExecRunner{}, logger)
//	res, err := runner.Install(ctx, "web", pipeline.Options{
//	    Install: install.Options{Root: "/opt/beer"},
//	})
//	fmt.Println(res.Describe())
//
// # Main Packages
//
// Domain:
//   - [formula]: manifest types, decoding and scaffolding
//   - [registry]: manifest sources and the registry HTTP server
//   - [deps]: concurrent graph resolution with cycle detection
//   - [dag]: the underlying directed graph
//   - [plan]: install groups, DOT/SVG and JSON output
//   - [ledger]: per-run status of every package
//   - [install]: the installer
//
// Infrastructure:
//   - [cache]: manifest cache
//   - [store]: installed markers (file, Redis, MongoDB)
//   - [checkout], [execx]: git and command execution
//   - [httputil]: registry HTTP client helpers
//   - [observability]: optional hooks for metrics and tracing
//   - [errors]: error codes shared across packages
//   - [buildinfo]: version information
package pkg
