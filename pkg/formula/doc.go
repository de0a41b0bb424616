// Package formula defines the package manifest model and its TOML codec.
//
// A manifest ("formula file") names a package, the git repository holding its
// source, the packages it depends on, and an ordered list of install
// commands:
//
//	name = "web"
//	git_repository = "https://example.com/web.git"
//	dependencies = ["lib-a", "lib-b"]
//
//	[formula]
//	install_cmds = ["make", "make install PREFIX=/usr/local"]
//
// Commands are split shell-style into a program and its arguments by
// [ParseCommand]; they are never passed through a shell.
//
// Manifests are decoded by a [Decoder]. [TOMLDecoder] is strict: unknown keys
// are decode failures, so a typo such as "dependecies" surfaces instead of
// silently producing a package without dependencies.
package formula
