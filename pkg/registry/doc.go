// Package registry provides manifest sources: where beer fetches the
// beer_package.toml of a package by name.
//
// A [Source] has three outcomes for a name, mirrored by [FetchResult]:
// the manifest bytes, [ErrNotFound], or a transport failure. Resolution
// treats "not found" as an unresolved dependency and transport failures as
// unresolved with a cause attached.
//
// Implementations:
//
//   - [HTTPSource]: GET {base}/{name}/beer_package.toml with retry on 5xx
//   - [DirSource]: the same layout on the local filesystem
//   - [CachedSource]: wraps another Source with a [cache.Cache]
//
// [NewServer] exposes any Source over HTTP in the layout HTTPSource expects,
// so a directory of manifests can act as a registry for other machines.
//
// [cache.Cache]: github.com/matzehuels/beer/pkg/cache.Cache
package registry
