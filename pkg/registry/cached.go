package registry

import (
	"context"
	"time"

	"github.com/matzehuels/beer/pkg/cache"
	"github.com/matzehuels/beer/pkg/observability"
)

// CachedSource serves manifests from a cache, falling back to the wrapped
// Source on a miss. Only found manifests are cached; a missing package is
// looked up again on the next run.
type CachedSource struct {
	src     Source
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	refresh bool
}

// NewCachedSource wraps src. A nil keyer uses the default keyer. When
// refresh is set the cache is written but never read.
func NewCachedSource(src Source, c cache.Cache, keyer cache.Keyer, ttl time.Duration, refresh bool) *CachedSource {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedSource{src: src, cache: c, keyer: keyer, ttl: ttl, refresh: refresh}
}

// Name returns the wrapped source's name.
func (s *CachedSource) Name() string { return s.src.Name() }

// Fetch implements Source.
func (s *CachedSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := s.keyer.ManifestKey(s.src.Name(), name)
	hooks := observability.Cache()

	if !s.refresh {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			hooks.OnCacheHit(ctx, "manifest")
			return data, nil
		}
		hooks.OnCacheMiss(ctx, "manifest")
	}

	data, err := s.src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err == nil {
		hooks.OnCacheSet(ctx, "manifest", len(data))
	}
	return data, nil
}

var _ Source = (*CachedSource)(nil)
