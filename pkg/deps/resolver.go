package deps

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/beer/pkg/errors"
	"github.com/matzehuels/beer/pkg/formula"
	"github.com/matzehuels/beer/pkg/observability"
	"github.com/matzehuels/beer/pkg/registry"
)

// Resolver builds dependency graphs from a manifest source.
type Resolver struct {
	src     registry.Source
	decoder formula.Decoder
	opts    Options
}

// NewResolver creates a Resolver. A nil decoder uses [formula.TOMLDecoder].
func NewResolver(src registry.Source, decoder formula.Decoder, opts Options) *Resolver {
	if decoder == nil {
		decoder = formula.TOMLDecoder{}
	}
	return &Resolver{src: src, decoder: decoder, opts: opts.WithDefaults()}
}

// Resolve fetches root and its transitive dependencies and links them into a
// Graph. See the package documentation for the error contract.
func (r *Resolver) Resolve(ctx context.Context, root string) (g *Graph, err error) {
	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, root)
	start := time.Now()
	defer func() {
		n := 0
		if g != nil {
			n = g.Len()
		}
		hooks.OnResolveComplete(ctx, root, n, time.Since(start), err)
	}()

	if err := errors.ValidatePackageName(root); err != nil {
		return nil, err
	}

	fetched, err := r.crawl(ctx, root)
	if err != nil {
		return nil, err
	}
	r.opts.Logger("fetched %d manifests", len(fetched))
	return link(root, fetched)
}

// manifest is the crawl outcome for one name.
type manifest struct {
	kind      registry.FetchKind
	fetchErr  error
	pkg       *formula.Package
	decodeErr error
	raw       []byte
}

// usable reports whether the manifest decoded cleanly under the expected
// name, which is the condition for following its dependencies.
func (m *manifest) usable(name string) bool {
	return m.kind == registry.Found && m.decodeErr == nil && m.pkg.Name == name
}

func (r *Resolver) crawl(ctx context.Context, root string) (map[string]*manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := &crawler{
		ctx:     ctx,
		src:     r.src,
		decoder: r.decoder,
		log:     r.opts.Logger,
		seen:    make(map[string]bool),
		out:     make(map[string]*manifest),
		jobs:    make(chan string, r.opts.Workers*2),
		results: make(chan result, r.opts.Workers*2),
	}

	for range r.opts.Workers {
		c.wg.Add(1)
		go c.worker()
	}

	c.enqueue(root)
	err := c.collect()
	cancel()
	c.wg.Wait()
	if err != nil {
		return nil, err
	}
	return c.out, nil
}

type crawler struct {
	ctx     context.Context
	src     registry.Source
	decoder formula.Decoder
	log     func(string, ...any)

	jobs    chan string
	results chan result
	wg      sync.WaitGroup

	mu      sync.Mutex
	seen    map[string]bool
	pending int64

	out map[string]*manifest // Owned by collect
}

type result struct {
	name string
	m    *manifest
}

func (c *crawler) worker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case name := <-c.jobs:
			m := c.fetch(name)
			select {
			case c.results <- result{name: name, m: m}:
			case <-c.ctx.Done():
				return
			}
		}
	}
}

func (c *crawler) fetch(name string) *manifest {
	res := registry.Lookup(c.ctx, c.src, name)
	m := &manifest{kind: res.Kind, fetchErr: res.Err, raw: res.Data}
	if res.Kind != registry.Found {
		c.log("fetch failed: %s: %v", name, res.Err)
		return m
	}
	m.pkg, m.decodeErr = c.decoder.Decode(res.Data)
	if m.decodeErr != nil {
		c.log("decode failed: %s: %v", name, m.decodeErr)
	}
	return m
}

func (c *crawler) enqueue(name string) {
	c.mu.Lock()
	if c.seen[name] {
		c.mu.Unlock()
		return
	}
	c.seen[name] = true
	c.mu.Unlock()

	atomic.AddInt64(&c.pending, 1)

	go func() {
		select {
		case c.jobs <- name:
		case <-c.ctx.Done():
		}
	}()
}

func (c *crawler) collect() error {
	for {
		select {
		case r := <-c.results:
			c.out[r.name] = r.m
			if r.m.usable(r.name) {
				for _, dep := range r.m.pkg.Dependencies {
					c.enqueue(dep)
				}
			}
			if atomic.AddInt64(&c.pending, -1) == 0 {
				return nil
			}
		case <-c.ctx.Done():
			return c.ctx.Err()
		}
	}
}
