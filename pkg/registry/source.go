package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNotFound is returned by a Source when no manifest exists for a name.
var ErrNotFound = errors.New("manifest not found")

// ErrTooLarge is returned by a Source when a manifest exceeds MaxManifestSize.
var ErrTooLarge = errors.New("manifest too large")

// MaxManifestSize bounds the size of a single manifest.
const MaxManifestSize = 1 << 20

// Source retrieves raw manifests by package name.
type Source interface {
	// Fetch returns the manifest bytes for name. A missing manifest is
	// reported as an error wrapping ErrNotFound; any other error is a
	// transport failure.
	Fetch(ctx context.Context, name string) ([]byte, error)

	// Name identifies the source in logs and cache keys.
	Name() string
}

// FetchKind classifies the outcome of a fetch.
type FetchKind int

const (
	Found FetchKind = iota
	NotFound
	TransportError
	Invalid
)

func (k FetchKind) String() string {
	switch k {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case Invalid:
		return "invalid"
	default:
		return "transport error"
	}
}

// FetchResult is the outcome of fetching one manifest.
type FetchResult struct {
	Kind FetchKind
	Data []byte // Set when Kind is Found
	Err  error  // Set for every kind but Found
}

// Lookup fetches name from src and classifies the outcome.
func Lookup(ctx context.Context, src Source, name string) FetchResult {
	data, err := src.Fetch(ctx, name)
	switch {
	case err == nil:
		return FetchResult{Kind: Found, Data: data}
	case errors.Is(err, ErrNotFound):
		return FetchResult{Kind: NotFound, Err: err}
	case errors.Is(err, ErrTooLarge):
		return FetchResult{Kind: Invalid, Err: err}
	default:
		return FetchResult{Kind: TransportError, Err: err}
	}
}

// readManifest reads all of r, failing with ErrTooLarge instead of
// returning a truncated manifest.
func readManifest(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxManifestSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxManifestSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxManifestSize)
	}
	return data, nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}
