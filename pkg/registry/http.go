package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/beer/pkg/buildinfo"
	"github.com/matzehuels/beer/pkg/formula"
	"github.com/matzehuels/beer/pkg/httputil"
	"github.com/matzehuels/beer/pkg/observability"
)

// HTTPSource fetches manifests from {BaseURL}/{name}/beer_package.toml.
type HTTPSource struct {
	BaseURL  string
	Client   *http.Client
	Headers  map[string]string
	Attempts int           // Total attempts for retryable failures (default 3)
	Delay    time.Duration // Initial backoff delay (default 1s)
}

// NewHTTPSource creates an HTTPSource with default client and retry policy.
func NewHTTPSource(baseURL string) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse registry url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("registry url %q: scheme must be http or https", baseURL)
	}
	return &HTTPSource{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   httputil.NewClient(),
		Attempts: 3,
		Delay:    time.Second,
	}, nil
}

// Name returns the registry base URL.
func (s *HTTPSource) Name() string { return s.BaseURL }

// URL returns the manifest URL for name.
func (s *HTTPSource) URL(name string) string {
	return s.BaseURL + "/" + url.PathEscape(name) + "/" + formula.ManifestFile
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := httputil.Retry(ctx, s.Attempts, s.Delay, func() error {
		var err error
		data, err = s.get(ctx, s.URL(name))
		return err
	})
	if errors.Is(err, httputil.ErrNotFound) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return data, nil
}

func (s *HTTPSource) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	client := s.Client
	if client == nil {
		client = httputil.NewClient()
	}
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", httputil.ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckResponse(resp); err != nil {
		return nil, err
	}
	return readManifest(resp.Body)
}

var _ Source = (*HTTPSource)(nil)
