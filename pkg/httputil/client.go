package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when the registry has no such manifest.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")
)

// NewClient creates an HTTP client with the standard registry timeout.
func NewClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// CheckStatus classifies an HTTP status code. 200 is success, 404 is
// [ErrNotFound], 429 and 5xx are a retryable [ErrNetwork], anything else is
// a non-retryable [ErrNetwork].
func CheckStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// CheckResponse is [CheckStatus] for a full response: a retryable failure
// also carries the delay from the Retry-After header, if any.
func CheckResponse(resp *http.Response) error {
	err := CheckStatus(resp.StatusCode)
	var re *RetryableError
	if errors.As(err, &re) {
		re.After = retryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return err
}

// retryAfter parses a Retry-After value given either in seconds or as an
// HTTP date. Unparseable or past values yield zero.
func retryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}
