// Package httputil provides HTTP plumbing for registry clients.
//
//   - [NewClient]: an *http.Client with the standard registry timeout
//   - [CheckStatus], [CheckResponse]: map responses onto [ErrNotFound] and
//     [ErrNetwork]
//   - [Retry]: bounded retries with exponential backoff
//
// [Retry] only retries errors wrapped in [RetryableError]. Transport
// failures, 429 and 5xx responses are retryable; 404 and other 4xx
// responses fail fast, so a missing manifest is reported at once while a
// flaky registry gets another chance:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckResponse(resp)
//	})
package httputil
