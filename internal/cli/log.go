// Package cli implements the beer command-line interface.
//
// Commands are cobra methods on [CLI]; configuration is read through viper
// from flags, BEER_* variables and an optional beer.yaml.
//
//   - install: Resolve, plan and install a package with its dependencies
//   - plan: Show the install groups for a package (text, JSON, DOT or SVG)
//   - resolve: List a package's transitive dependencies
//   - new: Write a starter beer_package.toml
//   - serve: Serve a formula directory as an HTTP registry
//   - status, uninstall: Inspect and remove installed packages
//   - cache: Manage the manifest cache
//
// Logs go to stderr and user-facing output to stdout. --verbose switches
// the logger to debug level and attaches pipeline hooks that log each
// fetch, cache lookup and HTTP request.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a leveled logger that stamps each line with a
// sub-second wall clock time.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
	})
}

// logElapsed logs msg at info level with the time since start attached as
// the "elapsed" key.
func logElapsed(l *log.Logger, start time.Time, msg string, keyvals ...any) {
	l.Info(msg, append(keyvals, "elapsed", time.Since(start).Round(time.Millisecond))...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or the
// package default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
