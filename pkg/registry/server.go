package registry

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	beererrors "github.com/matzehuels/beer/pkg/errors"
	"github.com/matzehuels/beer/pkg/formula"
)

// NewServer returns an HTTP handler serving src in the HTTPSource layout:
//
//	GET /{name}/beer_package.toml   manifest bytes
//	GET /healthz                    liveness probe
func NewServer(src Source, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Get("/{name}/"+formula.ManifestFile, func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		data, err := src.Fetch(req.Context(), name)
		switch {
		case err == nil:
			w.Header().Set("Content-Type", "application/toml")
			_, _ = w.Write(data)
		case errors.Is(err, ErrNotFound):
			http.Error(w, "manifest not found", http.StatusNotFound)
		case beererrors.Is(err, beererrors.ErrCodeInvalidPackage):
			http.Error(w, beererrors.UserMessage(err), http.StatusBadRequest)
		default:
			logger.Error("fetch failed", "package", name, "err", err)
			http.Error(w, "upstream error", http.StatusBadGateway)
		}
	})

	return r
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Microsecond))
		})
	}
}
