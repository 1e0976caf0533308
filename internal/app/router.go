package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bd2-crud/terceros/internal/observability"
	"github.com/bd2-crud/terceros/internal/platform/httpx"
	"github.com/bd2-crud/terceros/internal/shared"
	"github.com/bd2-crud/terceros/internal/terceros"
	"github.com/bd2-crud/terceros/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SessionManager  *shared.SessionManager
	CSRFManager     *shared.CSRFManager
	TercerosHandler *terceros.Handler
	Readiness       *Readiness
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	// Probes and assets stay outside sessions, CSRF and rate limiting.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := params.Readiness.Check(r.Context()); err != nil {
			params.Logger.Warn("readiness check failed", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, "Not Ready", err.Error())
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	if params.Metrics != nil {
		if params.Readiness != nil {
			if err := params.Readiness.RegisterGauge(params.Metrics.Registerer()); err != nil {
				params.Logger.Error("register readiness gauge", slog.Any("error", err))
			}
		}
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	r.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:         params.Logger,
			Config:         params.Config,
			SessionManager: params.SessionManager,
			CSRFManager:    params.CSRFManager,
			Metrics:        params.Metrics,
		}) {
			r.Use(mw)
		}
		r.Use(chimw.Logger)

		params.TercerosHandler.MountRoutes(r)
	})

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
// Static assets are cached for 1 hour in browser.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
