// Package server assembles the HTTP router of the service.
package server

import (
	"net/http"
	"time"

	"cineview/internal/httputil"
	"cineview/pkg/limiter"
	"cineview/pkg/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options configures the router.
type Options struct {
	// CORSOrigins lists the allowed origins. Empty means any.
	CORSOrigins []string
	// Limiter bounds the request rate. Nil disables limiting.
	Limiter *limiter.Limiter
	// Authn guards routes that need a caller identity.
	Authn func(http.Handler) http.Handler
}

// Mounter is a handler that exposes its own routes.
type Mounter interface {
	Routes(authn func(http.Handler) http.Handler) http.Handler
}

// NewRouter builds the service router: /movies, /users and /auth plus
// /healthz.
func NewRouter(opts Options, movies, users Mounter, auth http.Handler, logger *zap.Logger) http.Handler {
	logger = logger.With(zap.String(logging.FieldComponent, "server"))
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Mount("/movies", movies.Routes(opts.Authn))
	r.Mount("/users", users.Routes(opts.Authn))
	r.Mount("/auth", auth)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, logger, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, logger, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)
			logger.Debug("Request served",
				zap.String(logging.FieldRequestID, middleware.GetReqID(req.Context())),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
