// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ctscout/ct-cert-search/internal/analysis"
)

// Options configures the REST server.
type Options struct {
	// Addr: Listen address, e.g. ":8080"
	Addr string
	// CORSOrigin: Value for the Access-Control-Allow-Origin header
	CORSOrigin string
	// UpstreamTimeout: Deadline for each CT log service call made by a
	// handler; zero means DefaultUpstreamTimeout
	UpstreamTimeout time.Duration
}

// NewRouter builds the API router with the standard middleware stack.
//
// Parameters:
//   - engine: Certificate search engine backing the endpoints
//   - analyzer: Analyzer backing the /analyze endpoint
//   - opts: CORS origin and upstream timeout settings
//
// Returns:
//   - chi.Router: Router with the API mounted under /api/v1
func NewRouter(engine searchEngine, analyzer *analysis.Analyzer, opts Options) chi.Router {
	h := NewHandler(engine, analyzer, opts.UpstreamTimeout)

	r := chi.NewRouter()
	r.Use(CORS(opts.CORSOrigin))
	r.Use(RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(Recovery)

	r.Route("/api/v1", func(r chi.Router) {
		h.RegisterRoutes(r)
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests up to ten seconds to complete.
//
// Parameters:
//   - ctx: Context whose cancellation triggers shutdown
//   - opts: Listen address and CORS settings
//   - handler: Root handler, typically from NewRouter
//
// Returns:
//   - error: Listener error, or nil after a clean shutdown
func Serve(ctx context.Context, opts Options, handler http.Handler) error {
	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	// Give in-flight requests time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
