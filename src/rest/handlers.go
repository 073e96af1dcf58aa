// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ctscout/ct-cert-search/internal/analysis"
	"github.com/ctscout/ct-cert-search/internal/ctlog"
)

// DefaultUpstreamTimeout bounds each CT log service call made on behalf of
// an HTTP request. The server's Read/WriteTimeouts close the connection but
// do not cancel an in-flight upstream call; this deadline does.
const DefaultUpstreamTimeout = 30 * time.Second

// searchEngine is the slice of the certificate engine the handlers need.
type searchEngine interface {
	Search(ctx context.Context, domain string, mode ctlog.MatchMode, limit int) (*ctlog.SearchResult, error)
	GetDetail(ctx context.Context, certID int64) (string, error)
}

// Handler serves the certificate search API.
type Handler struct {
	engine   searchEngine
	analyzer *analysis.Analyzer
	timeout  time.Duration
}

// NewHandler creates a Handler backed by the given engine and analyzer.
// A non-positive timeout falls back to DefaultUpstreamTimeout.
func NewHandler(engine searchEngine, analyzer *analysis.Analyzer, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}
	return &Handler{engine: engine, analyzer: analyzer, timeout: timeout}
}

// upstreamContext derives a context for one engine call, bounded by the
// configured upstream timeout.
func (h *Handler) upstreamContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

// RegisterRoutes mounts the API routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/search", h.Search)
	r.Get("/certificates/{id}", h.Detail)
	r.Get("/analyze", h.Analyze)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeEngineError maps engine errors to HTTP statuses: invalid input is the
// caller's fault, upstream retrieval failures are a bad gateway.
func writeEngineError(w http.ResponseWriter, err error) {
	var invErr *ctlog.InvalidInputError
	if errors.As(err, &invErr) {
		writeError(w, http.StatusBadRequest, invErr.Error())
		return
	}
	var retErr *ctlog.RetrievalError
	if errors.As(err, &retErr) {
		writeError(w, http.StatusBadGateway, retErr.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// searchParams parses the shared domain/mode/limit query parameters.
func searchParams(r *http.Request) (string, ctlog.MatchMode, int, error) {
	domain := r.URL.Query().Get("domain")

	mode, err := ctlog.ParseMatchMode(r.URL.Query().Get("mode"))
	if err != nil {
		return "", "", 0, err
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", "", 0, &ctlog.InvalidInputError{Field: "limit", Reason: "must be an integer"}
		}
		limit = n
	}

	return domain, mode, limit, nil
}

// Search handles GET /search?domain=&mode=&limit=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	domain, mode, limit, err := searchParams(r)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	ctx, cancel := h.upstreamContext(r)
	defer cancel()

	result, err := h.engine.Search(ctx, domain, mode, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Detail handles GET /certificates/{id}. The detail body is returned as
// text exactly as the CT log service produced it.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	ctx, cancel := h.upstreamContext(r)
	defer cancel()

	detail, err := h.engine.GetDetail(ctx, id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(detail))
}

// Analyze handles GET /analyze?domain=&mode=&limit=. Analysis defaults to
// subdomain matching when no mode is given so the report covers the whole
// namespace under the domain.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	domain, mode, limit, err := searchParams(r)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if r.URL.Query().Get("mode") == "" {
		mode = ctlog.MatchSubdomain
	}

	ctx, cancel := h.upstreamContext(r)
	defer cancel()

	result, err := h.engine.Search(ctx, domain, mode, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.analyzer.Analyze(domain, result.Records))
}
