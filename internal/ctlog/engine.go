// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ctlog

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DefaultLimit is used when a search request leaves the limit unset.
	DefaultLimit = 100
	// MaxLimit bounds how many records a single search may return.
	MaxLimit = 1000
)

// Engine is the certificate search engine. It validates requests, builds
// search patterns, queries the configured Source, and shapes results.
type Engine struct {
	source Source
}

// NewEngine creates an Engine backed by the given source.
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Search looks up CT log records for a domain.
//
// Parameters:
//   - ctx: Context for cancellation and deadlines
//   - domain: Domain to search for; must be non-empty
//   - mode: Match mode; MatchExact, MatchWildcard, or MatchSubdomain
//   - limit: Maximum records returned; 0 means DefaultLimit, capped at MaxLimit
//
// Returns:
//   - *SearchResult: Result with Total reflecting the untruncated match count
//   - error: *InvalidInputError before any network I/O, *RetrievalError after
//
// Validation happens entirely before the source is contacted: an invalid
// request never generates network traffic.
func (e *Engine) Search(ctx context.Context, domain string, mode MatchMode, limit int) (*SearchResult, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, &InvalidInputError{Field: "domain", Reason: "must not be empty"}
	}
	switch mode {
	case MatchExact, MatchWildcard, MatchSubdomain:
	default:
		return nil, &InvalidInputError{
			Field:  "mode",
			Reason: fmt.Sprintf("unknown match mode %q", mode),
		}
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, &InvalidInputError{
			Field:  "limit",
			Reason: fmt.Sprintf("must be between 1 and %d", MaxLimit),
		}
	}

	pattern := BuildSearchPattern(domain, mode)

	records, err := e.source.Search(ctx, pattern)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Total:     len(records),
		Records:   Limit(records, limit),
		Query:     domain,
		MatchMode: mode,
	}, nil
}

// GetDetail fetches the opaque detail text for one certificate record.
//
// Parameters:
//   - ctx: Context for cancellation and deadlines
//   - certID: CT log record identifier; must be positive
//
// Returns:
//   - string: Detail text exactly as the source returned it
//   - error: *InvalidInputError for a non-positive identifier, *RetrievalError otherwise
func (e *Engine) GetDetail(ctx context.Context, certID int64) (string, error) {
	if certID <= 0 {
		return "", &InvalidInputError{Field: "certID", Reason: "must be positive"}
	}
	return e.source.Detail(ctx, certID)
}
