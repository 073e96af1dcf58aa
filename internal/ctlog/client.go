// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ctlog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/ctscout/ct-cert-search/internal/helper/gc"
)

// DefaultBaseURL is the CT log search service queried when no override is
// configured.
const DefaultBaseURL = "https://crt.sh"

// Source is the external CT log search service the engine depends on.
// It is injected so tests can substitute a stub source instead of
// exercising the public network.
type Source interface {
	// Search returns all records matching the given pattern, in the
	// source's own order.
	Search(ctx context.Context, pattern string) ([]CertificateRecord, error)
	// Detail returns the source's detail text for one record by
	// identifier, verbatim and unparsed.
	Detail(ctx context.Context, certID int64) (string, error)
}

// HTTPConfig holds HTTP client configuration for CT log source calls.
type HTTPConfig struct {
	// Version: Application version for the User-Agent header
	Version string
	// UserAgent: Custom User-Agent string; if empty it is constructed from Version
	UserAgent string

	mu     sync.Mutex
	client *http.Client
}

// NewHTTPConfig creates a new HTTP configuration.
//
// The underlying client carries no timeout of its own; callers bound
// latency with a context deadline per request.
func NewHTTPConfig(version string) *HTTPConfig {
	return &HTTPConfig{Version: version}
}

// GetUserAgent returns the User-Agent string, constructing it if not set.
func (c *HTTPConfig) GetUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return fmt.Sprintf("CT-Cert-Search/%s (+https://github.com/ctscout/ct-cert-search)", c.Version)
}

// Client returns the shared HTTP client.
//
// Thread Safety: Safe for concurrent use.
func (c *HTTPConfig) Client() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		c.client = &http.Client{}
	}
	return c.client
}

// HTTPSource implements Source against a crt.sh-compatible HTTP service.
//
// Each call is a single best-effort attempt: no retries, no backoff, no
// internal timeout. Failures of any kind surface as *RetrievalError.
type HTTPSource struct {
	// BaseURL: Service root, e.g. "https://crt.sh"
	BaseURL string
	// HTTPConfig: Shared HTTP client configuration
	HTTPConfig *HTTPConfig
}

// NewHTTPSource creates an HTTPSource against baseURL. An empty baseURL
// falls back to DefaultBaseURL.
func NewHTTPSource(baseURL, version string) *HTTPSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPSource{
		BaseURL:    baseURL,
		HTTPConfig: NewHTTPConfig(version),
	}
}

// Search issues one lookup against the source, requesting the structured
// JSON response format, and returns the decoded records in source order.
//
// A zero-match search yields an empty slice, not an error.
func (s *HTTPSource) Search(ctx context.Context, pattern string) ([]CertificateRecord, error) {
	endpoint := fmt.Sprintf("%s/?q=%s&output=json", s.BaseURL, url.QueryEscape(pattern))

	body, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	// crt.sh answers an empty body for zero matches in some deployments.
	if len(body) == 0 {
		return nil, nil
	}

	var records []CertificateRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &RetrievalError{
			Description: "malformed response body",
			Err:         err,
		}
	}
	return records, nil
}

// Detail fetches the source's detail text for one record identifier. The
// body is returned verbatim; a miss is whatever the source answers for a
// miss (commonly an empty or "not found" body), not re-interpreted locally.
func (s *HTTPSource) Detail(ctx context.Context, certID int64) (string, error) {
	endpoint := fmt.Sprintf("%s/?d=%s", s.BaseURL, strconv.FormatInt(certID, 10))

	body, err := s.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// get performs one GET request and returns the response body, buffering
// through the shared pool. Non-2xx statuses and transport faults become
// *RetrievalError.
func (s *HTTPSource) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &RetrievalError{Description: "building request", Err: err}
	}
	req.Header.Set("User-Agent", s.HTTPConfig.GetUserAgent())

	resp, err := s.HTTPConfig.Client().Do(req)
	if err != nil {
		return nil, &RetrievalError{Description: "request failed", Err: err}
	}
	defer resp.Body.Close()

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, &RetrievalError{
			StatusCode:  resp.StatusCode,
			Description: "reading response body",
			Err:         err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RetrievalError{
			StatusCode:  resp.StatusCode,
			Description: http.StatusText(resp.StatusCode),
		}
	}

	return append([]byte(nil), buf.Bytes()...), nil
}
