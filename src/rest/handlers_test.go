// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctscout/ct-cert-search/internal/analysis"
	"github.com/ctscout/ct-cert-search/internal/ctlog"
)

// stubEngine replays canned engine responses for handler tests.
type stubEngine struct {
	result *ctlog.SearchResult
	detail string
	err    error

	gotDomain   string
	gotMode     ctlog.MatchMode
	gotLimit    int
	gotDeadline time.Time
	hadDeadline bool
}

func (s *stubEngine) Search(ctx context.Context, domain string, mode ctlog.MatchMode, limit int) (*ctlog.SearchResult, error) {
	s.gotDomain, s.gotMode, s.gotLimit = domain, mode, limit
	s.gotDeadline, s.hadDeadline = ctx.Deadline()
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubEngine) GetDetail(ctx context.Context, certID int64) (string, error) {
	s.gotDeadline, s.hadDeadline = ctx.Deadline()
	if s.err != nil {
		return "", s.err
	}
	return s.detail, nil
}

func newTestServer(engine *stubEngine) *httptest.Server {
	router := NewRouter(engine, analysis.NewAnalyzer(), Options{CORSOrigin: "*"})
	return httptest.NewServer(router)
}

func sampleResult() *ctlog.SearchResult {
	return &ctlog.SearchResult{
		Total: 2,
		Records: []ctlog.CertificateRecord{
			{ID: 1, CommonName: "example.com", IssuerName: "R11", NameValue: "example.com", NotAfter: "2099-01-01T00:00:00"},
			{ID: 2, CommonName: "api.example.com", IssuerName: "E6", NameValue: "api.example.com", NotAfter: "2000-01-01T00:00:00"},
		},
		Query:     "example.com",
		MatchMode: ctlog.MatchExact,
	}
}

func TestSearchEndpoint(t *testing.T) {
	engine := &stubEngine{result: sampleResult()}
	srv := newTestServer(engine)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/search?domain=example.com&mode=wildcard&limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var result ctlog.SearchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, "example.com", engine.gotDomain)
	assert.Equal(t, ctlog.MatchWildcard, engine.gotMode)
	assert.Equal(t, 5, engine.gotLimit)
}

func TestSearchEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		engineErr  error
		wantStatus int
	}{
		{
			name:       "invalid mode",
			url:        "/api/v1/search?domain=example.com&mode=fuzzy",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-numeric limit",
			url:        "/api/v1/search?domain=example.com&limit=many",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty domain rejected by engine",
			url:        "/api/v1/search",
			engineErr:  &ctlog.InvalidInputError{Field: "domain", Reason: "must not be empty"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "upstream failure",
			url:        "/api/v1/search?domain=example.com",
			engineErr:  &ctlog.RetrievalError{StatusCode: 500, Description: "Internal Server Error"},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubEngine{err: tt.engineErr})
			defer srv.Close()

			resp, err := http.Get(srv.URL + tt.url)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestDetailEndpoint(t *testing.T) {
	engine := &stubEngine{detail: "-----BEGIN CERTIFICATE-----\nMIIB\n-----END CERTIFICATE-----"}
	srv := newTestServer(engine)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/certificates/1234567890")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	t.Run("non-numeric id", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/certificates/abc")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAnalyzeEndpoint(t *testing.T) {
	engine := &stubEngine{result: sampleResult()}
	srv := newTestServer(engine)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/analyze?domain=example.com")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report analysis.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 2, report.RecordCount)
	assert.Equal(t, 1, report.ValidCount)
	assert.Equal(t, 1, report.ExpiredCount)
	assert.Equal(t, ctlog.MatchSubdomain, engine.gotMode, "analyze defaults to subdomain matching")
}

func TestUpstreamDeadline(t *testing.T) {
	paths := map[string]string{
		"search":  "/api/v1/search?domain=example.com",
		"detail":  "/api/v1/certificates/42",
		"analyze": "/api/v1/analyze?domain=example.com",
	}

	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			engine := &stubEngine{result: sampleResult(), detail: "cert text"}
			srv := newTestServer(engine)
			defer srv.Close()

			resp, err := http.Get(srv.URL + path)
			require.NoError(t, err)
			resp.Body.Close()

			require.True(t, engine.hadDeadline, "upstream call must carry a deadline")
			remaining := time.Until(engine.gotDeadline)
			assert.Greater(t, remaining, time.Duration(0))
			assert.LessOrEqual(t, remaining, DefaultUpstreamTimeout)
		})
	}

	t.Run("configured timeout", func(t *testing.T) {
		engine := &stubEngine{result: sampleResult()}
		router := NewRouter(engine, analysis.NewAnalyzer(), Options{CORSOrigin: "*", UpstreamTimeout: 10 * time.Second})
		srv := httptest.NewServer(router)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/v1/search?domain=example.com")
		require.NoError(t, err)
		resp.Body.Close()

		require.True(t, engine.hadDeadline)
		assert.LessOrEqual(t, time.Until(engine.gotDeadline), 10*time.Second)
	})
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&stubEngine{result: sampleResult()})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/search", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(&stubEngine{result: sampleResult()})
	defer srv.Close()

	t.Run("generated", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/search?domain=example.com")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("caller supplied", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/search?domain=example.com", nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "abc123")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "abc123", resp.Header.Get("X-Request-ID"))
	})
}
