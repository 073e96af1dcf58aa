// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ctlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource records the patterns it was asked for and replays canned
// responses, so engine behavior can be tested without a network.
type stubSource struct {
	records  []CertificateRecord
	detail   string
	err      error
	patterns []string
	detailID int64
	calls    int
}

func (s *stubSource) Search(_ context.Context, pattern string) ([]CertificateRecord, error) {
	s.calls++
	s.patterns = append(s.patterns, pattern)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubSource) Detail(_ context.Context, certID int64) (string, error) {
	s.calls++
	s.detailID = certID
	if s.err != nil {
		return "", s.err
	}
	return s.detail, nil
}

func makeRecords(n int) []CertificateRecord {
	records := make([]CertificateRecord, n)
	for i := range records {
		records[i] = CertificateRecord{ID: int64(i + 1), CommonName: "example.com"}
	}
	return records
}

func TestEngineSearch(t *testing.T) {
	t.Run("truncates while reporting full total", func(t *testing.T) {
		src := &stubSource{records: makeRecords(12)}
		engine := NewEngine(src)

		res, err := engine.Search(context.Background(), "example.com", MatchExact, 5)
		require.NoError(t, err)

		assert.Equal(t, 12, res.Total)
		assert.Len(t, res.Records, 5)
		assert.True(t, res.Truncated())
		assert.Equal(t, "example.com", res.Query)
		assert.Equal(t, MatchExact, res.MatchMode)
		assert.Equal(t, []string{"example.com"}, src.patterns)
	})

	t.Run("wildcard mode builds prefixed pattern", func(t *testing.T) {
		src := &stubSource{records: makeRecords(1)}
		engine := NewEngine(src)

		_, err := engine.Search(context.Background(), "example.com", MatchWildcard, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"%.example.com"}, src.patterns)
	})

	t.Run("zero limit defaults", func(t *testing.T) {
		src := &stubSource{records: makeRecords(150)}
		engine := NewEngine(src)

		res, err := engine.Search(context.Background(), "example.com", MatchExact, 0)
		require.NoError(t, err)
		assert.Equal(t, 150, res.Total)
		assert.Len(t, res.Records, DefaultLimit)
	})

	t.Run("zero matches is a success", func(t *testing.T) {
		src := &stubSource{}
		engine := NewEngine(src)

		res, err := engine.Search(context.Background(), "nomatch.invalid", MatchExact, 10)
		require.NoError(t, err)
		assert.Zero(t, res.Total)
		assert.Empty(t, res.Records)
		assert.False(t, res.Truncated())
	})

	t.Run("retrieval errors pass through", func(t *testing.T) {
		src := &stubSource{err: &RetrievalError{StatusCode: 500, Description: "Internal Server Error"}}
		engine := NewEngine(src)

		_, err := engine.Search(context.Background(), "example.com", MatchExact, 10)
		var retErr *RetrievalError
		require.ErrorAs(t, err, &retErr)
		assert.Equal(t, 500, retErr.StatusCode)
		assert.Equal(t, 1, src.calls, "exactly one attempt, no retries")
	})
}

func TestEngineSearchValidation(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		mode   MatchMode
		limit  int
		field  string
	}{
		{name: "empty domain", domain: "", mode: MatchExact, limit: 10, field: "domain"},
		{name: "whitespace domain", domain: "   ", mode: MatchExact, limit: 10, field: "domain"},
		{name: "unknown mode", domain: "example.com", mode: MatchMode("fuzzy"), limit: 10, field: "mode"},
		{name: "negative limit", domain: "example.com", mode: MatchExact, limit: -1, field: "limit"},
		{name: "limit above cap", domain: "example.com", mode: MatchExact, limit: 1001, field: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubSource{records: makeRecords(1)}
			engine := NewEngine(src)

			_, err := engine.Search(context.Background(), tt.domain, tt.mode, tt.limit)
			var invErr *InvalidInputError
			require.ErrorAs(t, err, &invErr)
			assert.Equal(t, tt.field, invErr.Field)
			assert.Zero(t, src.calls, "validation must reject before any source call")
		})
	}
}

func TestEngineGetDetail(t *testing.T) {
	t.Run("returns detail verbatim", func(t *testing.T) {
		src := &stubSource{detail: "-----BEGIN CERTIFICATE-----\nMIIB...\n-----END CERTIFICATE-----\n"}
		engine := NewEngine(src)

		got, err := engine.GetDetail(context.Background(), 1234567890)
		require.NoError(t, err)
		assert.Equal(t, src.detail, got)
		assert.Equal(t, int64(1234567890), src.detailID)
	})

	t.Run("miss body passes through untouched", func(t *testing.T) {
		src := &stubSource{detail: "Certificate not found"}
		engine := NewEngine(src)

		got, err := engine.GetDetail(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, "Certificate not found", got)
	})

	t.Run("rejects non-positive identifiers", func(t *testing.T) {
		src := &stubSource{}
		engine := NewEngine(src)

		for _, id := range []int64{0, -1} {
			_, err := engine.GetDetail(context.Background(), id)
			var invErr *InvalidInputError
			require.ErrorAs(t, err, &invErr)
			assert.Equal(t, "certID", invErr.Field)
		}
		assert.Zero(t, src.calls)
	})
}
