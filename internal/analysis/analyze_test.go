// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctscout/ct-cert-search/internal/ctlog"
)

// fixedAnalyzer pins the clock so validity classification is deterministic.
func fixedAnalyzer(now time.Time) *Analyzer {
	a := NewAnalyzer()
	a.now = func() time.Time { return now }
	return a
}

func TestAnalyzeEmptyInput(t *testing.T) {
	report := NewAnalyzer().Analyze("example.com", nil)

	assert.True(t, report.NoData)
	assert.Equal(t, "example.com", report.Domain)
	assert.Zero(t, report.RecordCount)
	assert.Empty(t, report.UniqueDomains)
	assert.Empty(t, report.IssuerCounts)
}

func TestAnalyzeValidity(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := fixedAnalyzer(now)

	records := []ctlog.CertificateRecord{
		{CommonName: "a.example.com", NameValue: "a.example.com", NotAfter: "2025-09-01T00:00:00", IssuerName: "R11"},
		{CommonName: "b.example.com", NameValue: "b.example.com", NotAfter: "2025-01-01T00:00:00", IssuerName: "R11"},
		{CommonName: "c.example.com", NameValue: "c.example.com", NotAfter: "2024-12-31T23:59:59", IssuerName: "E6"},
	}

	report := a.Analyze("example.com", records)

	assert.False(t, report.NoData)
	assert.Equal(t, 3, report.RecordCount)
	assert.Equal(t, 1, report.ValidCount)
	assert.Equal(t, 2, report.ExpiredCount)
	assert.Equal(t, report.RecordCount, report.ValidCount+report.ExpiredCount)
}

func TestAnalyzeMalformedExpiryCountsValid(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := fixedAnalyzer(now)

	records := []ctlog.CertificateRecord{
		{NameValue: "a.example.com", NotAfter: "not-a-date", IssuerName: "R11"},
		{NameValue: "b.example.com", NotAfter: "", IssuerName: "R11"},
		{NameValue: "c.example.com", NotAfter: "2025-01-01T00:00:00", IssuerName: "R11"},
	}

	report := a.Analyze("example.com", records)

	assert.Equal(t, 2, report.ValidCount)
	assert.Equal(t, 1, report.ExpiredCount)
	assert.Equal(t, 2, report.UnparsedDates)
	assert.Equal(t, report.RecordCount, report.ValidCount+report.ExpiredCount)
}

func TestAnalyzeFractionalAndZonedTimestamps(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := fixedAnalyzer(now)

	records := []ctlog.CertificateRecord{
		{NameValue: "a.example.com", NotAfter: "2025-09-01T00:00:00.123", IssuerName: "R11"},
		{NameValue: "b.example.com", NotAfter: "2025-09-01T00:00:00Z", IssuerName: "R11"},
	}

	report := a.Analyze("example.com", records)

	assert.Equal(t, 2, report.ValidCount)
	assert.Zero(t, report.UnparsedDates)
}

func TestAnalyzeUniqueDomains(t *testing.T) {
	a := fixedAnalyzer(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	records := []ctlog.CertificateRecord{
		{NameValue: "www.example.com\nexample.com", NotAfter: "2026-01-01T00:00:00"},
		{NameValue: "example.com\napi.example.com", NotAfter: "2026-01-01T00:00:00"},
		// Dedup is case-sensitive: a differently-cased name is distinct.
		{NameValue: "Example.com", NotAfter: "2026-01-01T00:00:00"},
	}

	report := a.Analyze("example.com", records)

	assert.Equal(t, []string{"Example.com", "api.example.com", "example.com", "www.example.com"}, report.UniqueDomains)
}

func TestAnalyzeIssuerHistogramOrdering(t *testing.T) {
	a := fixedAnalyzer(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	records := []ctlog.CertificateRecord{
		{NameValue: "a", IssuerName: "IssuerB", NotAfter: "2026-01-01T00:00:00"},
		{NameValue: "b", IssuerName: "IssuerA", NotAfter: "2026-01-01T00:00:00"},
		{NameValue: "c", IssuerName: "IssuerA", NotAfter: "2026-01-01T00:00:00"},
		{NameValue: "d", IssuerName: "IssuerC", NotAfter: "2026-01-01T00:00:00"},
	}

	report := a.Analyze("example.com", records)

	require.Len(t, report.IssuerCounts, 3)
	assert.Equal(t, IssuerCount{Issuer: "IssuerA", Count: 2}, report.IssuerCounts[0])
	// IssuerB and IssuerC tie at 1; first-seen order breaks the tie.
	assert.Equal(t, IssuerCount{Issuer: "IssuerB", Count: 1}, report.IssuerCounts[1])
	assert.Equal(t, IssuerCount{Issuer: "IssuerC", Count: 1}, report.IssuerCounts[2])
}

func TestAnalyzeExpiredMultiNameRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := fixedAnalyzer(now)

	records := []ctlog.CertificateRecord{
		{NameValue: "a.example.com\nb.example.com", NotAfter: "2025-01-01T00:00:00", IssuerName: "R11"},
	}

	report := a.Analyze("example.com", records)

	assert.Equal(t, 1, report.RecordCount)
	assert.Equal(t, 1, report.ExpiredCount)
	assert.Zero(t, report.ValidCount)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, report.UniqueDomains)
}
