// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package analysis

import (
	"sort"
	"time"

	"github.com/ctscout/ct-cert-search/internal/ctlog"
)

// crt.sh timestamps carry no zone and sometimes fractional seconds.
var notAfterLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999",
	time.RFC3339,
}

// IssuerCount is one entry of the issuer histogram.
type IssuerCount struct {
	// Issuer: Issuer distinguished name exactly as the CT log reports it
	Issuer string `json:"issuer"`
	// Count: Number of records attributed to this issuer
	Count int `json:"count"`
}

// Report is the aggregate summary of one batch of search records.
type Report struct {
	// Domain: Domain the analyzed search was for
	Domain string `json:"domain"`
	// NoData: True when the search matched no records; all other fields are zero
	NoData bool `json:"noData"`
	// RecordCount: Number of records analyzed
	RecordCount int `json:"recordCount"`
	// ValidCount: Records whose expiry is at or after the analysis instant
	ValidCount int `json:"validCount"`
	// ExpiredCount: Records whose expiry is strictly before the analysis instant
	ExpiredCount int `json:"expiredCount"`
	// UnparsedDates: Records counted as valid because their expiry was unreadable
	UnparsedDates int `json:"unparsedDates,omitempty"`
	// UniqueDomains: Deduplicated identities across all records, sorted
	UniqueDomains []string `json:"uniqueDomains"`
	// IssuerCounts: Histogram ordered by count descending, first-seen on ties
	IssuerCounts []IssuerCount `json:"issuerCounts"`
}

// Analyzer builds reports from search records.
type Analyzer struct {
	// now is the clock used for validity classification; tests override it.
	now func() time.Time
}

// NewAnalyzer creates an Analyzer using the wall clock.
func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// Analyze summarizes a batch of records for a domain.
//
// Parameters:
//   - domain: Domain the records were searched for; echoed into the report
//   - records: Records to analyze, typically a SearchResult's Records
//
// Returns:
//   - *Report: Aggregate report; NoData is set when records is empty
//
// Analysis never fails: an unreadable expiry classifies the record as
// valid and increments UnparsedDates, so ValidCount plus ExpiredCount
// always equals RecordCount.
func (a *Analyzer) Analyze(domain string, records []ctlog.CertificateRecord) *Report {
	if len(records) == 0 {
		return &Report{Domain: domain, NoData: true}
	}

	report := &Report{
		Domain:      domain,
		RecordCount: len(records),
	}

	now := a.now()
	domainSet := make(map[string]struct{})
	issuerIdx := make(map[string]int)

	for _, rec := range records {
		for _, d := range rec.Domains() {
			domainSet[d] = struct{}{}
		}

		if i, seen := issuerIdx[rec.IssuerName]; seen {
			report.IssuerCounts[i].Count++
		} else {
			issuerIdx[rec.IssuerName] = len(report.IssuerCounts)
			report.IssuerCounts = append(report.IssuerCounts, IssuerCount{Issuer: rec.IssuerName, Count: 1})
		}

		if expiry, ok := parseNotAfter(rec.NotAfter); ok {
			if expiry.Before(now) {
				report.ExpiredCount++
			} else {
				report.ValidCount++
			}
		} else {
			report.ValidCount++
			report.UnparsedDates++
		}
	}

	report.UniqueDomains = make([]string, 0, len(domainSet))
	for d := range domainSet {
		report.UniqueDomains = append(report.UniqueDomains, d)
	}
	sort.Strings(report.UniqueDomains)

	// Descending by count; insertion order already encodes first-seen,
	// and SliceStable keeps it for ties.
	sort.SliceStable(report.IssuerCounts, func(i, j int) bool {
		return report.IssuerCounts[i].Count > report.IssuerCounts[j].Count
	})

	return report
}

// parseNotAfter tries the timestamp layouts the CT log is known to emit.
func parseNotAfter(s string) (time.Time, bool) {
	for _, layout := range notAfterLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
