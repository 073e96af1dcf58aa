// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ctlog

import (
	"strings"
)

// CertificateRecord is one CT log entry as returned by the external search
// source. All fields are passed through verbatim; timestamps and serial
// numbers are opaque strings that are never validated locally.
type CertificateRecord struct {
	// IssuerCAID: Numeric identifier of the issuing CA within the source
	IssuerCAID int `json:"issuer_ca_id"`
	// IssuerName: Distinguished name of the issuing CA
	IssuerName string `json:"issuer_name"`
	// CommonName: Subject common name of the certificate
	CommonName string `json:"common_name"`
	// NameValue: Newline-separated SAN entries covered by the certificate
	NameValue string `json:"name_value"`
	// ID: Record identifier, unique per record within the source
	ID int64 `json:"id"`
	// EntryTimestamp: When the record was logged, as reported by the source
	EntryTimestamp string `json:"entry_timestamp"`
	// NotBefore: Start of the validity period, as reported by the source
	NotBefore string `json:"not_before"`
	// NotAfter: End of the validity period, as reported by the source
	NotAfter string `json:"not_after"`
	// SerialNumber: Hex-like certificate serial, opaque
	SerialNumber string `json:"serial_number"`
}

// Domains returns the individual domain names encoded in NameValue.
// SAN entries are newline-separated; each entry is trimmed of surrounding
// whitespace and empty entries are dropped.
func (r CertificateRecord) Domains() []string {
	var domains []string
	for _, name := range strings.Split(r.NameValue, "\n") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		domains = append(domains, name)
	}
	return domains
}

// SearchResult is the outcome of one search operation.
//
// Total reflects the source's full match count even when Records was
// truncated to the caller's limit, so callers can tell how much was omitted.
type SearchResult struct {
	// Total: Count of all matching records returned by the source, before truncation
	Total int `json:"total"`
	// Records: Matching records in source order, length <= requested limit
	Records []CertificateRecord `json:"records"`
	// Query: The original domain string as given by the caller (not the search pattern)
	Query string `json:"query"`
	// MatchMode: The match mode the search was performed with
	MatchMode MatchMode `json:"match_mode"`
}

// Truncated reports whether Records was cut down from the full match list.
func (s *SearchResult) Truncated() bool { return len(s.Records) < s.Total }

// Limit returns the first n records of the input in source-given order.
// The source's own ordering is preserved verbatim; no re-sorting happens
// before truncation. Callers must keep reporting the untruncated count as
// SearchResult.Total.
func Limit(records []CertificateRecord, n int) []CertificateRecord {
	if n >= len(records) {
		return records
	}
	return records[:n]
}
