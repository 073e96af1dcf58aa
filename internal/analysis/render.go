// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package analysis

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ctscout/ct-cert-search/internal/ctlog"
)

// RenderText renders the report as plain text for terminals and tool output.
//
// Returns:
//   - string: Multi-line summary; a fixed "no data" line when NoData is set
func (r *Report) RenderText() string {
	if r.NoData {
		return fmt.Sprintf("No certificate records found for %s", r.Domain)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Certificate analysis for %s\n", r.Domain)
	fmt.Fprintf(&b, "Records: %d (valid: %d, expired: %d)\n", r.RecordCount, r.ValidCount, r.ExpiredCount)
	if r.UnparsedDates > 0 {
		fmt.Fprintf(&b, "Records with unreadable expiry (counted valid): %d\n", r.UnparsedDates)
	}

	fmt.Fprintf(&b, "\nUnique domains (%d):\n", len(r.UniqueDomains))
	for _, d := range r.UniqueDomains {
		fmt.Fprintf(&b, "  %s\n", d)
	}

	fmt.Fprintf(&b, "\nIssuers (%d):\n", len(r.IssuerCounts))
	for _, ic := range r.IssuerCounts {
		fmt.Fprintf(&b, "  %4d  %s\n", ic.Count, ic.Issuer)
	}

	return b.String()
}

// RenderTable renders the issuer histogram as a formatted markdown table.
//
// Returns:
//   - string: Markdown table, or a fixed "no data" line when NoData is set
func (r *Report) RenderTable() string {
	if r.NoData {
		return fmt.Sprintf("No certificate records found for %s", r.Domain)
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	table.Header([]string{"🏢 Issuer", "🔢 Certificates"})

	var rows [][]string
	for _, ic := range r.IssuerCounts {
		rows = append(rows, []string{ic.Issuer, fmt.Sprintf("%d", ic.Count)})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// RenderRecordsTable renders search records as a formatted markdown table.
//
// Parameters:
//   - records: Records to display, typically a SearchResult's Records
//
// Returns:
//   - string: Markdown table, or a fixed "no data" line for an empty batch
func RenderRecordsTable(records []ctlog.CertificateRecord) string {
	if len(records) == 0 {
		return "No certificate records to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	table.Header([]string{"🔢 ID", "📛 Common Name", "🏢 Issuer", "📅 Not Before", "📅 Not After"})

	var rows [][]string
	for _, rec := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", rec.ID),
			rec.CommonName,
			rec.IssuerName,
			rec.NotBefore,
			rec.NotAfter,
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}
