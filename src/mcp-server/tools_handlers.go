// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ctscout/ct-cert-search/internal/analysis"
	"github.com/ctscout/ct-cert-search/internal/ctlog"
)

// toolset carries the engine and analyzer the tool handlers operate on.
type toolset struct {
	searcher Searcher
	analyzer *analysis.Analyzer
}

// searchDefaults resolves the effective match mode and limit for a call,
// letting explicit arguments override configured defaults.
func searchDefaults(request mcp.CallToolRequest, config *Config) (string, int) {
	defaultMode := "exact"
	defaultLimit := 100
	if config != nil {
		if config.Defaults.MatchMode != "" {
			defaultMode = config.Defaults.MatchMode
		}
		if config.Defaults.Limit > 0 {
			defaultLimit = config.Defaults.Limit
		}
	}
	return request.GetString("match_mode", defaultMode), request.GetInt("limit", defaultLimit)
}

// withTimeout derives a context bounded by the configured operation timeout.
func withTimeout(ctx context.Context, config *Config) (context.Context, context.CancelFunc) {
	seconds := 30
	if config != nil && config.Defaults.Timeout > 0 {
		seconds = config.Defaults.Timeout
	}
	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}

// searchErrorResult maps engine errors to MCP tool error results.
// Invalid input and upstream retrieval failures are tool-level errors, not
// protocol errors, so the MCP error channel stays reserved for server faults.
func searchErrorResult(err error) *mcp.CallToolResult {
	var invErr *ctlog.InvalidInputError
	if errors.As(err, &invErr) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid input: %v", invErr))
	}
	var retErr *ctlog.RetrievalError
	if errors.As(err, &retErr) {
		return mcp.NewToolResultError(fmt.Sprintf("CT log service error: %v", retErr))
	}
	return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err))
}

// handleSearchCertificates searches CT logs for certificates issued to a domain.
// It resolves defaults from configuration, queries the search engine, and formats
// the result as JSON or a markdown table.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing domain, match_mode, limit, and format
//   - config: Server configuration providing defaults and timeouts
//
// Returns:
//   - The tool execution result containing the search result
//   - An error only on internal failures; input and upstream problems become tool errors
func (ts *toolset) handleSearchCertificates(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	domain, err := request.RequireString("domain")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("domain parameter required: %v", err)), nil
	}

	modeStr, limit := searchDefaults(request, config)
	format := request.GetString("format", "json")

	mode, err := ctlog.ParseMatchMode(modeStr)
	if err != nil {
		return searchErrorResult(err), nil
	}

	ctx, cancel := withTimeout(ctx, config)
	defer cancel()

	result, err := ts.searcher.Search(ctx, domain, mode, limit)
	if err != nil {
		return searchErrorResult(err), nil
	}

	if format == "markdown" {
		var b strings.Builder
		fmt.Fprintf(&b, "Found %d certificate records for %q (mode: %s)", result.Total, result.Query, result.MatchMode)
		if result.Truncated() {
			fmt.Fprintf(&b, ", showing first %d", len(result.Records))
		}
		b.WriteString("\n\n")
		b.WriteString(analysis.RenderRecordsTable(result.Records))
		return mcp.NewToolResultText(b.String()), nil
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetCertificateDetail fetches the raw detail text for one CT log record.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing cert_id
//
// Returns:
//   - The tool execution result containing the detail text verbatim
//   - An error only on internal failures
//
// The detail text is whatever the CT log service returns for the record,
// typically PEM data. A miss body is passed through unchanged.
func (ts *toolset) handleGetCertificateDetail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	certID, err := request.RequireInt("cert_id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cert_id parameter required: %v", err)), nil
	}

	detail, err := ts.searcher.GetDetail(ctx, int64(certID))
	if err != nil {
		return searchErrorResult(err), nil
	}

	return mcp.NewToolResultText(detail), nil
}

// handleAnalyzeDomainCertificates searches CT logs for a domain and summarizes
// the records: issuer distribution, unique identities, and validity counts.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing domain, match_mode, limit, and format
//   - config: Server configuration providing defaults and timeouts
//
// Returns:
//   - The tool execution result containing the analysis report
//   - An error only on internal failures
//
// Analysis defaults to subdomain matching so the report covers the whole
// namespace under the domain, not just the bare name.
func (ts *toolset) handleAnalyzeDomainCertificates(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	domain, err := request.RequireString("domain")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("domain parameter required: %v", err)), nil
	}

	modeStr := request.GetString("match_mode", "subdomain")
	_, limit := searchDefaults(request, config)
	format := request.GetString("format", "text")

	mode, err := ctlog.ParseMatchMode(modeStr)
	if err != nil {
		return searchErrorResult(err), nil
	}

	ctx, cancel := withTimeout(ctx, config)
	defer cancel()

	result, err := ts.searcher.Search(ctx, domain, mode, limit)
	if err != nil {
		return searchErrorResult(err), nil
	}

	report := ts.analyzer.Analyze(domain, result.Records)

	switch format {
	case "json":
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal analysis report: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	case "markdown":
		var b strings.Builder
		b.WriteString(report.RenderText())
		if !report.NoData {
			b.WriteString("\n")
			b.WriteString(report.RenderTable())
		}
		return mcp.NewToolResultText(b.String()), nil
	default:
		return mcp.NewToolResultText(report.RenderText()), nil
	}
}
