// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ctscout/ct-cert-search/internal/analysis"
)

// createTools creates and returns all MCP tool definitions with their handlers.
// It organizes tools into two categories: those that don't require configuration
// and those that need access to the server configuration (e.g., for default match
// modes, limits, and timeouts).
//
// Parameters:
//   - searcher: The certificate search engine the handlers delegate to
//   - analyzer: The analyzer used by the analysis tool
//
// Returns:
//   - A slice of ToolDefinition for tools without config dependencies
//   - A slice of ToolDefinitionWithConfig for tools that require server configuration
//
// The function defines the following tools:
//   - search_certificates: Searches CT logs for certificates issued to a domain
//   - get_certificate_detail: Fetches the raw detail text for one CT log record
//   - analyze_domain_certificates: Searches and aggregates a domain's certificates
//   - get_resource_usage: Provides server resource usage statistics
//
// Each tool includes proper parameter definitions, descriptions, and default values
// as required by the MCP specification.
func createTools(searcher Searcher, analyzer *analysis.Analyzer) ([]ToolDefinition, []ToolDefinitionWithConfig) {
	ts := &toolset{searcher: searcher, analyzer: analyzer}

	// Tools that don't need config
	tools := []ToolDefinition{
		{
			Tool: mcp.NewTool("get_certificate_detail",
				mcp.WithDescription("Fetch the raw detail text for a single CT log record by its identifier"),
				mcp.WithNumber("cert_id",
					mcp.Required(),
					mcp.Description("CT log record identifier from a previous search result"),
				),
			),
			Handler: ts.handleGetCertificateDetail,
			Role:    "detailFetcher",
		},
		{
			Tool: mcp.NewTool("get_resource_usage",
				mcp.WithDescription("Get current resource usage statistics including memory, GC, and CPU information"),
				mcp.WithBoolean("detailed",
					mcp.Description("Include detailed memory breakdown (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'json' or 'markdown' (default: 'json')"),
					mcp.DefaultString("json"),
				),
			),
			Handler: handleGetResourceUsage,
			Role:    "resourceMonitor",
		},
	}

	// Tools that need config
	toolsWithConfig := []ToolDefinitionWithConfig{
		{
			Tool: mcp.NewTool("search_certificates",
				mcp.WithDescription("Search Certificate Transparency logs for certificates issued to a domain"),
				mcp.WithString("domain",
					mcp.Required(),
					mcp.Description("Domain to search for, e.g. example.com"),
				),
				mcp.WithString("match_mode",
					mcp.Description("Match mode: 'exact', 'wildcard', or 'subdomain' (default: exact)"),
					mcp.DefaultString("exact"),
				),
				mcp.WithNumber("limit",
					mcp.Description("Maximum records to return, 1-1000 (default: 100)"),
					mcp.DefaultNumber(100),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'json' or 'markdown' (default: 'json')"),
					mcp.DefaultString("json"),
				),
			),
			Handler: ts.handleSearchCertificates,
			Role:    "searcher",
		},
		{
			Tool: mcp.NewTool("analyze_domain_certificates",
				mcp.WithDescription("Search CT logs for a domain and summarize issuers, unique identities, and validity"),
				mcp.WithString("domain",
					mcp.Required(),
					mcp.Description("Domain to analyze, e.g. example.com"),
				),
				mcp.WithString("match_mode",
					mcp.Description("Match mode: 'exact', 'wildcard', or 'subdomain' (default: subdomain)"),
					mcp.DefaultString("subdomain"),
				),
				mcp.WithNumber("limit",
					mcp.Description("Maximum records to analyze, 1-1000 (default: 100)"),
					mcp.DefaultNumber(100),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'text', 'markdown', or 'json' (default: 'text')"),
					mcp.DefaultString("text"),
				),
			),
			Handler: ts.handleAnalyzeDomainCertificates,
			Role:    "analyzer",
		},
	}

	return tools, toolsWithConfig
}
