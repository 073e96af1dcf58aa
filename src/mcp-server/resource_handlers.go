// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ctscout/ct-cert-search/src/mcp-server/templates"
	"github.com/ctscout/ct-cert-search/src/version"
)

// handleConfigResource handles requests for the configuration template resource.
// It provides a JSON template showing the expected configuration structure for the MCP server.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for the config template
//
// Returns:
//   - A slice containing the configuration template as JSON content
//   - An error if JSON marshaling fails
func handleConfigResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exampleConfig := map[string]any{
		"defaults": map[string]any{
			"matchMode":      "exact",
			"limit":          100,
			"timeoutSeconds": 30,
		},
		"source": map[string]any{
			"baseURL": "https://crt.sh",
		},
		"rest": map[string]any{
			"addr":       ":8080",
			"corsOrigin": "*",
		},
	}

	jsonData, err := json.MarshalIndent(exampleConfig, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "config://template",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleVersionResource handles requests for version information resource.
// It provides server metadata including version, capabilities, and supported match modes.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for version information
//
// Returns:
//   - A slice containing version and capability information as JSON content
//   - An error if JSON marshaling fails
//
// All capabilities (tools, resources, prompts) are loaded dynamically from the
// metadata cache populated during server construction.
func handleVersionResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	prompts, err := loadPromptsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts config: %w", err)
	}

	tools, err := loadToolsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load tools config: %w", err)
	}

	resources, err := loadResourcesConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load resources config: %w", err)
	}

	versionInfo := map[string]any{
		"name":    ServerName,
		"version": version.Version,
		"type":    "MCP Server",
		"capabilities": map[string]any{
			"tools":     tools.AllTools,
			"resources": resources,
			"prompts":   prompts,
		},
		"supportedMatchModes": []string{"exact", "wildcard", "subdomain"},
	}

	jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "info://version",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleCertificateSearchDocsResource serves the embedded CT log search documentation.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for the search documentation
//
// Returns:
//   - A slice containing the documentation as markdown content
//   - An error if the embedded file cannot be read
func handleCertificateSearchDocsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	content, err := templates.MagicEmbed.ReadFile("certificate-search.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate search template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "docs://certificate-search",
			MIMEType: "text/markdown",
			Text:     string(content),
		},
	}, nil
}

// handleStatusResource handles requests for server status information resource.
// It provides current server health, version, and operational status.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for server status
//
// Returns:
//   - A slice containing server status information as JSON content
//   - An error if JSON marshaling fails
func handleStatusResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	prompts, err := loadPromptsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts config: %w", err)
	}

	tools, err := loadToolsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load tools config: %w", err)
	}

	resources, err := loadResourcesConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load resources config: %w", err)
	}

	statusInfo := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"server":    ServerName + " MCP Server",
		"version":   version.Version,
		"capabilities": map[string]any{
			"tools":     tools.AllTools,
			"resources": resources,
			"prompts":   prompts,
		},
		"supportedMatchModes": []string{"exact", "wildcard", "subdomain"},
	}

	jsonData, err := json.MarshalIndent(statusInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "status://server-status",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
