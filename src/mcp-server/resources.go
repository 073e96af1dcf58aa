// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// createResources creates all static resources served by the MCP server.
//
// Returns:
//   - A slice of server.ServerResource pairing resource specs with handlers
//
// Resources include the configuration template, version information,
// CT log search documentation, and server status.
func createResources() []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource("config://template", "Configuration Template",
				mcp.WithResourceDescription("Example configuration showing all supported settings"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleConfigResource,
		},
		{
			Resource: mcp.NewResource("info://version", "Server Version",
				mcp.WithResourceDescription("Server version and capability information"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleVersionResource,
		},
		{
			Resource: mcp.NewResource("docs://certificate-search", "Certificate Search Documentation",
				mcp.WithResourceDescription("Documentation for CT log search match modes, record fields, and limits"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: handleCertificateSearchDocsResource,
		},
		{
			Resource: mcp.NewResource("status://server-status", "Server Status",
				mcp.WithResourceDescription("Current server health and operational status"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleStatusResource,
		},
	}
}
