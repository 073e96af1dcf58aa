// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// createPrompts creates and returns all MCP prompt definitions with their handlers
func createPrompts() []server.ServerPrompt {
	return []server.ServerPrompt{
		{
			Prompt: mcp.NewPrompt("certificate-audit",
				mcp.WithPromptDescription("Comprehensive certificate posture audit for a domain using CT logs"),
				mcp.WithArgument("domain",
					mcp.ArgumentDescription("Domain to audit, e.g. example.com"),
				),
			),
			Handler: handleCertificateAuditPrompt,
		},
		{
			Prompt: mcp.NewPrompt("subdomain-discovery",
				mcp.WithPromptDescription("Enumerate subdomains of a domain from certificates logged in CT"),
				mcp.WithArgument("domain",
					mcp.ArgumentDescription("Apex domain to enumerate subdomains for"),
				),
				mcp.WithArgument("limit",
					mcp.ArgumentDescription("Maximum records to scan (default: 1000)"),
				),
			),
			Handler: handleSubdomainDiscoveryPrompt,
		},
		{
			Prompt: mcp.NewPrompt("expiry-review",
				mcp.WithPromptDescription("Review expired and expiring certificates for a domain"),
				mcp.WithArgument("domain",
					mcp.ArgumentDescription("Domain whose certificates should be reviewed"),
				),
			),
			Handler: handleExpiryReviewPrompt,
		},
	}
}
