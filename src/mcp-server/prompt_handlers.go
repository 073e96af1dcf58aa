// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleCertificateAuditPrompt handles the certificate audit workflow prompt
func handleCertificateAuditPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	domain := request.Params.Arguments["domain"]

	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(fmt.Sprintf(`I'll help you audit the certificate posture for: %s

Let's work through the CT log data step by step:`, domain)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`1. First, get the aggregate picture of the domain's certificates.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "analyze_domain_certificates" tool with match_mode "subdomain" to see issuer distribution, every identity logged in CT, and valid/expired counts.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`2. Next, list the individual records so unusual issuances stand out.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "search_certificates" tool and look for unexpected issuers, unfamiliar subdomains, or recently logged certificates nobody requested.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`3. For any suspicious record, pull its raw detail.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "get_certificate_detail" tool with the record's id to retrieve the raw data from the CT log service.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(`4. Summarize findings: unexpected issuers, unknown identities, expired certificates still in use, and recommended followups.`),
		),
	}

	return mcp.NewGetPromptResult(
		"Domain Certificate Audit Workflow",
		messages,
	), nil
}

// handleSubdomainDiscoveryPrompt handles the subdomain discovery prompt
func handleSubdomainDiscoveryPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	domain := request.Params.Arguments["domain"]
	limit := request.Params.Arguments["limit"]
	if limit == "" {
		limit = "1000"
	}

	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(fmt.Sprintf(`I'll enumerate subdomains of %s from Certificate Transparency logs.`, domain)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(fmt.Sprintf(`Use the "analyze_domain_certificates" tool with domain %q, match_mode "subdomain", and limit %s. The uniqueDomains list in the report is the deduplicated set of every identity logged in CT for this namespace.`, domain, limit)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Present the identities grouped by apparent purpose (api, mail, staging, internal) and call out anything that looks like it should not be publicly discoverable.`),
		),
	}

	return mcp.NewGetPromptResult(
		"CT-Based Subdomain Discovery",
		messages,
	), nil
}

// handleExpiryReviewPrompt handles the expiry review prompt
func handleExpiryReviewPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	domain := request.Params.Arguments["domain"]

	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(fmt.Sprintf(`I'll review certificate validity for: %s`, domain)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`1. Use the "analyze_domain_certificates" tool to get valid and expired counts for the domain.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`2. Use the "search_certificates" tool and inspect the not_after field of each record to find certificates expiring soon.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(`3. Report which identities are covered only by expired or soon-to-expire certificates and suggest renewal priorities.`),
		),
	}

	return mcp.NewGetPromptResult(
		"Certificate Expiry Review",
		messages,
	), nil
}
