// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates provides embedded filesystem access for MCP server template files.
// It offers a reusable abstraction for accessing the embedded markdown and JSON
// templates used throughout the MCP server: the server instructions, the CT log
// search documentation, and the configuration schema.
//
// The package provides thread-safe access to embedded files through the [EmbedFS]
// interface, with [MagicEmbed] serving as the default implementation for convenient
// template access.
//
// Example usage:
//
//	import "github.com/ctscout/ct-cert-search/src/mcp-server/templates"
//
//	// Read CT log search documentation
//	content, err := templates.MagicEmbed.ReadFile("certificate-search.md")
//	if err != nil {
//		return fmt.Errorf("failed to read search docs: %w", err)
//	}
package templates
