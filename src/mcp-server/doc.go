// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server for [Certificate Transparency] log search.
// It implements the Model Context Protocol ([MCP]) server with tools for searching
// CT logs by domain, fetching raw record details, and analyzing a domain's issued
// certificates. The package uses a builder pattern for server construction and an
// in-memory transport bridge for agent SDK integration.
//
// [Certificate Transparency]: https://certificate.transparency.dev
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
