// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the CT certificate search tool.
// It implements a Cobra-based CLI with subcommands for searching CT logs by domain,
// fetching raw record details, and analyzing a domain's certificates, with text,
// JSON, and markdown table output formats. The package handles context cancellation
// and integrates with the logger package for error reporting.
package cli
