// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package rest exposes the certificate search engine over HTTP. It mirrors
// the MCP tool surface as a small JSON API: search, record detail, and
// domain analysis, mounted under /api/v1.
package rest
