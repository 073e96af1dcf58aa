// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package jsonrpc provides helpers for normalizing JSON-RPC 2.0 payloads
// exchanged between the MCP server and transport bridges. External SDKs
// disagree on key casing and ID numeric types; these helpers convert
// payloads to one canonical form before dispatch.
package jsonrpc
