// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package analysis summarizes CT log search results into aggregate reports:
// issuer distribution, unique domain inventory, and validity classification.
//
// The package works entirely on the record metadata returned by the search
// engine. It never parses certificate bodies and never fails on malformed
// input; records it cannot interpret are counted conservatively so a report
// is always produced.
package analysis
