// Copyright (c) 2025 ctscout All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

// ct-cert-search is a command-line tool for searching Certificate
// Transparency logs by domain and analyzing the certificates found there.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/ctscout/ct-cert-search/cmd/ct-cert-search@latest
//
// # Usage
//
//	ct-cert-search COMMAND [FLAGS]
//
// # Commands
//
//	search DOMAIN    Search CT logs for certificates issued to a domain
//	detail CERT_ID   Fetch the raw detail text for one CT log record
//	analyze DOMAIN   Summarize a domain's certificates: issuers, identities, validity
//
// # Flags
//
//	-m, --mode    Match mode: exact, wildcard, or subdomain (default: exact;
//	              analyze defaults to subdomain)
//	-l, --limit   Maximum records to return, 1-1000 (default: 100)
//	    --json    Emit JSON output
//	-t, --table   Emit markdown table output
//	    --source  CT log search service URL (default: https://crt.sh)
//
// # Examples
//
// Search for certificates issued to a domain:
//
//	ct-cert-search search example.com
//
// Discover subdomains through issued certificates:
//
//	ct-cert-search search example.com --mode subdomain --limit 1000 --json
//
// Summarize a domain's certificate footprint:
//
//	ct-cert-search analyze example.com --table
//
// Fetch the raw record text for one certificate:
//
//	ct-cert-search detail 1234567890
package main
