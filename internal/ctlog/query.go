// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ctlog

import "fmt"

// MatchMode selects how a domain is transformed into a search pattern.
type MatchMode string

const (
	// MatchExact searches for the domain itself, unchanged.
	MatchExact MatchMode = "exact"
	// MatchWildcard searches for the domain and its subdomains using the
	// source's SQL-LIKE pattern syntax.
	MatchWildcard MatchMode = "wildcard"
	// MatchSubdomain searches for subdomains of the domain.
	//
	// The pattern produced is currently identical to MatchWildcard even
	// though the two modes are documented differently upstream. The
	// duplicate is deliberate; do not diverge the patterns without
	// clarified product intent.
	MatchSubdomain MatchMode = "subdomain"
)

// ParseMatchMode converts a string into a MatchMode. The empty string
// defaults to MatchExact. Unrecognized values are rejected with an
// *InvalidInputError.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "":
		return MatchExact, nil
	case MatchExact, MatchWildcard, MatchSubdomain:
		return MatchMode(s), nil
	default:
		return "", &InvalidInputError{
			Field:  "match_mode",
			Reason: fmt.Sprintf("unrecognized match mode %q (want exact, wildcard, or subdomain)", s),
		}
	}
}

// BuildSearchPattern derives the external source's query pattern from a raw
// domain and a match mode.
//
// No validation of domain is performed locally; an empty or malformed domain
// is passed through, deferring rejection to the external source or to the
// caller layer.
func BuildSearchPattern(domain string, mode MatchMode) string {
	switch mode {
	case MatchWildcard, MatchSubdomain:
		return "%." + domain
	default:
		return domain
	}
}
