// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ctlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MatchMode
		wantErr bool
	}{
		{name: "exact", input: "exact", want: MatchExact},
		{name: "wildcard", input: "wildcard", want: MatchWildcard},
		{name: "subdomain", input: "subdomain", want: MatchSubdomain},
		{name: "empty defaults to exact", input: "", want: MatchExact},
		{name: "unknown mode", input: "fuzzy", wantErr: true},
		{name: "case sensitive", input: "Exact", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMatchMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var invErr *InvalidInputError
				assert.ErrorAs(t, err, &invErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSearchPattern(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		mode   MatchMode
		want   string
	}{
		{name: "exact passes domain through", domain: "example.com", mode: MatchExact, want: "example.com"},
		{name: "wildcard prefixes", domain: "example.com", mode: MatchWildcard, want: "%.example.com"},
		{name: "subdomain prefixes", domain: "example.com", mode: MatchSubdomain, want: "%.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSearchPattern(tt.domain, tt.mode))
		})
	}
}

func TestBuildSearchPatternWildcardSubdomainAgree(t *testing.T) {
	// Both prefix modes must produce the same pattern for the same input.
	for _, domain := range []string{"example.com", "a.b.example.org", "localhost"} {
		assert.Equal(t,
			BuildSearchPattern(domain, MatchWildcard),
			BuildSearchPattern(domain, MatchSubdomain),
			"domain %q", domain)
	}
}
