// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctscout/ct-cert-search/src/cli"
	"github.com/ctscout/ct-cert-search/src/logger"
)

const version = "1.3.3.7-testing"

const searchJSON = `[
  {"issuer_ca_id": 1, "issuer_name": "C=US, O=Example CA", "common_name": "example.com",
   "name_value": "example.com\nwww.example.com", "id": 101,
   "entry_timestamp": "2025-01-02T03:04:05", "not_before": "2025-01-01T00:00:00",
   "not_after": "2099-01-01T00:00:00", "serial_number": "0a1b2c"},
  {"issuer_ca_id": 2, "issuer_name": "C=US, O=Other CA", "common_name": "api.example.com",
   "name_value": "api.example.com", "id": 102,
   "entry_timestamp": "2024-06-01T00:00:00", "not_before": "2024-06-01T00:00:00",
   "not_after": "2024-09-01T00:00:00", "serial_number": "ff00ff"}
]`

// newCTLogStub serves crt.sh-shaped responses for both search and detail queries.
func newCTLogStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("d") != "" {
			w.Write([]byte("-----BEGIN CERTIFICATE-----\nstub\n-----END CERTIFICATE-----\n"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// runCLI executes the CLI with the given arguments and captures stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	oldArgs := os.Args
	os.Args = append([]string{"cmd"}, args...)
	t.Cleanup(func() { os.Args = oldArgs })

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	execErr := cli.Execute(context.Background(), version, logger.NewCLILogger())

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)

	return buf.String(), execErr
}

func TestExecute_Search(t *testing.T) {
	srv := newCTLogStub(t)

	out, err := runCLI(t, "search", "example.com", "--source", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, `Found 2 records for "example.com" (mode: exact)`)
	assert.Contains(t, out, "example.com")
	assert.Contains(t, out, "Example CA")
}

func TestExecute_SearchJSON(t *testing.T) {
	srv := newCTLogStub(t)

	out, err := runCLI(t, "search", "example.com", "--json", "--source", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, `"total": 2`)
	assert.Contains(t, out, `"match_mode": "exact"`)
}

func TestExecute_SearchInvalidMode(t *testing.T) {
	srv := newCTLogStub(t)

	_, err := runCLI(t, "search", "example.com", "--mode", "regex", "--source", srv.URL)
	assert.Error(t, err)
}

func TestExecute_SearchLimitOutOfRange(t *testing.T) {
	srv := newCTLogStub(t)

	_, err := runCLI(t, "search", "example.com", "--limit", "5000", "--source", srv.URL)
	assert.Error(t, err)
}

func TestExecute_Detail(t *testing.T) {
	srv := newCTLogStub(t)

	out, err := runCLI(t, "detail", "101", "--source", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN CERTIFICATE")
}

func TestExecute_DetailNonNumeric(t *testing.T) {
	srv := newCTLogStub(t)

	_, err := runCLI(t, "detail", "not-a-number", "--source", srv.URL)
	assert.Error(t, err)
}

func TestExecute_Analyze(t *testing.T) {
	srv := newCTLogStub(t)

	out, err := runCLI(t, "analyze", "example.com", "--source", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Certificate analysis for example.com")
	assert.Contains(t, out, "Records: 2 (valid: 1, expired: 1)")
}

func TestExecute_AnalyzeTable(t *testing.T) {
	srv := newCTLogStub(t)

	out, err := runCLI(t, "analyze", "example.com", "--table", "--source", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Example CA")
	assert.Contains(t, out, "Other CA")
}

func TestExecute_MissingArgs(t *testing.T) {
	_, err := runCLI(t, "search")
	assert.Error(t, err)
}
