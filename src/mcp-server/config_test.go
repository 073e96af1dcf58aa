// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "exact", config.Defaults.MatchMode)
	assert.Equal(t, 100, config.Defaults.Limit)
	assert.Equal(t, 30, config.Defaults.Timeout)
	assert.Equal(t, ":8080", config.REST.Addr)
	assert.Empty(t, config.Source.BaseURL)
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{
		"defaults": {"matchMode": "subdomain", "limit": 250, "timeoutSeconds": 10},
		"source": {"baseURL": "https://ct.example.org"}
	}`)

	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "subdomain", config.Defaults.MatchMode)
	assert.Equal(t, 250, config.Defaults.Limit)
	assert.Equal(t, 10, config.Defaults.Timeout)
	assert.Equal(t, "https://ct.example.org", config.Source.BaseURL)
}

func TestLoadConfigJSONSchemaViolation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown field", content: `{"defaults": {"warnDays": 30}}`},
		{name: "wrong type", content: `{"defaults": {"limit": "many"}}`},
		{name: "limit above cap", content: `{"defaults": {"limit": 5000}}`},
		{name: "bad match mode", content: `{"defaults": {"matchMode": "fuzzy"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, "config.json", tt.content)
			_, err := loadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
defaults:
  matchMode: wildcard
  limit: 50
source:
  userAgent: custom-agent/1
rest:
  addr: ":9090"
`)

	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "wildcard", config.Defaults.MatchMode)
	assert.Equal(t, 50, config.Defaults.Limit)
	assert.Equal(t, 30, config.Defaults.Timeout, "missing timeout falls back to default")
	assert.Equal(t, "custom-agent/1", config.Source.UserAgent)
	assert.Equal(t, ":9090", config.REST.Addr)
}

func TestLoadConfigEnvFile(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{"defaults": {"limit": 7}}`)
	t.Setenv(ConfigFileEnv, path)

	config, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7, config.Defaults.Limit)
}

func TestLoadConfigSourceURLOverride(t *testing.T) {
	t.Setenv("CTSEARCH_SOURCE_URL", "https://ct.override.example")

	config, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://ct.override.example", config.Source.BaseURL)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestDetectConfigFormat(t *testing.T) {
	assert.Equal(t, configFormatYAML, detectConfigFormat("a.yaml"))
	assert.Equal(t, configFormatYAML, detectConfigFormat("a.YML"))
	assert.Equal(t, configFormatJSON, detectConfigFormat("a.json"))
	assert.Equal(t, configFormatJSON, detectConfigFormat("a.conf"))
}
