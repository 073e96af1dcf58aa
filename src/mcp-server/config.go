// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/ctscout/ct-cert-search/src/mcp-server/templates"
)

// ConfigFileEnv names the environment variable that points at the
// configuration file when no path is passed explicitly.
const ConfigFileEnv = "MCP_CTSEARCH_CONFIG_FILE"

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config represents the MCP server configuration structure.
// It contains default settings for CT log search operations and the
// upstream service endpoint.
//
// The configuration can be loaded from a JSON or YAML file specified by the
// MCP_CTSEARCH_CONFIG_FILE environment variable, with defaults applied for any
// missing values. JSON files are additionally validated against the embedded
// configuration schema. Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Defaults: Default settings applied when tool calls omit parameters
	Defaults struct {
		// MatchMode: Match mode used when a call omits match_mode ("exact", "wildcard", "subdomain")
		MatchMode string `json:"matchMode" yaml:"matchMode"`
		// Limit: Record limit used when a call omits limit
		Limit int `json:"limit" yaml:"limit"`
		// Timeout: Default timeout in seconds for operations
		Timeout int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	} `json:"defaults" yaml:"defaults"`

	// Source: Upstream CT log search service settings
	Source struct {
		// BaseURL: Service root (defaults to the public crt.sh instance; can also be set via CTSEARCH_SOURCE_URL)
		BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
		// UserAgent: Override for the User-Agent header sent upstream
		UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	} `json:"source" yaml:"source"`

	// REST: Settings for the HTTP transport
	REST struct {
		// Addr: Listen address, e.g. ":8080"
		Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
		// CORSOrigin: Value for the Access-Control-Allow-Origin header
		CORSOrigin string `json:"corsOrigin,omitempty" yaml:"corsOrigin,omitempty"`
	} `json:"rest" yaml:"rest"`
}

// detectConfigFormat determines the configuration file format based on file extension.
// It supports .json, .yaml, and .yml extensions for flexible configuration management.
//
// Parameters:
//   - configPath: Path to the configuration file
//
// Returns:
//   - configFormat: The detected format (configFormatJSON or configFormatYAML)
//
// The function uses case-insensitive extension matching for cross-platform compatibility.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// validateConfigSchema validates raw JSON configuration data against the
// embedded configuration schema.
//
// Parameters:
//   - data: Raw JSON configuration file contents
//
// Returns:
//   - error: Validation error listing every schema violation, or nil
//
// Only JSON configurations are schema-validated; YAML configurations rely on
// strict struct unmarshaling.
func validateConfigSchema(data []byte) error {
	schemaBytes, err := templates.MagicEmbed.ReadFile("config-schema.json")
	if err != nil {
		return fmt.Errorf("failed to read config schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	if !result.Valid() {
		var b strings.Builder
		for _, desc := range result.Errors() {
			fmt.Fprintf(&b, "\n  - %s", desc)
		}
		return fmt.Errorf("invalid config:%s", b.String())
	}
	return nil
}

// unmarshalConfig unmarshals configuration data based on the specified format.
// It supports both JSON and YAML formats for configuration flexibility.
//
// Parameters:
//   - data: Raw configuration file contents
//   - config: Pointer to Config struct to populate
//   - format: The configuration format (configFormatJSON or configFormatYAML)
//
// Returns:
//   - error: Any parsing or schema validation error encountered
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := validateConfigSchema(data); err != nil {
			return err
		}
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// loadConfig loads MCP server configuration from a JSON or YAML file or applies defaults.
//
// Parameters:
//   - configPath: Path to the configuration file (optional, can be empty)
//     Supported formats: .json, .yaml, .yml
//
// Returns:
//   - A pointer to the loaded Config struct with defaults applied
//   - An error if the configuration file cannot be read, parsed, or validated
//
// Configuration Priority:
//  1. Default values are set
//  2. MCP_CTSEARCH_CONFIG_FILE environment variable is checked if configPath is empty
//  3. Config file values override defaults (if file exists and is valid)
//  4. Environment variables override config file values (CTSEARCH_SOURCE_URL)
func loadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// Set defaults
	config.Defaults.MatchMode = "exact"
	config.Defaults.Limit = 100
	config.Defaults.Timeout = 30
	config.REST.Addr = ":8080"
	config.REST.CORSOrigin = "*"

	// Check environment variable for config file path if not provided
	if configPath == "" {
		configPath = os.Getenv(ConfigFileEnv)
	}

	// Try to load from file if path is provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Detect format and unmarshal accordingly
		format := detectConfigFormat(configPath)
		if err := unmarshalConfig(data, config, format); err != nil {
			return nil, err
		}

		// Validate and set defaults for invalid values
		if config.Defaults.MatchMode == "" {
			config.Defaults.MatchMode = "exact"
		}
		if config.Defaults.Limit <= 0 {
			config.Defaults.Limit = 100
		}
		if config.Defaults.Timeout <= 0 {
			config.Defaults.Timeout = 30
		}
		if config.REST.Addr == "" {
			config.REST.Addr = ":8080"
		}
	}

	// Override source URL from environment if set
	if url := os.Getenv("CTSEARCH_SOURCE_URL"); url != "" {
		config.Source.BaseURL = url
	}

	return config, nil
}
