// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ctscout/ct-cert-search/internal/analysis"
	"github.com/ctscout/ct-cert-search/internal/ctlog"
	"github.com/ctscout/ct-cert-search/src/version"
)

var appVersion = version.Version // default version

// GetVersion returns the current version of the MCP server.
//
// GetVersion provides access to the server's version string, which is set
// during server initialization via the Run function. This allows other
// components to access the version information for logging, user-agent
// strings, or API responses.
//
// Returns:
//   - string: The current server version (e.g., "0.3.1")
func GetVersion() string {
	return appVersion
}

// Run starts the MCP server with CT certificate search tools.
//
// Run initializes and starts the MCP server with all certificate search
// capabilities: CT log search, record detail retrieval, domain analysis,
// and resource usage reporting. The server supports graceful shutdown.
//
// Parameters:
//   - version: Version string to set for the server (e.g., "0.3.1")
//
// Returns:
//   - error: Server startup or runtime error, or graceful shutdown signal
//
// Configuration:
//   - Loads config from MCP_CTSEARCH_CONFIG_FILE environment variable
//   - Falls back to default config if environment variable not set
//
// Server Lifecycle:
//  1. Load configuration from environment
//  2. Build the search engine against the configured CT log service
//  3. Set up signal handling for graceful shutdown
//  4. Build MCP server using ServerBuilder pattern
//  5. Start stdio server with context cancellation support
//  6. Wait for either server error or shutdown signal
//
// Graceful Shutdown:
//   - Responds to SIGINT (Ctrl+C) and SIGTERM signals
//   - Cancels context and waits for the server to stop cleanly
//   - Returns context.Canceled error on signal-based shutdown
func Run(version string) error {
	// Set the version for GetVersion
	appVersion = version

	// Load configuration
	config, err := loadConfig(os.Getenv(ConfigFileEnv))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Build the search engine against the configured CT log service
	source := ctlog.NewHTTPSource(config.Source.BaseURL, version)
	if config.Source.UserAgent != "" {
		source.HTTPConfig.UserAgent = config.Source.UserAgent
	}
	engine := ctlog.NewEngine(source)
	analyzer := analysis.NewAnalyzer()

	// Create tools (called once and reused)
	tools, toolsWithConfig := createTools(engine, analyzer)

	// Load server instructions with tool information
	//
	// Rendered from the embedded template so the instructions always match
	// the registered tools instead of hardcoded names
	instructions, err := loadInstructions(tools, toolsWithConfig)
	if err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create MCP server using ServerBuilder for better testability
	s, err := NewServerBuilder().
		WithConfig(config).
		WithVersion(version).
		WithSearcher(engine).
		WithAnalyzer(analyzer).
		WithTools(tools...).
		WithToolsWithConfig(toolsWithConfig...).
		WithResources(createResources()...).
		WithPrompts(createPrompts()...).
		WithInstructions(instructions).
		WithPopulate().
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	// Create stdio server to connect with our context
	stdioServer := server.NewStdioServer(s)

	// Start server with graceful shutdown support
	errChan := make(chan error, 1)
	go func() {
		errChan <- stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		// Graceful shutdown triggered by signal
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}
