// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"embed"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ctscout/ct-cert-search/internal/analysis"
	"github.com/ctscout/ct-cert-search/internal/ctlog"
)

// ServerName is the MCP server name advertised to clients.
const ServerName = "CT Certificate Search"

// Searcher defines the certificate search operations the MCP tools depend on.
// It is satisfied by [ctlog.Engine] and stubbed in tests.
//
// Methods:
//   - Search: Looks up CT log records for a domain with a match mode and limit
//   - GetDetail: Fetches the raw detail text for one record by identifier
type Searcher interface {
	Search(ctx context.Context, domain string, mode ctlog.MatchMode, limit int) (*ctlog.SearchResult, error)
	GetDetail(ctx context.Context, certID int64) (string, error)
}

// ToolHandler defines the signature for tool handlers that matches [MCP] server expectations.
// It processes tool calls and returns results.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP tool call request containing arguments and metadata
//
// Returns:
//   - The tool execution result or an error if the tool failed
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ToolHandlerWithConfig defines tool handlers that require access to server configuration.
// It extends ToolHandler to include a Config parameter for tools whose defaults
// (match mode, limit, timeout) come from configuration.
type ToolHandlerWithConfig func(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error)

// ResourceHandler defines the signature for resource handlers that provide static or dynamic resources.
type ResourceHandler = func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)

// PromptHandler defines the signature for prompt handlers that provide predefined prompts.
type PromptHandler = func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error)

// ToolDefinition holds a tool definition and its handler.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic
//   - Role: Stable role name used by the instructions template to reference the tool
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
	Role    string
}

// ToolDefinitionWithConfig holds a tool definition that requires configuration access.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic with config access
//   - Role: Stable role name used by the instructions template to reference the tool
type ToolDefinitionWithConfig struct {
	Tool    mcp.Tool
	Handler ToolHandlerWithConfig
	Role    string
}

// ServerDependencies holds all dependencies needed to create the MCP server.
// It consolidates all required components for server initialization using the builder pattern.
//
// This struct is used internally by ServerBuilder and should not be instantiated directly.
type ServerDependencies struct {
	Config          *Config
	Embed           embed.FS
	Version         string
	Searcher        Searcher
	Analyzer        *analysis.Analyzer
	Tools           []ToolDefinition
	ToolsWithConfig []ToolDefinitionWithConfig
	Resources       []server.ServerResource
	Prompts         []server.ServerPrompt
	Instructions    string
}

// ServerBuilder helps construct the [MCP] server with proper dependencies using a fluent interface.
//
// The builder allows chaining configuration methods and provides default implementations
// for common dependencies. Use NewServerBuilder() to create an instance, chain configuration
// methods, and call Build() to create the server.
//
// Example:
//
//	builder := NewServerBuilder().
//	    WithConfig(config).
//	    WithVersion("1.0.0").
//	    WithSearcher(engine).
//	    WithDefaultTools()
//	server, err := builder.Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct {
	deps         ServerDependencies
	defaultTools bool
	populate     bool
}

// NewServerBuilder creates a new server builder with default empty dependencies.
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the server configuration.
//
// Parameters:
//   - config: Pointer to the server configuration (can be nil for basic functionality)
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithConfig(config *Config) *ServerBuilder {
	b.deps.Config = config
	return b
}

// WithEmbed sets the embedded filesystem for static resources and templates.
//
// Parameters:
//   - embed: The embedded filesystem (typically from //go:embed directives)
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithEmbed(embed embed.FS) *ServerBuilder {
	b.deps.Embed = embed
	return b
}

// WithVersion sets the server version string used for identification and User-Agent headers.
//
// Parameters:
//   - version: The server version string (e.g., "1.0.0" or "v1.2.3")
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithSearcher sets the certificate search engine the tools delegate to.
//
// Parameters:
//   - s: The Searcher implementation, typically a [ctlog.Engine]
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// If not set, WithDefaultTools builds an engine against the configured or
// default CT log search service.
func (b *ServerBuilder) WithSearcher(s Searcher) *ServerBuilder {
	b.deps.Searcher = s
	return b
}

// WithAnalyzer sets the analyzer used by the analysis tool.
//
// Parameters:
//   - a: The analyzer instance
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithAnalyzer(a *analysis.Analyzer) *ServerBuilder {
	b.deps.Analyzer = a
	return b
}

// WithTools adds tool definitions to the server that don't require configuration access.
//
// Parameters:
//   - tools: Variable number of ToolDefinition structs containing tool specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithToolsWithConfig adds tool definitions that require configuration access to the server.
//
// Parameters:
//   - tools: Variable number of ToolDefinitionWithConfig structs containing tool specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithToolsWithConfig(tools ...ToolDefinitionWithConfig) *ServerBuilder {
	b.deps.ToolsWithConfig = append(b.deps.ToolsWithConfig, tools...)
	return b
}

// WithResources adds static and dynamic resources to the MCP server.
//
// Parameters:
//   - resources: Variable number of server.ServerResource structs containing resource specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Clients access resources using URIs like "info://version".
func (b *ServerBuilder) WithResources(resources ...server.ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithPrompts adds predefined prompts to the MCP server for guided workflows.
//
// Parameters:
//   - prompts: Variable number of server.ServerPrompt structs containing prompt specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithPrompts(prompts ...server.ServerPrompt) *ServerBuilder {
	b.deps.Prompts = append(b.deps.Prompts, prompts...)
	return b
}

// WithInstructions sets the server instructions advertised to MCP clients
// during initialization.
//
// Parameters:
//   - instructions: Rendered instruction text, typically from loadInstructions
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// WithDefaultTools adds the default CT certificate search tools to the server.
// The tools are created during Build() so they pick up the searcher and
// analyzer configured on the builder.
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// This includes tools for CT log search, record detail retrieval, domain
// certificate analysis, and resource usage reporting.
func (b *ServerBuilder) WithDefaultTools() *ServerBuilder {
	b.defaultTools = true
	return b
}

// WithPopulate enables capability metadata caching during Build().
// The cached metadata backs the info://version and status://server-status
// resources so they reflect what the server actually registered.
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithPopulate() *ServerBuilder {
	b.populate = true
	return b
}

// Build creates the [MCP] server with all configured dependencies.
//
// Returns:
//   - A pointer to the configured MCPServer instance
//   - An error if the configuration is invalid or server creation fails
//
// The method fills in a default searcher and analyzer where needed, registers
// all tools, resources, and prompts, and returns a ready-to-use server.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	if b.deps.Searcher == nil {
		baseURL := ""
		if b.deps.Config != nil {
			baseURL = b.deps.Config.Source.BaseURL
		}
		source := ctlog.NewHTTPSource(baseURL, b.deps.Version)
		if b.deps.Config != nil && b.deps.Config.Source.UserAgent != "" {
			source.HTTPConfig.UserAgent = b.deps.Config.Source.UserAgent
		}
		b.deps.Searcher = ctlog.NewEngine(source)
	}
	if b.deps.Analyzer == nil {
		b.deps.Analyzer = analysis.NewAnalyzer()
	}
	if b.defaultTools {
		tools, toolsWithConfig := createTools(b.deps.Searcher, b.deps.Analyzer)
		b.deps.Tools = append(b.deps.Tools, tools...)
		b.deps.ToolsWithConfig = append(b.deps.ToolsWithConfig, toolsWithConfig...)
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	}
	if b.deps.Instructions != "" {
		opts = append(opts, server.WithInstructions(b.deps.Instructions))
	}

	s := server.NewMCPServer(ServerName, b.deps.Version, opts...)

	// Add tools
	for _, tool := range b.deps.Tools {
		s.AddTool(tool.Tool, tool.Handler)
	}

	// Add tools that need config (wrap the handler)
	for _, tool := range b.deps.ToolsWithConfig {
		handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return tool.Handler(ctx, request, b.deps.Config)
		}
		s.AddTool(tool.Tool, handler)
	}

	// Add resources
	for _, resource := range b.deps.Resources {
		s.AddResource(resource.Resource, resource.Handler)
	}

	// Add prompts
	for _, prompt := range b.deps.Prompts {
		s.AddPrompt(prompt.Prompt, prompt.Handler)
	}

	if b.populate {
		cache := getServerCache()
		populateToolMetadataCache(cache, b.deps.Tools, b.deps.ToolsWithConfig)
		populateResourceMetadataCache(cache, b.deps.Resources)
		populatePromptMetadataCache(cache, b.deps.Prompts)
	}

	return s, nil
}
