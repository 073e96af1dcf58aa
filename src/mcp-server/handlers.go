// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"maps"
	"strings"
	"sync"
	"text/template"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ctscout/ct-cert-search/src/mcp-server/templates"
)

// instructionData holds the data used to populate the MCP server instructions template.
type instructionData struct {
	Tools     []toolInfo
	ToolRoles map[string]string // Maps tool roles to tool names for template use
}

// toolInfo represents information about an MCP tool for template rendering.
type toolInfo struct {
	Name        string
	Description string
}

// loadInstructions parses the template with dynamic data from the provided tools and returns
// the rendered instructions as a string for MCP client initialization.
//
// Parameters:
//   - tools: Slice of tool definitions without config requirements
//   - toolsWithConfig: Slice of tool definitions that require configuration access
//
// Returns:
//   - string: The rendered instruction text describing server capabilities and tool usage
//   - error: If the embedded file cannot be read or template parsing fails
//
// The instructions give MCP clients guidance on the CT log search tools and
// the typical discovery and audit workflows built on them.
func loadInstructions(tools []ToolDefinition, toolsWithConfig []ToolDefinitionWithConfig) (string, error) {
	templateBytes, err := templates.MagicEmbed.ReadFile("ctsearch_instructions.md")
	if err != nil {
		return "", fmt.Errorf("failed to load MCP server instructions template: %w", err)
	}

	// Extract tool info and build role mappings for template
	var toolInfos []toolInfo
	toolRoles := make(map[string]string)

	for _, tool := range tools {
		toolName := string(tool.Tool.Name)
		toolInfos = append(toolInfos, toolInfo{
			Name:        toolName,
			Description: tool.Tool.Description,
		})
		if tool.Role != "" {
			toolRoles[tool.Role] = toolName
		}
	}

	for _, tool := range toolsWithConfig {
		toolName := string(tool.Tool.Name)
		toolInfos = append(toolInfos, toolInfo{
			Name:        toolName,
			Description: tool.Tool.Description,
		})
		if tool.Role != "" {
			toolRoles[tool.Role] = toolName
		}
	}

	data := instructionData{
		Tools:     toolInfos,
		ToolRoles: toolRoles,
	}

	tmpl, err := template.New("instructions").Parse(string(templateBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse instructions template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute instructions template: %w", err)
	}

	return buf.String(), nil
}

// Cache structure for server capabilities
type serverCache struct {
	prompts         []map[string]any
	tools           []map[string]any
	toolsWithConfig []map[string]any
	resources       []map[string]any
}

// Global cache instance with sync.Once for thread-safe lazy initialization
var (
	cache     *serverCache
	cacheOnce sync.Once
)

// getServerCache returns the lazily initialized server cache.
// Uses sync.Once to ensure initialization happens exactly once, even with concurrent access.
func getServerCache() *serverCache {
	cacheOnce.Do(func() {
		cache = &serverCache{
			// Populated through the populate*MetadataCache functions called
			// from the ServerBuilder's Build() method when WithPopulate() is used
		}
	})
	return cache
}

// loadPromptsConfig loads the prompts capability metadata from the cache.
func loadPromptsConfig() ([]map[string]any, error) {
	cache := getServerCache()
	return cache.prompts, nil
}

// toolsConfig holds the structured capability metadata for tools.
type toolsConfig struct {
	Tools           []map[string]any // Regular tools not requiring config
	ToolsWithConfig []map[string]any // Tools that require configuration access
	AllTools        []map[string]any // Merged list
}

// loadToolsConfig loads the tools capability metadata from the cache.
func loadToolsConfig() (*toolsConfig, error) {
	cache := getServerCache()
	return &toolsConfig{
		Tools:           cache.tools[:len(cache.tools)-len(cache.toolsWithConfig)],
		ToolsWithConfig: cache.toolsWithConfig,
		AllTools:        cache.tools,
	}, nil
}

// loadResourcesConfig loads the resources capability metadata from the cache.
func loadResourcesConfig() ([]map[string]any, error) {
	cache := getServerCache()
	return cache.resources, nil
}

// populateToolMetadataCache extracts metadata from created tools and caches it for resource handlers.
// It is called once during server initialization via the ServerBuilder's Build() method
// when WithPopulate() is used.
func populateToolMetadataCache(serverCache *serverCache, tools []ToolDefinition, toolsWithConfig []ToolDefinitionWithConfig) {
	serverCache.tools = make([]map[string]any, 0, len(tools))
	serverCache.toolsWithConfig = make([]map[string]any, 0, len(toolsWithConfig))

	for _, toolDef := range tools {
		serverCache.tools = append(serverCache.tools, map[string]any{
			"name":        toolDef.Tool.Name,
			"description": toolDef.Tool.Description,
		})
	}

	for _, toolDef := range toolsWithConfig {
		serverCache.toolsWithConfig = append(serverCache.toolsWithConfig, map[string]any{
			"name":        toolDef.Tool.Name,
			"description": toolDef.Tool.Description,
		})
	}

	// Merge so loadToolsConfig can expose the full list alongside the split views
	allTools := make([]map[string]any, 0, len(serverCache.tools)+len(serverCache.toolsWithConfig))
	allTools = append(allTools, serverCache.tools...)
	allTools = append(allTools, serverCache.toolsWithConfig...)
	serverCache.tools = allTools
}

// populatePromptMetadataCache extracts metadata from created prompts and caches it for resource handlers.
func populatePromptMetadataCache(serverCache *serverCache, prompts []server.ServerPrompt) {
	serverCache.prompts = make([]map[string]any, 0, len(prompts))

	for _, promptDef := range prompts {
		prompt := promptDef.Prompt
		metadata := map[string]any{
			"name":        prompt.Name,
			"description": prompt.Description,
		}

		if len(prompt.Arguments) > 0 {
			args := make([]map[string]any, 0, len(prompt.Arguments))
			for _, arg := range prompt.Arguments {
				args = append(args, map[string]any{
					"name":        arg.Name,
					"description": arg.Description,
					"required":    arg.Required,
				})
			}
			metadata["arguments"] = args
		}

		if prompt.Meta != nil {
			metaMap := make(map[string]any)
			maps.Copy(metaMap, prompt.Meta.AdditionalFields)
			// The MCP library may leave a null progressToken behind
			if progressToken, exists := metaMap["progressToken"]; exists {
				if progressToken == nil || progressToken == "" || progressToken == "null" {
					delete(metaMap, "progressToken")
				}
			}
			if len(metaMap) > 0 {
				metadata["meta"] = metaMap
			}
		}

		serverCache.prompts = append(serverCache.prompts, metadata)
	}
}

// populateResourceMetadataCache extracts metadata from created resources and caches it for resource handlers.
func populateResourceMetadataCache(serverCache *serverCache, resources []server.ServerResource) {
	serverCache.resources = make([]map[string]any, 0, len(resources))

	for _, resourceDef := range resources {
		resource := resourceDef.Resource
		metadata := map[string]any{
			"uri":         resource.URI,
			"name":        resource.Name,
			"description": resource.Description,
			"mimeType":    resource.MIMEType,
		}

		if resource.Meta != nil {
			metaMap := make(map[string]any)
			maps.Copy(metaMap, resource.Meta.AdditionalFields)
			if progressToken, exists := metaMap["progressToken"]; exists {
				if progressToken == nil || progressToken == "" || progressToken == "null" {
					delete(metaMap, "progressToken")
				}
			}
			if len(metaMap) > 0 {
				metadata["meta"] = metaMap
			}
		}

		serverCache.resources = append(serverCache.resources, metadata)
	}
}
