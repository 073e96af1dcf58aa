// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by terms
// of License Agreement, which you can find at LICENSE files.

//go:build adk

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	mcpserver "github.com/ctscout/ct-cert-search/src/mcp-server"
	mcptransport "github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/mcptoolset"
	"google.golang.org/genai"
)

// This example demonstrates how to use MCP tools with ADK for Certificate
// Transparency log searches. It creates an in-memory MCP server with the
// certificate search tools and integrates it with ADK.
//
// Prerequisites:
// - Set GOOGLE_API_KEY environment variable
// - ADK packages must be available (google.golang.org/adk/*)

func localMCPTransport(ctx context.Context) mcptransport.Transport {
	// Use the transport builder to create the MCP server and transport
	builder := mcpserver.NewTransportBuilder().
		WithVersion("1.0.0").
		WithDefaultTools()

	// Build in-memory transport that includes the server
	transport, err := builder.BuildInMemoryTransport(ctx)
	if err != nil {
		log.Fatalf("Failed to build MCP transport: %v", err)
	}

	return transport
}

// Example Output:
//
//	2025/12/12 01:24:19 Verifying MCP transport and tools...
//	2025/12/12 01:24:19 Available Tools (4):
//	2025/12/12 01:24:19 - analyze_domain_certificates: Analyze a domain's certificate footprint: issuers, unique identities, and validity
//	2025/12/12 01:24:19 - get_certificate_detail: Fetch the raw detail text for a single CT log record by certificate ID
//	2025/12/12 01:24:19 - get_resource_usage: Get current resource usage statistics including memory, GC, and CPU information
//	2025/12/12 01:24:19 - search_certificates: Search Certificate Transparency logs for certificates issued to a domain
//	2025/12/12 01:24:19 Transport verification successful.
//	2025/12/12 01:24:19 Initializing ADK toolset...
//	2025/12/12 01:24:19 CT search MCP transport created and connected successfully
//	2025/12/12 01:24:19 MCP tool set initialized with transport
func main() {
	// Create context that cancels on interrupt signal (Ctrl+C)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Check for required environment variables
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		log.Fatal("GOOGLE_API_KEY environment variable must be set")
	}

	// 1. Verify transport works by listing tools using official SDK client
	log.Println("Verifying MCP transport and tools...")
	verifyTransport(ctx)

	// 2. Initialize ADK toolset with a fresh transport
	log.Println("Initializing ADK toolset...")
	transport := localMCPTransport(ctx)

	// Create MCP tool set
	mcpToolSet, err := mcptoolset.New(mcptoolset.Config{
		Transport: transport,
	})
	if err != nil {
		log.Fatalf("Failed to create MCP tool set: %v", err)
	}

	log.Printf("CT search MCP transport created and connected successfully")
	log.Printf("MCP tool set initialized with transport")

	// 3. Create Gemini model
	// Note: This requires GOOGLE_API_KEY to be valid for Gemini API.
	// To use other providers, implement a custom model wrapper similar to
	// the Gemini implementation; ADK supports integration with other providers.
	model, err := gemini.NewModel(ctx, "gemini-2.5-flash", &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		log.Fatalf("Failed to create model: %v", err)
	}

	// 4. Create Agent
	a, err := llmagent.New(llmagent.Config{
		Name:        "ct_search_agent",
		Model:       model,
		Description: "Agent for searching and analyzing Certificate Transparency logs.",
		Instruction: "You are a helpful assistant that helps users discover and analyze certificates issued for their domains. Use the available tools to answer questions. When asked about tools, list them.",
		Toolsets:    []tool.Toolset{mcpToolSet},
	})
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	// 5. Create Session Service and Runner
	sessionSvc := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        "adk-go-example",
		Agent:          a,
		SessionService: sessionSvc,
	})
	if err != nil {
		log.Fatalf("Failed to create runner: %v", err)
	}

	// Create a session
	sessResp, err := sessionSvc.Create(ctx, &session.CreateRequest{
		AppName: "adk-go-example",
		UserID:  "test-user",
	})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	sessionID := sessResp.Session.ID()
	log.Printf("Created session: %s", sessionID)

	// 6. Run a test query
	// Asking it to list tools verifies the toolset works without needing real CT log traffic
	prompt := "What tools are available to you for certificate transparency searches?"
	log.Printf("Running agent with prompt: %q", prompt)

	userMsg := genai.NewContentFromText(prompt, "user")

	// Use streaming mode
	runConfig := agent.RunConfig{
		StreamingMode: agent.StreamingModeSSE,
	}

	log.Println("--- Agent Response ---")
	for event, err := range r.Run(ctx, "test-user", sessionID, userMsg, runConfig) {
		if err != nil {
			log.Printf("\nAgent error: %v", err)
			break // Stop on error
		}

		if event.LLMResponse.Partial {
			// Handle partial (streaming) response
			if event.LLMResponse.Content != nil {
				for _, part := range event.LLMResponse.Content.Parts {
					fmt.Print(part.Text)
				}
			}
		}
	}
	fmt.Println("\n----------------------")
	log.Println("Agent execution completed")
}

func verifyTransport(ctx context.Context) {
	transport := localMCPTransport(ctx)

	client := mcptransport.NewClient(&mcptransport.Implementation{
		Name:    "verifier",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Verification failed: connect: %v", err)
	}
	defer session.Close()

	listParams := mcptransport.ListToolsParams{}
	result, err := session.ListTools(ctx, &listParams)
	if err != nil {
		log.Fatalf("Verification failed: list tools: %v", err)
	}

	log.Printf("Available Tools (%d):", len(result.Tools))
	for _, tool := range result.Tools {
		log.Printf("- %s: %s", tool.Name, tool.Description)
	}
	log.Println("Transport verification successful.")
}
