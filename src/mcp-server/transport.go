// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	mcptransport "github.com/modelcontextprotocol/go-sdk/mcp"

	jsonrpcInternal "github.com/ctscout/ct-cert-search/internal/helper/jsonrpc"
)

// jsonRPCError represents a JSON-RPC 2.0 error object
type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// jsonRPCResponse represents a JSON-RPC 2.0 response object
type jsonRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      any           `json:"id"`
	Result  any           `json:"result,omitempty"`
	Error   *jsonRPCError `json:"error,omitempty"`
}

// maxConcurrentRequests bounds how many bridged requests run at once.
const maxConcurrentRequests = 100

// InMemoryTransport implements the ADK SDK mcp.Transport interface.
// It bridges between [Official MCP SDK] transport expectations and a
// [mark3labs/mcp-go] in-process client connected to this server.
//
// [mark3labs/mcp-go]: https://pkg.go.dev/github.com/mark3labs/mcp-go
// [Official MCP SDK]: https://pkg.go.dev/github.com/modelcontextprotocol/go-sdk
type InMemoryTransport struct {
	client     *client.Client // mark3labs in-process client
	started    bool
	mu         sync.Mutex
	recvCh     chan []byte // channel for receiving messages (ReadMessage)
	sendCh     chan []byte // channel for sending messages (WriteMessage)
	ctx        context.Context
	cancel     context.CancelFunc
	sem        chan struct{}  // semaphore bounding concurrent dispatches
	shutdownWg sync.WaitGroup // waits for in-flight dispatches
	processWg  sync.WaitGroup // waits for the processing loop
}

// NewInMemoryTransport creates a new in-memory transport that implements mcp.Transport.
// This is designed to work with ADK's [mcptoolset.New] expectations.
func NewInMemoryTransport(ctx context.Context) *InMemoryTransport {
	ctx, cancel := context.WithCancel(ctx)
	return &InMemoryTransport{
		recvCh: make(chan []byte, 1),
		sendCh: make(chan []byte, 1),
		ctx:    ctx,
		cancel: cancel,
		sem:    make(chan struct{}, maxConcurrentRequests),
	}
}

// SendJSONRPCNotification sends a JSON-RPC notification to the receive channel.
// This is useful for streaming progress or other server-initiated events.
func (t *InMemoryTransport) SendJSONRPCNotification(method string, params any) {
	t.sendResponse(map[string]any{
		"jsonrpc": mcp.JSONRPC_VERSION,
		"method":  method,
		"params":  params,
	})
}

// ReadMessage implements [mcp.Transport.ReadMessage].
// It blocks until a message is available or the context is cancelled.
func (t *InMemoryTransport) ReadMessage() ([]byte, error) {
	select {
	case msg := <-t.recvCh:
		return msg, nil
	case <-t.ctx.Done():
		return nil, io.EOF
	}
}

// WriteMessage implements [mcp.Transport.WriteMessage].
func (t *InMemoryTransport) WriteMessage(data []byte) error {
	if err := t.ctx.Err(); err != nil {
		return err
	}
	select {
	case t.sendCh <- data:
		return nil
	case <-t.ctx.Done():
		return t.ctx.Err()
	}
}

// Close implements mcp.Transport.Close()
func (t *InMemoryTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	// No new dispatches after the loop stops; then drain in-flight ones
	t.processWg.Wait()
	t.shutdownWg.Wait()

	// Channels stay open; context cancellation unblocks any readers
	t.started = false
	return nil
}

// Connect implements the ADK SDK mcp.Transport interface.
func (t *InMemoryTransport) Connect(ctx context.Context) (mcptransport.Connection, error) {
	return &ADKTransportConnection{transport: t}, nil
}

// ConnectServer connects a mark3labs MCP server to this transport using an in-process client.
//
// This enables direct in-memory communication without process overhead, making it ideal
// for embedding the server in agent integration scenarios (like Google ADK). Server
// notifications are forwarded across the bridge so streaming features keep working.
func (t *InMemoryTransport) ConnectServer(ctx context.Context, srv *server.MCPServer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return fmt.Errorf("transport already connected")
	}

	c, err := client.NewInProcessClient(srv)
	if err != nil {
		return fmt.Errorf("failed to create in-process client: %w", err)
	}
	t.client = c

	// Forward server-initiated notifications to the ADK side
	t.client.OnNotification(func(n mcp.JSONRPCNotification) {
		t.sendResponse(map[string]any{
			"jsonrpc": mcp.JSONRPC_VERSION,
			"method":  n.Method,
			"params":  n.Params,
		})
	})

	if err := t.client.Start(t.ctx); err != nil {
		return fmt.Errorf("failed to start client: %w", err)
	}

	t.processWg.Add(1)
	go t.processMessages()

	t.started = true
	return nil
}

// processMessages pumps JSON-RPC messages from the ADK side into the
// in-process client, running each request in its own goroutine so slow
// tool calls don't block notifications or concurrent requests.
func (t *InMemoryTransport) processMessages() {
	defer t.processWg.Done()

	for {
		select {
		case <-t.ctx.Done():
			return
		case data := <-t.sendCh:
			select {
			case t.sem <- struct{}{}:
				t.shutdownWg.Add(1)
				go func(data []byte) {
					defer func() {
						<-t.sem
						t.shutdownWg.Done()
					}()
					t.handleMessage(data)
				}(data)
			case <-t.ctx.Done():
				return
			}
		}
	}
}

// handleMessage decodes one JSON-RPC message, dispatches it to the in-process
// client, and sends back a response when the message was a request.
func (t *InMemoryTransport) handleMessage(data []byte) {
	var req map[string]any
	if err := json.Unmarshal(data, &req); err != nil {
		t.sendResponse(jsonRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      nil,
			Error:   &jsonRPCError{Code: -32700, Message: "Parse error"},
		})
		return
	}

	// Normalize request keys to handle both lowercase and capitalized forms
	normalizedReq := jsonrpcInternal.Map(req)
	id := normalizedReq["id"]

	method, ok := normalizedReq["method"].(string)
	if !ok {
		if id != nil {
			t.sendResponse(jsonRPCResponse{
				JSONRPC: mcp.JSONRPC_VERSION,
				ID:      id,
				Error: &jsonRPCError{
					Code:    -32600,
					Message: fmt.Sprintf("invalid method: expected string, got %T", normalizedReq["method"]),
				},
			})
		}
		return
	}

	// This notification needs no action in the bridge
	if method == "notifications/initialized" {
		return
	}

	result, err := t.dispatch(method, normalizedReq)

	// JSON-RPC 2.0: a notification (no ID) never gets a response
	if id == nil {
		return
	}

	resp := jsonRPCResponse{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      id,
	}
	if err != nil {
		code := -32603
		if strings.Contains(err.Error(), "invalid params") || strings.Contains(err.Error(), "missing params") {
			code = -32602
		}
		resp.Error = &jsonRPCError{Code: code, Message: err.Error()}
	} else {
		resp.Result = result
	}
	t.sendResponse(resp)
}

// dispatch routes one JSON-RPC method to the corresponding in-process client call.
func (t *InMemoryTransport) dispatch(method string, req map[string]any) (any, error) {
	if t.client == nil {
		return nil, fmt.Errorf("transport not connected")
	}

	switch method {
	case string(mcp.MethodInitialize):
		return t.dispatchInitialize(req)

	case string(mcp.MethodPing):
		if err := t.client.Ping(t.ctx); err != nil {
			return nil, err
		}
		return map[string]any{}, nil

	case string(mcp.MethodToolsList):
		return t.client.ListTools(t.ctx, mcp.ListToolsRequest{})

	case string(mcp.MethodToolsCall):
		return t.dispatchToolCall(req)

	case string(mcp.MethodResourcesList):
		listReq := mcp.ListResourcesRequest{}
		if cursor, err := t.cursorParam(req, method); err == nil {
			listReq.Params.Cursor = mcp.Cursor(cursor)
		}
		return t.client.ListResources(t.ctx, listReq)

	case string(mcp.MethodResourcesRead):
		params, err := getParams(req, method)
		if err != nil {
			return nil, err
		}
		uri, err := getStringParam(params, method, "uri")
		if err != nil {
			return nil, err
		}
		return t.client.ReadResource(t.ctx, mcp.ReadResourceRequest{
			Params: mcp.ReadResourceParams{URI: uri},
		})

	case string(mcp.MethodPromptsList):
		listReq := mcp.ListPromptsRequest{}
		if cursor, err := t.cursorParam(req, method); err == nil {
			listReq.Params.Cursor = mcp.Cursor(cursor)
		}
		return t.client.ListPrompts(t.ctx, listReq)

	case string(mcp.MethodPromptsGet):
		return t.dispatchPromptGet(req)

	default:
		return nil, fmt.Errorf("method not supported: %s", method)
	}
}

// dispatchInitialize bridges the initialize handshake, preserving the
// client's declared capabilities.
func (t *InMemoryTransport) dispatchInitialize(req map[string]any) (any, error) {
	params, err := getParams(req, string(mcp.MethodInitialize))
	if err != nil {
		return nil, err
	}
	protocolVersion, err := getStringParam(params, string(mcp.MethodInitialize), "protocolVersion")
	if err != nil {
		return nil, err
	}

	var capabilities mcp.ClientCapabilities
	if caps, ok := params["capabilities"]; ok {
		_ = jsonrpcInternal.UnmarshalFromMap(caps, &capabilities)
	}

	resp, err := t.client.Initialize(t.ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: protocolVersion,
			Capabilities:    capabilities,
		},
	})
	if err != nil {
		if mcp.IsUnsupportedProtocolVersion(err) {
			return nil, fmt.Errorf("unsupported protocol version: %w", err)
		}
		return nil, err
	}
	return resp, nil
}

// dispatchToolCall bridges a tools/call request.
func (t *InMemoryTransport) dispatchToolCall(req map[string]any) (any, error) {
	params, err := getParams(req, string(mcp.MethodToolsCall))
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(params, string(mcp.MethodToolsCall), "name")
	if err != nil {
		return nil, err
	}
	args, err := getMapParam(params, string(mcp.MethodToolsCall), "arguments")
	if err != nil {
		return nil, err
	}

	return t.client.CallTool(t.ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
}

// dispatchPromptGet bridges a prompts/get request, flattening arguments to strings.
func (t *InMemoryTransport) dispatchPromptGet(req map[string]any) (any, error) {
	params, err := getParams(req, string(mcp.MethodPromptsGet))
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(params, string(mcp.MethodPromptsGet), "name")
	if err != nil {
		return nil, err
	}

	var arguments map[string]string
	if args, ok := params["arguments"].(map[string]any); ok {
		arguments = make(map[string]string, len(args))
		for k, v := range args {
			arguments[k] = fmt.Sprint(v)
		}
	}

	return t.client.GetPrompt(t.ctx, mcp.GetPromptRequest{
		Params: mcp.GetPromptParams{Name: name, Arguments: arguments},
	})
}

// cursorParam extracts an optional pagination cursor from a list request.
func (t *InMemoryTransport) cursorParam(req map[string]any, method string) (string, error) {
	params, ok := req["params"].(map[string]any)
	if !ok {
		return "", nil
	}
	return getOptionalStringParam(params, method, "cursor")
}

// sendResponse sends a JSON-RPC response to the receive channel.
func (t *InMemoryTransport) sendResponse(resp any) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	select {
	case t.recvCh <- data:
	case <-t.ctx.Done():
		// Context cancelled, drop response
	}
}

// ADKTransportConnection wraps InMemoryTransport for the ADK SDK.
type ADKTransportConnection struct {
	transport *InMemoryTransport
}

// Read implements [mcptransport.Connection.Read].
func (c *ADKTransportConnection) Read(ctx context.Context) (jsonrpc.Message, error) {
	data, err := c.transport.ReadMessage()
	if err != nil {
		return nil, err
	}

	msg, err := jsonrpc.DecodeMessage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JSON-RPC message: %w", err)
	}
	return msg, nil
}

// Write implements mcptransport.Connection.Write.
func (c *ADKTransportConnection) Write(ctx context.Context, msg jsonrpc.Message) error {
	data, err := jsonrpc.EncodeMessage(msg)
	if err != nil {
		return err
	}
	return c.transport.WriteMessage(data)
}

// Close implements mcptransport.Connection.Close.
func (c *ADKTransportConnection) Close() error {
	return c.transport.Close()
}

// SessionID implements mcptransport.Connection.SessionID.
func (c *ADKTransportConnection) SessionID() string {
	return "in-memory-transport"
}

// TransportBuilder helps construct MCP transports for different integration scenarios.
//
// For in-memory scenarios it builds the MCP server and wires it to an
// InMemoryTransport, which integration layers (ADK, tests) consume directly.
type TransportBuilder struct {
	serverBuilder *ServerBuilder
}

// NewTransportBuilder creates a new transport builder.
func NewTransportBuilder() *TransportBuilder {
	return &TransportBuilder{serverBuilder: NewServerBuilder()}
}

// WithConfig sets the server configuration.
func (tb *TransportBuilder) WithConfig(config *Config) *TransportBuilder {
	tb.serverBuilder.WithConfig(config)
	return tb
}

// WithVersion sets the server version.
func (tb *TransportBuilder) WithVersion(version string) *TransportBuilder {
	tb.serverBuilder.WithVersion(version)
	return tb
}

// WithSearcher sets the certificate search engine.
func (tb *TransportBuilder) WithSearcher(s Searcher) *TransportBuilder {
	tb.serverBuilder.WithSearcher(s)
	return tb
}

// WithDefaultTools adds the default CT certificate search tools.
func (tb *TransportBuilder) WithDefaultTools() *TransportBuilder {
	tb.serverBuilder.WithDefaultTools()
	return tb
}

// BuildInMemoryTransport creates an in-memory MCP transport for ADK integration.
//
// This follows the ADK pattern where [mcp.NewInMemoryTransports] creates paired
// client and server transports; here the server side is a [mark3labs/mcp-go]
// in-process client, and the returned transport plugs into [mcptoolset.New].
//
// [mark3labs/mcp-go]: https://pkg.go.dev/github.com/mark3labs/mcp-go
func (tb *TransportBuilder) BuildInMemoryTransport(ctx context.Context) (*InMemoryTransport, error) {
	srv, err := tb.serverBuilder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build server: %w", err)
	}

	transport := NewInMemoryTransport(ctx)
	if err := transport.ConnectServer(ctx, srv); err != nil {
		return nil, fmt.Errorf("failed to connect server to transport: %w", err)
	}
	return transport, nil
}
