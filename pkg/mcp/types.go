// Package mcp provides core Model Context Protocol types and interfaces.
package mcp

import (
	"context"
)

// Constants for MCP protocol
const (
	ProtocolVersion = "2025-03-26"
	JSONRPCVersion  = "2.0"
)

// JSON-RPC 2.0 error codes
const (
	ErrorCodeParseError     = -32700
	ErrorCodeInvalidRequest = -32600
	ErrorCodeMethodNotFound = -32601
	ErrorCodeInvalidParams  = -32602
	ErrorCodeInternalError  = -32603
)

// Core MCP types
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities is the capability set advertised in the initialize response.
// Tool, resource and prompt lists never change at runtime.
func Capabilities() map[string]any {
	return map[string]any{
		"tools":     map[string]bool{"listChanged": false},
		"resources": map[string]bool{"listChanged": false},
		"prompts":   map[string]bool{"listChanged": false},
	}
}

type InitializeResponse struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
}

// JSON-RPC 2.0 message types
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      any    `json:"id"` // string or number, never null in MCP
	Params  any    `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Result  any            `json:"result,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Server defines the core MCP server interface.
type Server interface {
	// Initialize handles the MCP initialization handshake.
	Initialize(ctx context.Context) (*InitializeResponse, error)
	// HandleRequest processes a JSON-RPC request.
	HandleRequest(ctx context.Context, req Request) error
}

// ToolHandler lists and invokes tools.
type ToolHandler interface {
	// ListTools returns all available tools in registration order.
	ListTools(ctx context.Context) ([]Tool, error)
	// CallTool validates and executes an unvalidated tool call. A non-nil
	// error is always an *Error.
	CallTool(ctx context.Context, call ToolCall) (ToolResponse, error)
}

// ResourceHandler defines the interface for handling MCP resource operations.
type ResourceHandler interface {
	ListResources(ctx context.Context) ([]Resource, error)
	ReadResource(ctx context.Context, params ResourceParams) (ResourceResponse, error)
}

// PromptHandler defines the interface for handling MCP prompt operations.
type PromptHandler interface {
	ListPrompts(ctx context.Context) ([]Prompt, error)
	GetPrompt(ctx context.Context, params PromptParams) (PromptResponse, error)
}

// ResponseSender writes responses back to the client that sent the request.
type ResponseSender interface {
	SendResponse(response Response) error
	SendError(id any, code int, message string, data any) error
}

type contextKey string

const ResponseSenderKey contextKey = "responseSender"

// WithResponseSender returns a copy of ctx carrying rs.
func WithResponseSender(ctx context.Context, rs ResponseSender) context.Context {
	return context.WithValue(ctx, ResponseSenderKey, rs)
}

// ResponseSenderFrom returns the sender stored in ctx, if any.
func ResponseSenderFrom(ctx context.Context) (ResponseSender, bool) {
	rs, ok := ctx.Value(ResponseSenderKey).(ResponseSender)
	return rs, ok
}
