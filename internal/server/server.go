// Package server provides the internal MCP server implementation.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// Server implements the core MCP server logic
type Server struct {
	toolHandler     mcp.ToolHandler
	resourceHandler mcp.ResourceHandler
	promptHandler   mcp.PromptHandler
	serverInfo      mcp.ServerInfo
	logger          *slog.Logger
}

// New creates a new MCP server with the given handlers
func New(info mcp.ServerInfo, toolHandler mcp.ToolHandler, resourceHandler mcp.ResourceHandler, promptHandler mcp.PromptHandler, logger *slog.Logger) (*Server, error) {
	if toolHandler == nil {
		return nil, fmt.Errorf("toolHandler cannot be nil")
	}
	if resourceHandler == nil {
		return nil, fmt.Errorf("resourceHandler cannot be nil")
	}
	if promptHandler == nil {
		return nil, fmt.Errorf("promptHandler cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		toolHandler:     toolHandler,
		resourceHandler: resourceHandler,
		promptHandler:   promptHandler,
		serverInfo:      info,
		logger:          logger,
	}, nil
}

// Initialize handles the MCP initialization handshake
func (s *Server) Initialize(ctx context.Context) (*mcp.InitializeResponse, error) {
	return &mcp.InitializeResponse{
		ProtocolVersion: mcp.ProtocolVersion,
		Capabilities:    mcp.Capabilities(),
		ServerInfo:      s.serverInfo,
	}, nil
}

// HandleRequest processes a JSON-RPC request
func (s *Server) HandleRequest(ctx context.Context, req mcp.Request) error {
	s.logger.Debug("request received", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(ctx, req.ID)
	case "tools/list":
		return s.handleToolsList(ctx, req.ID)
	case "tools/call":
		return s.handleToolsCall(ctx, req.ID, req)
	case "resources/list":
		return s.handleResourcesList(ctx, req.ID)
	case "resources/read":
		return s.handleResourcesRead(ctx, req.ID, req)
	case "prompts/list":
		return s.handlePromptsList(ctx, req.ID)
	case "prompts/get":
		return s.handlePromptsGet(ctx, req.ID, req)
	case "ping":
		return s.handlePing(ctx, req.ID)
	default:
		return s.sendError(ctx, req.ID, mcp.ErrorCodeMethodNotFound, fmt.Sprintf("Method %s not found", req.Method), nil)
	}
}

func (s *Server) sendResponse(ctx context.Context, id any, result any) error {
	rs, ok := mcp.ResponseSenderFrom(ctx)
	if !ok {
		return fmt.Errorf("no response sender in context")
	}
	return rs.SendResponse(mcp.Response{
		JSONRPC: mcp.JSONRPCVersion,
		ID:      id,
		Result:  result,
	})
}

func (s *Server) sendError(ctx context.Context, id any, code int, message string, data any) error {
	rs, ok := mcp.ResponseSenderFrom(ctx)
	if !ok {
		return fmt.Errorf("no response sender in context")
	}
	return rs.SendError(id, code, message, data)
}

// sendFailure reports err with its own code when it is an *mcp.Error and as
// InternalError otherwise.
func (s *Server) sendFailure(ctx context.Context, id any, method string, err error) error {
	if e, ok := mcp.AsError(err); ok {
		s.logger.Warn("request failed", "method", method, "id", id, "code", mcp.ErrorCodeName(e.Code), "error", e.Message)
		return s.sendError(ctx, id, e.Code, e.Message, nil)
	}
	s.logger.Error("request failed", "method", method, "id", id, "error", err)
	return s.sendError(ctx, id, mcp.ErrorCodeInternalError, fmt.Sprintf("%s failed", method), err.Error())
}

func (s *Server) handleInitialize(ctx context.Context, id any) error {
	result, err := s.Initialize(ctx)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInternalError, "Failed to initialize", err.Error())
	}
	s.logger.Info("client initialized", "protocol", result.ProtocolVersion)
	return s.sendResponse(ctx, id, result)
}

func (s *Server) handleToolsList(ctx context.Context, id any) error {
	tools, err := s.toolHandler.ListTools(ctx)
	if err != nil {
		return s.sendFailure(ctx, id, "tools/list", err)
	}
	return s.sendResponse(ctx, id, map[string][]mcp.Tool{"tools": tools})
}

func (s *Server) handleToolsCall(ctx context.Context, id any, req mcp.Request) error {
	call, err := parseToolCall(req.Params)
	if err != nil {
		return s.sendFailure(ctx, id, "tools/call", err)
	}

	response, err := s.toolHandler.CallTool(ctx, call)
	if err != nil {
		return s.sendFailure(ctx, id, "tools/call", err)
	}
	return s.sendResponse(ctx, id, response)
}

func (s *Server) handleResourcesList(ctx context.Context, id any) error {
	resources, err := s.resourceHandler.ListResources(ctx)
	if err != nil {
		return s.sendFailure(ctx, id, "resources/list", err)
	}
	return s.sendResponse(ctx, id, map[string][]mcp.Resource{"resources": resources})
}

func (s *Server) handleResourcesRead(ctx context.Context, id any, req mcp.Request) error {
	params, err := parseResourceParams(req.Params)
	if err != nil {
		return s.sendFailure(ctx, id, "resources/read", err)
	}

	response, err := s.resourceHandler.ReadResource(ctx, params)
	if err != nil {
		return s.sendFailure(ctx, id, "resources/read", err)
	}
	return s.sendResponse(ctx, id, response)
}

func (s *Server) handlePromptsList(ctx context.Context, id any) error {
	prompts, err := s.promptHandler.ListPrompts(ctx)
	if err != nil {
		return s.sendFailure(ctx, id, "prompts/list", err)
	}
	return s.sendResponse(ctx, id, map[string][]mcp.Prompt{"prompts": prompts})
}

func (s *Server) handlePromptsGet(ctx context.Context, id any, req mcp.Request) error {
	params, err := parsePromptParams(req.Params)
	if err != nil {
		return s.sendFailure(ctx, id, "prompts/get", err)
	}

	response, err := s.promptHandler.GetPrompt(ctx, params)
	if err != nil {
		return s.sendFailure(ctx, id, "prompts/get", err)
	}
	return s.sendResponse(ctx, id, response)
}

func (s *Server) handlePing(ctx context.Context, id any) error {
	return s.sendResponse(ctx, id, map[string]any{})
}

func paramsObject(params any) (map[string]any, error) {
	if params == nil {
		return nil, mcp.InvalidParams("params cannot be nil")
	}
	m, ok := params.(map[string]any)
	if !ok {
		return nil, mcp.InvalidParams("params must be an object")
	}
	return m, nil
}

// parseToolCall only checks the envelope; name and arguments are validated
// by the tool handler.
func parseToolCall(params any) (mcp.ToolCall, error) {
	m, err := paramsObject(params)
	if err != nil {
		return mcp.ToolCall{}, err
	}
	return mcp.ToolCall{Name: m["name"], Arguments: m["arguments"]}, nil
}

func parseResourceParams(params any) (mcp.ResourceParams, error) {
	m, err := paramsObject(params)
	if err != nil {
		return mcp.ResourceParams{}, err
	}

	uri, ok := m["uri"].(string)
	if !ok {
		return mcp.ResourceParams{}, mcp.InvalidParams("uri parameter is required and must be a string")
	}

	return mcp.ResourceParams{URI: uri}, nil
}

func parsePromptParams(params any) (mcp.PromptParams, error) {
	m, err := paramsObject(params)
	if err != nil {
		return mcp.PromptParams{}, err
	}

	name, ok := m["name"].(string)
	if !ok {
		return mcp.PromptParams{}, mcp.InvalidParams("name parameter is required and must be a string")
	}

	args := make(map[string]any)
	if arguments, exists := m["arguments"]; exists && arguments != nil {
		argsMap, ok := arguments.(map[string]any)
		if !ok {
			return mcp.PromptParams{}, mcp.InvalidParams("arguments must be an object")
		}
		args = argsMap
	}

	return mcp.PromptParams{Name: name, Arguments: args}, nil
}
