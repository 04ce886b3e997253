// Package transport provides MCP transport implementations.
package transport

import (
	"context"
	"time"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// Transport defines the interface for MCP transport mechanisms.
type Transport interface {
	// Start serves requests until ctx is cancelled or the input ends.
	Start(ctx context.Context, server mcp.Server) error
	// Stop gracefully shuts down the transport.
	Stop() error
}

// errorResponse builds a JSON-RPC error envelope.
func errorResponse(id any, code int, message string, data any) mcp.Response {
	return mcp.Response{
		JSONRPC: mcp.JSONRPCVersion,
		ID:      id,
		Error: &mcp.ErrorResponse{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// requestContext applies the optional per-request deadline.
func requestContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
