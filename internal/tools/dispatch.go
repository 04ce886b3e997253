package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// Dispatcher implements mcp.ToolHandler on top of a Registry. It keeps no
// state between calls.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher for registry. A nil logger discards output.
func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// ListTools returns every registered tool in registration order.
func (d *Dispatcher) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	if d.registry == nil {
		return nil, mcp.InternalError("Server not initialized")
	}
	return d.registry.List(), nil
}

// CallTool validates call, runs the matching handler and normalizes the
// outcome. Exactly one of the results is meaningful: a response with a nil
// error, or an *mcp.Error.
func (d *Dispatcher) CallTool(ctx context.Context, call mcp.ToolCall) (mcp.ToolResponse, error) {
	if d.registry == nil {
		d.logger.Error("tool call rejected: dispatcher has no registry")
		return mcp.ToolResponse{}, mcp.InternalError("Server not initialized")
	}

	d.logger.Debug("tool call received", "tool", call.Name)

	params, err := ValidateCall(call)
	if err != nil {
		return d.fail(fmt.Sprint(call.Name), err, time.Time{})
	}
	name, args := params.Name, params.Arguments

	tool, ok := d.registry.Lookup(name)
	if !ok {
		return d.fail(name, mcp.MethodNotFound("Unknown tool: %s", name), time.Time{})
	}

	d.logger.Info("executing tool", "tool", name, "args", argKeys(args))

	start := time.Now()
	resp, err := invoke(ctx, tool.Handler, args)
	if err != nil {
		if _, ok := mcp.AsError(err); !ok {
			err = mcp.InternalError("Tool execution failed: %s", err.Error())
		}
		return d.fail(name, err, start)
	}

	if err := checkResponse(resp); err != nil {
		return d.fail(name, err, start)
	}

	d.logger.Info("tool completed", "tool", name, "duration", time.Since(start), "items", len(resp.Content))
	return resp, nil
}

// fail logs err and returns it as the call's only outcome. err must already be
// an *mcp.Error.
func (d *Dispatcher) fail(name string, err error, start time.Time) (mcp.ToolResponse, error) {
	attrs := []any{"tool", name, "error", err.Error()}
	if e, ok := mcp.AsError(err); ok {
		attrs = append(attrs, "code", mcp.ErrorCodeName(e.Code))
	}
	if !start.IsZero() {
		attrs = append(attrs, "duration", time.Since(start))
	}
	d.logger.Warn("tool call failed", attrs...)
	return mcp.ToolResponse{}, err
}

// invoke runs h and turns a panic into an ordinary error.
func invoke(ctx context.Context, h Handler, args map[string]any) (resp mcp.ToolResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = mcp.ToolResponse{}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, args)
}

// checkResponse rejects results a client could not render.
func checkResponse(resp mcp.ToolResponse) error {
	if len(resp.Content) == 0 {
		return mcp.InternalError("Tool returned an empty result")
	}
	empty := true
	for i, item := range resp.Content {
		if item.Type != mcp.ContentTypeText {
			return mcp.InternalError("Tool returned content item %d with unsupported type %q", i, item.Type)
		}
		if strings.TrimSpace(item.Text) != "" {
			empty = false
		}
	}
	if empty {
		return mcp.InternalError("Tool returned an empty result")
	}
	return nil
}

// argKeys lists argument names only; values may hold secrets.
func argKeys(args map[string]any) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
