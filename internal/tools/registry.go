// Package tools holds the tool registry, the argument validator and the
// dispatcher that routes tools/call requests to handlers.
package tools

import (
	"context"
	"fmt"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// Handler executes a tool with validated arguments.
type Handler func(ctx context.Context, args map[string]any) (mcp.ToolResponse, error)

// Tool is a registered tool: its descriptor plus the handler behind it.
type Tool struct {
	Name        string
	Description string
	InputSchema mcp.InputSchema
	Handler     Handler
}

// Descriptor returns the wire description of t.
func (t Tool) Descriptor() mcp.Tool {
	return mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}
}

// Registry is an ordered, read-only set of tools. It is safe for concurrent
// use because nothing mutates it after NewRegistry returns.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry builds a registry from tools in the given order.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		order: make([]string, 0, len(tools)),
		tools: make(map[string]Tool, len(tools)),
	}
	for _, t := range tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool name cannot be empty")
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", t.Name)
		}
		if _, exists := r.tools[t.Name]; exists {
			return nil, fmt.Errorf("tool %q already registered", t.Name)
		}
		if t.InputSchema.Type == "" {
			t.InputSchema.Type = "object"
		}
		r.order = append(r.order, t.Name)
		r.tools[t.Name] = t
	}
	return r, nil
}

// List returns the tool descriptors in registration order.
func (r *Registry) List() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Descriptor())
	}
	return out
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
