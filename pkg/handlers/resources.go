package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// Resource URIs.
const (
	ResourceServerInfo = "server://info"
	ResourceToolList   = "server://tools"
)

// ToolLister is satisfied by the tool registry.
type ToolLister interface {
	List() []mcp.Tool
}

// Resources implements mcp.ResourceHandler over server metadata.
type Resources struct {
	info  *Info
	tools ToolLister
}

// NewResources returns the resource handler.
func NewResources(info *Info, tools ToolLister) *Resources {
	return &Resources{info: info, tools: tools}
}

func (r *Resources) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	return []mcp.Resource{
		{
			URI:         ResourceServerInfo,
			Name:        "server-info",
			Description: "Server identity, capabilities and uptime",
			MimeType:    "application/json",
		},
		{
			URI:         ResourceToolList,
			Name:        "tools",
			Description: "Descriptors of every tool this server exposes",
			MimeType:    "application/json",
		},
	}, nil
}

func (r *Resources) ReadResource(ctx context.Context, params mcp.ResourceParams) (mcp.ResourceResponse, error) {
	var text string
	switch params.URI {
	case ResourceServerInfo:
		s, err := r.info.JSON()
		if err != nil {
			return mcp.ResourceResponse{}, err
		}
		text = s
	case ResourceToolList:
		b, err := json.MarshalIndent(r.tools.List(), "", "  ")
		if err != nil {
			return mcp.ResourceResponse{}, fmt.Errorf("failed to marshal tool list: %w", err)
		}
		text = string(b)
	default:
		return mcp.ResourceResponse{}, mcp.InvalidParams("resource not found: %s", params.URI)
	}

	return mcp.ResourceResponse{
		Contents: []mcp.ResourceContent{
			{URI: params.URI, MimeType: "application/json", Text: text},
		},
	}, nil
}
