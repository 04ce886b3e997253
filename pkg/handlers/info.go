package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// InfoSnapshot is the serialized payload of server_info and server://info.
type InfoSnapshot struct {
	Name            string         `json:"name"`
	Version         string         `json:"version"`
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	StartedAt       string         `json:"startedAt"`
	Uptime          string         `json:"uptime"`
	UptimeSeconds   float64        `json:"uptimeSeconds"`
	GoVersion       string         `json:"goVersion"`
}

// Info implements server_info.
type Info struct {
	server  mcp.ServerInfo
	started time.Time
	now     func() time.Time
}

// NewInfo returns an Info whose uptime counts from now.
func NewInfo(server mcp.ServerInfo) *Info {
	return &Info{server: server, started: time.Now(), now: time.Now}
}

// Snapshot captures the current metadata.
func (i *Info) Snapshot() InfoSnapshot {
	uptime := i.now().Sub(i.started).Round(time.Second)
	return InfoSnapshot{
		Name:            i.server.Name,
		Version:         i.server.Version,
		ProtocolVersion: mcp.ProtocolVersion,
		Capabilities:    mcp.Capabilities(),
		StartedAt:       i.started.UTC().Format(time.RFC3339),
		Uptime:          uptime.String(),
		UptimeSeconds:   uptime.Seconds(),
		GoVersion:       runtime.Version(),
	}
}

// JSON returns the indented snapshot.
func (i *Info) JSON() (string, error) {
	b, err := json.MarshalIndent(i.Snapshot(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal server info: %w", err)
	}
	return string(b), nil
}

// ServerInfo reports server identity, capabilities and uptime.
func (i *Info) ServerInfo(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
	text, err := i.JSON()
	if err != nil {
		return mcp.ToolResponse{}, err
	}
	return mcp.TextResponse(text), nil
}
