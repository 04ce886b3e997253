package mcp

// Tool-related types
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

type InputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// ToolCall is a tools/call request exactly as it came off the wire. Name and
// Arguments are left untyped so the validator can reject bad shapes.
type ToolCall struct {
	Name      any `json:"name"`
	Arguments any `json:"arguments,omitempty"`
}

// ToolCallParams is a validated tool call.
type ToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type ToolResponse struct {
	Content []ContentItem `json:"content"`
}

type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ContentTypeText is the only content type tools produce.
const ContentTypeText = "text"

// TextResponse wraps text in a single-item tool response.
func TextResponse(text string) ToolResponse {
	return ToolResponse{Content: []ContentItem{{Type: ContentTypeText, Text: text}}}
}
