package mcp

// Prompt-related types
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

type PromptParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

type PromptResponse struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

type PromptMessage struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

type MessageContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// UserPrompt builds a prompt response holding one user text message.
func UserPrompt(description, text string) PromptResponse {
	return PromptResponse{
		Description: description,
		Messages: []PromptMessage{
			{Role: "user", Content: MessageContent{Type: ContentTypeText, Text: text}},
		},
	}
}
