// Package gemini is a minimal client for Google's Gemini models, reached
// through their OpenAI-compatible chat completions endpoint.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/config"
)

// ErrNoCandidates is returned when the API answers without any choices.
var ErrNoCandidates = errors.New("gemini: response contained no candidates")

// Client generates text with a single Gemini model. It is safe for concurrent use.
type Client struct {
	client *openai.Client
	model  string
}

// New returns a client for cfg. An empty API key is accepted here; callers
// check for it before generating so they can report a caller-facing error.
func New(cfg config.GeminiConfig) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}

	return &Client{
		client: openai.NewClientWithConfig(oc),
		model:  model,
	}
}

// Model returns the model name requests are sent with.
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt as a single user message and returns the first
// choice's text. It makes exactly one attempt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoCandidates
	}

	return resp.Choices[0].Message.Content, nil
}
