package handlers

import (
	"context"
	"strings"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// PromptReview is the name of the review prompt template.
const PromptReview = "review_prompts"

// Prompts implements mcp.PromptHandler. It exposes the review instructions
// used by review_prompts so clients can run them against their own model.
type Prompts struct{}

// NewPrompts returns the prompt handler.
func NewPrompts() *Prompts {
	return &Prompts{}
}

func (p *Prompts) ListPrompts(ctx context.Context) ([]mcp.Prompt, error) {
	return []mcp.Prompt{
		{
			Name:        PromptReview,
			Description: "Build the prompt-review request sent to Gemini by the review_prompts tool",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "prompts",
					Description: "Prompts to review, one per line",
					Required:    true,
				},
			},
		},
	}, nil
}

func (p *Prompts) GetPrompt(ctx context.Context, params mcp.PromptParams) (mcp.PromptResponse, error) {
	if params.Name != PromptReview {
		return mcp.PromptResponse{}, mcp.InvalidParams("prompt %s not found", params.Name)
	}

	raw, ok := params.Arguments["prompts"].(string)
	if !ok {
		return mcp.PromptResponse{}, mcp.InvalidParams("prompts argument is required and must be a string")
	}

	var prompts []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			prompts = append(prompts, line)
		}
	}
	if len(prompts) == 0 {
		return mcp.PromptResponse{}, mcp.InvalidParams("prompts argument must contain at least one non-empty line")
	}

	return mcp.UserPrompt("Prompt review request", BuildReviewPrompt(prompts)), nil
}
