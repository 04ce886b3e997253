package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

func TestPrompts(t *testing.T) {
	p := NewPrompts()
	ctx := context.Background()

	prompts, err := p.ListPrompts(ctx)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, PromptReview, prompts[0].Name)
	assert.True(t, prompts[0].Arguments[0].Required)

	resp, err := p.GetPrompt(ctx, mcp.PromptParams{
		Name:      PromptReview,
		Arguments: map[string]any{"prompts": "Write a haiku\n\n  Explain Go channels  \n"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "user", resp.Messages[0].Role)
	assert.Equal(t, BuildReviewPrompt([]string{"Write a haiku", "Explain Go channels"}), resp.Messages[0].Content.Text)
}

func TestGetPromptErrors(t *testing.T) {
	p := NewPrompts()
	ctx := context.Background()

	_, err := p.GetPrompt(ctx, mcp.PromptParams{Name: "unknown_prompt"})
	requireInvalidParams(t, err, "not found")

	_, err = p.GetPrompt(ctx, mcp.PromptParams{Name: PromptReview})
	requireInvalidParams(t, err, "required")

	_, err = p.GetPrompt(ctx, mcp.PromptParams{Name: PromptReview, Arguments: map[string]any{"prompts": " \n "}})
	requireInvalidParams(t, err, "at least one")
}
