package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BearHuddleston/gemini-mcp-server/internal/gemini"
	"github.com/BearHuddleston/gemini-mcp-server/internal/tools"
	"github.com/BearHuddleston/gemini-mcp-server/pkg/config"
	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

const testGeminiPrompt = "Reply with one short, friendly sentence confirming that you received this message."

const reviewInstructions = `You are an expert prompt engineer. Review each of the numbered prompts below.
For every prompt, point out anything unclear or ambiguous and suggest an improved version.
Finish with a short summary of patterns you noticed across all prompts.`

// ReviewPromptsInput is the argument object of review_prompts.
type ReviewPromptsInput struct {
	Prompts []string `json:"prompts" jsonschema:"minItems=1" jsonschema_description:"Prompts to review, in order"`
}

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini implements test_gemini and review_prompts.
type Gemini struct {
	generator Generator
	apiKey    string
	logger    *slog.Logger
}

// NewGemini returns the Gemini-backed tools. apiKey is only checked for
// presence; generator is expected to already carry it.
func NewGemini(generator Generator, apiKey string, logger *slog.Logger) *Gemini {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gemini{generator: generator, apiKey: apiKey, logger: logger}
}

// TestGemini sends a fixed prompt to check connectivity and credentials.
func (g *Gemini) TestGemini(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
	if err := g.requireCredential(); err != nil {
		return mcp.ToolResponse{}, err
	}
	return g.generate(ctx, "test_gemini", testGeminiPrompt)
}

// ReviewPrompts asks the model for a review of every prompt in one request.
func (g *Gemini) ReviewPrompts(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
	in, err := parseReviewPrompts(args)
	if err != nil {
		return mcp.ToolResponse{}, err
	}
	if err := g.requireCredential(); err != nil {
		return mcp.ToolResponse{}, err
	}
	g.logger.Info("reviewing prompts", "count", len(in.Prompts))
	return g.generate(ctx, "review_prompts", BuildReviewPrompt(in.Prompts))
}

func (g *Gemini) requireCredential() error {
	if strings.TrimSpace(g.apiKey) == "" {
		return mcp.InvalidParams("%s environment variable is not set", config.EnvGeminiAPIKey)
	}
	return nil
}

func (g *Gemini) generate(ctx context.Context, tool, prompt string) (mcp.ToolResponse, error) {
	text, err := g.generator.Generate(ctx, prompt)
	if errors.Is(err, gemini.ErrNoCandidates) {
		return mcp.ToolResponse{}, mcp.InternalError("Empty or invalid response from Gemini API")
	}
	if err != nil {
		return mcp.ToolResponse{}, err
	}
	if strings.TrimSpace(text) == "" {
		return mcp.ToolResponse{}, mcp.InternalError("Empty or invalid response from Gemini API")
	}
	g.logger.Debug("gemini replied", "tool", tool, "chars", len(text))
	return mcp.TextResponse(text), nil
}

func parseReviewPrompts(args map[string]any) (ReviewPromptsInput, error) {
	raw, ok := args["prompts"].([]any)
	if !ok {
		if s, isStrings := args["prompts"].([]string); isStrings {
			raw = make([]any, len(s))
			for i := range s {
				raw[i] = s[i]
			}
		} else {
			return ReviewPromptsInput{}, mcp.InvalidParams("prompts must be an array of strings")
		}
	}
	if len(raw) == 0 {
		return ReviewPromptsInput{}, mcp.InvalidParams("prompts array must not be empty")
	}

	in := ReviewPromptsInput{Prompts: make([]string, 0, len(raw))}
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return ReviewPromptsInput{}, mcp.InvalidParams("all prompts must be strings (element %d is %s)", i+1, tools.TypeName(v))
		}
		in.Prompts = append(in.Prompts, s)
	}
	return in, nil
}

// BuildReviewPrompt embeds prompts, numbered from 1, into the review instructions.
func BuildReviewPrompt(prompts []string) string {
	var b strings.Builder
	b.WriteString(reviewInstructions)
	for i, p := range prompts {
		fmt.Fprintf(&b, "\n\nPrompt %d:\n%s", i+1, p)
	}
	return b.String()
}
