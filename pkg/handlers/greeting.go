// Package handlers provides the tool, resource and prompt implementations
// served by the MCP server.
package handlers

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/BearHuddleston/gemini-mcp-server/internal/tools"
	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

var greetings = []string{
	"Hello!",
	"Hi there!",
	"Greetings!",
	"Hey!",
	"Welcome!",
}

// SayHelloInput is the argument object of say_hello.
type SayHelloInput struct {
	Name string `json:"name,omitempty" jsonschema_description:"Optional name of the person to greet"`
}

// Greeter implements say_hello.
type Greeter struct {
	pick func(n int) int
}

// NewGreeter returns a greeter that picks greetings uniformly at random.
func NewGreeter() *Greeter {
	return &Greeter{pick: rand.IntN}
}

// SayHello greets the caller, by name when one is given.
func (g *Greeter) SayHello(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
	in, err := parseSayHello(args)
	if err != nil {
		return mcp.ToolResponse{}, err
	}
	return mcp.TextResponse(g.Greet(in.Name)), nil
}

// Greet builds the greeting text.
func (g *Greeter) Greet(name string) string {
	text := greetings[g.pick(len(greetings))]
	if name = strings.TrimSpace(name); name != "" {
		text += " Nice to meet you, " + name + "!"
	}
	return text
}

func parseSayHello(args map[string]any) (SayHelloInput, error) {
	var in SayHelloInput
	switch v := args["name"].(type) {
	case nil:
	case string:
		in.Name = v
	default:
		return in, mcp.InvalidParams("name must be a string, got %s", tools.TypeName(v))
	}
	return in, nil
}
