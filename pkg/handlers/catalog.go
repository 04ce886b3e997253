package handlers

import (
	"github.com/BearHuddleston/gemini-mcp-server/internal/tools"
)

// Tool names.
const (
	ToolSayHello       = "say_hello"
	ToolGetCurrentTime = "get_current_time"
	ToolServerInfo     = "server_info"
	ToolTestGemini     = "test_gemini"
	ToolReviewPrompts  = "review_prompts"
)

type noInput struct{}

// Tools returns every tool in the order tools/list reports them.
func Tools(greeter *Greeter, clock *Clock, info *Info, gem *Gemini) []tools.Tool {
	return []tools.Tool{
		{
			Name:        ToolSayHello,
			Description: "Say hello, optionally greeting someone by name",
			InputSchema: tools.GenerateSchema[SayHelloInput](),
			Handler:     greeter.SayHello,
		},
		{
			Name:        ToolGetCurrentTime,
			Description: "Get the current date and time of the server",
			InputSchema: tools.GenerateSchema[noInput](),
			Handler:     clock.CurrentTime,
		},
		{
			Name:        ToolServerInfo,
			Description: "Get server name, version, capabilities and uptime",
			InputSchema: tools.GenerateSchema[noInput](),
			Handler:     info.ServerInfo,
		},
		{
			Name:        ToolTestGemini,
			Description: "Send a short test prompt to Gemini and return its reply",
			InputSchema: tools.GenerateSchema[noInput](),
			Handler:     gem.TestGemini,
		},
		{
			Name:        ToolReviewPrompts,
			Description: "Ask Gemini to review a batch of prompts and suggest improvements",
			InputSchema: tools.GenerateSchema[ReviewPromptsInput](),
			Handler:     gem.ReviewPrompts,
		},
	}
}
