package tools

import (
	"fmt"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// ValidateToolName checks that v is a non-empty string and returns it.
func ValidateToolName(v any) (string, error) {
	name, ok := v.(string)
	if !ok {
		return "", mcp.InvalidParams("Tool name must be a string, got %s", typeName(v))
	}
	if name == "" {
		return "", mcp.InvalidParams("Tool name must not be empty")
	}
	return name, nil
}

// ValidateArguments checks that v is absent or a key-value object. Absent
// arguments yield an empty map so handlers never see nil.
func ValidateArguments(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	args, ok := v.(map[string]any)
	if !ok {
		return nil, mcp.InvalidParams("Tool arguments must be an object, got %s", typeName(v))
	}
	return args, nil
}

// ValidateCall validates both halves of a raw tool call.
func ValidateCall(call mcp.ToolCall) (mcp.ToolCallParams, error) {
	name, err := ValidateToolName(call.Name)
	if err != nil {
		return mcp.ToolCallParams{}, err
	}
	args, err := ValidateArguments(call.Arguments)
	if err != nil {
		return mcp.ToolCallParams{Name: name}, err
	}
	return mcp.ToolCallParams{Name: name, Arguments: args}, nil
}

// typeName describes a decoded JSON value the way a client would name it.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// TypeName is typeName for handlers that report argument types in errors.
func TypeName(v any) string {
	return typeName(v)
}
