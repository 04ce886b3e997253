package tools

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// GenerateSchema derives a tool input schema from the JSON tags of T.
// Fields without omitempty are required. It panics if the schema cannot be
// encoded, which only happens for types that cannot be described at all.
func GenerateSchema[T any]() mcp.InputSchema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tools: encode schema for %T: %v", v, err))
	}

	var out mcp.InputSchema
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("tools: decode schema for %T: %v", v, err))
	}
	if out.Type == "" {
		out.Type = "object"
	}
	return out
}
