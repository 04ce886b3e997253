package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

func echoHandler(text string) Handler {
	return func(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
		return mcp.TextResponse(text), nil
	}
}

func TestRegistryListIsOrderedAndStable(t *testing.T) {
	r, err := NewRegistry(
		Tool{Name: "b", Handler: echoHandler("b")},
		Tool{Name: "a", Handler: echoHandler("a")},
		Tool{Name: "c", Handler: echoHandler("c")},
	)
	require.NoError(t, err)

	first := r.List()
	second := r.List()
	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{first[0].Name, first[1].Name, first[2].Name})
	assert.Equal(t, "object", first[0].InputSchema.Type)

	first[0].Name = "mutated"
	assert.Equal(t, "b", r.List()[0].Name, "List must return a copy")
}

func TestRegistryLookup(t *testing.T) {
	r, err := NewRegistry(Tool{Name: "a", Handler: echoHandler("a")})
	require.NoError(t, err)

	tool, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "a", tool.Name)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestNewRegistryRejectsBadTools(t *testing.T) {
	_, err := NewRegistry(Tool{Name: "", Handler: echoHandler("x")})
	assert.Error(t, err)

	_, err = NewRegistry(Tool{Name: "x"})
	assert.ErrorContains(t, err, "no handler")

	_, err = NewRegistry(Tool{Name: "x", Handler: echoHandler("1")}, Tool{Name: "x", Handler: echoHandler("2")})
	assert.ErrorContains(t, err, "already registered")
}

type emptyInput struct{}

type schemaInput struct {
	Name    string   `json:"name,omitempty" jsonschema_description:"Optional name"`
	Prompts []string `json:"prompts" jsonschema:"minItems=1"`
}

func TestGenerateSchema(t *testing.T) {
	s := GenerateSchema[schemaInput]()

	assert.Equal(t, "object", s.Type)
	assert.Equal(t, []string{"prompts"}, s.Required)
	require.Contains(t, s.Properties, "name")
	require.Contains(t, s.Properties, "prompts")

	prompts, ok := s.Properties["prompts"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", prompts["type"])
	assert.Equal(t, map[string]any{"type": "string"}, prompts["items"])

	empty := GenerateSchema[emptyInput]()
	assert.Equal(t, "object", empty.Type)
	assert.Empty(t, empty.Required)
}
