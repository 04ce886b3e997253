package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

func newTestDispatcher(t *testing.T, tools ...Tool) *Dispatcher {
	t.Helper()
	r, err := NewRegistry(tools...)
	require.NoError(t, err)
	return NewDispatcher(r, nil)
}

func requireCode(t *testing.T, err error, code int) *mcp.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := mcp.AsError(err)
	require.True(t, ok, "error %v is not an *mcp.Error", err)
	assert.Equal(t, mcp.ErrorCodeName(code), mcp.ErrorCodeName(e.Code))
	return e
}

func TestDispatcherSuccess(t *testing.T) {
	var got map[string]any
	d := newTestDispatcher(t, Tool{Name: "echo", Handler: func(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
		got = args
		return mcp.TextResponse("ok"), nil
	}})

	resp, err := d.CallTool(context.Background(), mcp.ToolCall{Name: "echo"})
	require.NoError(t, err)
	assert.Equal(t, mcp.TextResponse("ok"), resp)
	assert.NotNil(t, got, "absent arguments become an empty map")
}

func TestDispatcherUnknownTool(t *testing.T) {
	d := newTestDispatcher(t, Tool{Name: "echo", Handler: echoHandler("x")})

	for _, name := range []string{"nope", "say_goodbye", "ECHO"} {
		_, err := d.CallTool(context.Background(), mcp.ToolCall{Name: name})
		e := requireCode(t, err, mcp.ErrorCodeMethodNotFound)
		assert.Equal(t, "Unknown tool: "+name, e.Message)
	}
}

func TestDispatcherInvalidNameRunsNoHandler(t *testing.T) {
	called := false
	d := newTestDispatcher(t, Tool{Name: "echo", Handler: func(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
		called = true
		return mcp.TextResponse("x"), nil
	}})

	for _, name := range []any{"", nil, 7.0, []any{"echo"}} {
		_, err := d.CallTool(context.Background(), mcp.ToolCall{Name: name})
		requireCode(t, err, mcp.ErrorCodeInvalidParams)
	}

	_, err := d.CallTool(context.Background(), mcp.ToolCall{Name: "echo", Arguments: "not-an-object"})
	requireCode(t, err, mcp.ErrorCodeInvalidParams)
	assert.False(t, called)
}

func TestDispatcherPassesRecognizedErrors(t *testing.T) {
	d := newTestDispatcher(t, Tool{Name: "strict", Handler: func(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
		return mcp.ToolResponse{}, mcp.InvalidParams("prompts array must not be empty")
	}})

	_, err := d.CallTool(context.Background(), mcp.ToolCall{Name: "strict"})
	e := requireCode(t, err, mcp.ErrorCodeInvalidParams)
	assert.Equal(t, "prompts array must not be empty", e.Message)
}

func TestDispatcherWrapsUnrecognizedErrors(t *testing.T) {
	d := newTestDispatcher(t,
		Tool{Name: "boom", Handler: func(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
			return mcp.ToolResponse{}, errors.New("connection refused")
		}},
		Tool{Name: "panics", Handler: func(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
			panic("nil map")
		}},
	)

	_, err := d.CallTool(context.Background(), mcp.ToolCall{Name: "boom"})
	e := requireCode(t, err, mcp.ErrorCodeInternalError)
	assert.Equal(t, "Tool execution failed: connection refused", e.Message)

	_, err = d.CallTool(context.Background(), mcp.ToolCall{Name: "panics"})
	e = requireCode(t, err, mcp.ErrorCodeInternalError)
	assert.Contains(t, e.Message, "Tool execution failed: panic: nil map")
}

func TestDispatcherRejectsMalformedResults(t *testing.T) {
	tests := []struct {
		name string
		resp mcp.ToolResponse
	}{
		{"no content", mcp.ToolResponse{}},
		{"blank text", mcp.TextResponse("   ")},
		{"wrong type", mcp.ToolResponse{Content: []mcp.ContentItem{{Type: "image", Text: "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.resp
			d := newTestDispatcher(t, Tool{Name: "bad", Handler: func(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
				return resp, nil
			}})
			got, err := d.CallTool(context.Background(), mcp.ToolCall{Name: "bad"})
			requireCode(t, err, mcp.ErrorCodeInternalError)
			assert.Empty(t, got.Content)
		})
	}
}

func TestDispatcherNotInitialized(t *testing.T) {
	d := NewDispatcher(nil, nil)

	_, err := d.CallTool(context.Background(), mcp.ToolCall{Name: "echo"})
	requireCode(t, err, mcp.ErrorCodeInternalError)

	_, err = d.ListTools(context.Background())
	requireCode(t, err, mcp.ErrorCodeInternalError)
}

func TestDispatcherListTools(t *testing.T) {
	d := newTestDispatcher(t,
		Tool{Name: "one", Description: "first", Handler: echoHandler("1")},
		Tool{Name: "two", Description: "second", Handler: echoHandler("2")},
	)

	a, err := d.ListTools(context.Background())
	require.NoError(t, err)
	b, err := d.ListTools(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "one", a[0].Name)
	assert.Equal(t, "second", a[1].Description)
}
