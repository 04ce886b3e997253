package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/config"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, status int, body string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) *Client {
	return New(config.GeminiConfig{APIKey: "test-key", Model: "gemini-test", BaseURL: baseURL + "/"})
}

func TestGenerate(t *testing.T) {
	var seen chatRequest
	srv := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gemini-test",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello from Gemini"}, "finish_reason": "stop"}]
	}`, &seen)

	text, err := newTestClient(srv.URL).Generate(context.Background(), "Say hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello from Gemini", text)

	assert.Equal(t, "gemini-test", seen.Model)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
	assert.Equal(t, "Say hi", seen.Messages[0].Content)
}

func TestGenerateNoChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"id": "x", "object": "chat.completion", "choices": []}`, nil)

	_, err := newTestClient(srv.URL).Generate(context.Background(), "Say hi")
	assert.True(t, errors.Is(err, ErrNoCandidates))
}

func TestGenerateAPIError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, `{"error": {"message": "API key not valid", "type": "invalid_request_error"}}`, nil)

	_, err := newTestClient(srv.URL).Generate(context.Background(), "Say hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestNewDefaultsModel(t *testing.T) {
	c := New(config.GeminiConfig{APIKey: "k"})
	assert.Equal(t, config.DefaultGeminiModel, c.Model())
}
