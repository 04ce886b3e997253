package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/config"
	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

func newHTTPTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tr := NewHTTP(config.New(), nil)
	srv := httptest.NewServer(tr.Handler(&echoServer{}))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, accept, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/mcp", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHTTPHealth(t *testing.T) {
	srv := newHTTPTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestHTTPJSONRequest(t *testing.T) {
	srv := newHTTPTestServer(t)

	resp := post(t, srv.URL, "application/json, text/event-stream", `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var out mcp.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "tools/list", out.Result)
	assert.Nil(t, out.Error)
}

func TestHTTPSSERequest(t *testing.T) {
	srv := newHTTPTestServer(t)

	resp := post(t, srv.URL, "text/event-stream", `{"jsonrpc":"2.0","id":"s1","method":"ping"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "event: message\ndata: "))
	assert.Contains(t, string(body), `"result":"ping"`)
}

func TestHTTPErrors(t *testing.T) {
	srv := newHTTPTestServer(t)

	resp := post(t, srv.URL, "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var parseErr map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parseErr))
	require.Contains(t, parseErr, "id")
	assert.Nil(t, parseErr["id"])
	assert.Equal(t, float64(mcp.ErrorCodeParseError), parseErr["error"].(map[string]any)["code"])

	resp = post(t, srv.URL, "text/html", `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	assert.Equal(t, http.StatusNotAcceptable, resp.StatusCode)

	resp = post(t, srv.URL, "", `{"jsonrpc":"1.0","id":1,"method":"ping"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, srv.URL, "", `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestHTTPStopWithoutStart(t *testing.T) {
	assert.NoError(t, NewHTTP(config.New(), nil).Stop())
}
