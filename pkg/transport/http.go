package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/config"
	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// HTTPTransport serves MCP over HTTP: POST /mcp carries one JSON-RPC request
// and gets one response, either as JSON or as a single SSE event.
type HTTPTransport struct {
	config *config.Config
	logger *slog.Logger

	mu     sync.Mutex
	server *http.Server
}

// NewHTTP creates a new HTTP transport
func NewHTTP(cfg *config.Config, logger *slog.Logger) *HTTPTransport {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HTTPTransport{config: cfg, logger: logger}
}

// Start listens on the configured port until ctx is cancelled or Stop is called.
func (t *HTTPTransport) Start(ctx context.Context, server mcp.Server) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", t.config.HTTPPort),
		Handler:      t.Handler(server),
		ReadTimeout:  t.config.ReadTimeout,
		WriteTimeout: t.config.WriteTimeout,
		IdleTimeout:  t.config.IdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	t.mu.Lock()
	t.server = srv
	t.mu.Unlock()

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			if err := t.Stop(); err != nil {
				t.logger.Error("HTTP shutdown failed", "error", err)
			}
		case <-stopped:
		}
	}()

	t.logger.Info("starting HTTP transport", "port", t.config.HTTPPort, "endpoint", fmt.Sprintf("http://localhost:%d/mcp", t.config.HTTPPort))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	t.logger.Info("HTTP transport shut down")
	return nil
}

// Stop gracefully shuts the server down. It is safe to call more than once.
func (t *HTTPTransport) Stop() error {
	t.mu.Lock()
	srv := t.server
	t.server = nil
	t.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Handler returns the routed HTTP handler for server.
func (t *HTTPTransport) Handler(server mcp.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(t.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(t.securityMiddleware)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Post("/mcp", func(w http.ResponseWriter, req *http.Request) {
		t.handlePost(server, w, req)
	})
	r.Options("/mcp", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func (t *HTTPTransport) handlePost(server mcp.Server, w http.ResponseWriter, r *http.Request) {
	var req mcp.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(nil, mcp.ErrorCodeParseError, "Parse error", err.Error()))
		return
	}

	wantsJSON, wantsSSE := acceptedTypes(r.Header.Get("Accept"))
	if !wantsJSON && !wantsSSE {
		writeJSON(w, http.StatusNotAcceptable, errorResponse(req.ID, mcp.ErrorCodeInvalidRequest, "Accept header must include application/json and/or text/event-stream", nil))
		return
	}

	if req.JSONRPC != mcp.JSONRPCVersion {
		writeJSON(w, http.StatusBadRequest, errorResponse(req.ID, mcp.ErrorCodeInvalidRequest, "Invalid JSON-RPC version", nil))
		return
	}

	if req.ID == nil {
		t.logger.Debug("received notification", "method", req.Method)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	var sender interface {
		mcp.ResponseSender
		Sent() bool
	}
	if wantsSSE && !wantsJSON {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}
		sender = &SSEResponseSender{writer: w, flusher: flusher}
	} else {
		sender = &HTTPResponseSender{writer: w}
	}

	ctx, cancel := requestContext(mcp.WithResponseSender(r.Context(), sender), t.config.RequestTimeout)
	defer cancel()

	if err := server.HandleRequest(ctx, req); err != nil {
		t.logger.Error("error handling request", "method", req.Method, "error", err)
		if !sender.Sent() {
			_ = sender.SendError(req.ID, mcp.ErrorCodeInternalError, "Internal error", err.Error())
		}
		return
	}

	if !sender.Sent() {
		_ = sender.SendError(req.ID, mcp.ErrorCodeInternalError, "No response generated", nil)
	}
}

// acceptedTypes reports which response encodings the client accepts. A
// missing header or a wildcard means JSON.
func acceptedTypes(accept string) (wantsJSON, wantsSSE bool) {
	if accept == "" || strings.Contains(accept, "*/*") {
		return true, strings.Contains(accept, "text/event-stream")
	}
	return strings.Contains(accept, "application/json"), strings.Contains(accept, "text/event-stream")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HTTPResponseSender implements ResponseSender for plain JSON responses.
type HTTPResponseSender struct {
	writer http.ResponseWriter
	sent   bool
	mu     sync.Mutex
}

func (h *HTTPResponseSender) SendResponse(response mcp.Response) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sent {
		return fmt.Errorf("response already sent")
	}
	h.sent = true
	writeJSON(h.writer, http.StatusOK, response)
	return nil
}

func (h *HTTPResponseSender) SendError(id any, code int, message string, data any) error {
	return h.SendResponse(errorResponse(id, code, message, data))
}

// Sent reports whether a response has been written.
func (h *HTTPResponseSender) Sent() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sent
}

// SSEResponseSender writes the response as a single server-sent event.
type SSEResponseSender struct {
	writer  http.ResponseWriter
	flusher http.Flusher
	sent    bool
	mu      sync.Mutex
}

func (s *SSEResponseSender) SendResponse(response mcp.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sent {
		return fmt.Errorf("response already sent")
	}

	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	s.sent = true
	s.writer.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	s.writer.Header().Set("Cache-Control", "no-cache")
	s.writer.WriteHeader(http.StatusOK)
	fmt.Fprintf(s.writer, "event: message\ndata: %s\n\n", data)
	s.flusher.Flush()
	return nil
}

func (s *SSEResponseSender) SendError(id any, code int, message string, data any) error {
	return s.SendResponse(errorResponse(id, code, message, data))
}

// Sent reports whether the event has been written.
func (s *SSEResponseSender) Sent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

func (t *HTTPTransport) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		t.logger.Debug("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Mcp-Session-Id")
		w.Header().Set("Access-Control-Max-Age", "86400")
		next.ServeHTTP(w, r)
	})
}

func (t *HTTPTransport) securityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		// DNS rebinding: browsers on a foreign origin talking to a local server.
		if origin := r.Header.Get("Origin"); origin != "" && !isLocalHost(r.Host) {
			t.logger.Warn("request from external origin", "origin", origin, "host", r.Host)
		}

		next.ServeHTTP(w, r)
	})
}

func isLocalHost(host string) bool {
	return strings.Contains(host, "localhost") ||
		strings.Contains(host, "127.0.0.1") ||
		strings.Contains(host, "::1")
}
