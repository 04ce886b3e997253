package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// maxMessageSize bounds a single newline-delimited message.
const maxMessageSize = 4 << 20

// Stdio implements the stdio transport for MCP: one JSON-RPC message per line
// in, one per line out. Requests are handled one at a time.
type Stdio struct {
	in             io.Reader
	sender         *StreamSender
	requestTimeout time.Duration
	logger         *slog.Logger
}

// NewStdio creates a transport reading from in and writing to out.
func NewStdio(in io.Reader, out io.Writer, requestTimeout time.Duration, logger *slog.Logger) *Stdio {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Stdio{
		in:             in,
		sender:         &StreamSender{w: out},
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// Start begins listening for JSON-RPC messages. It returns nil when ctx is
// cancelled or the input is closed. A panic while handling a message stops
// the transport and is returned as an error.
func (t *Stdio) Start(ctx context.Context, server mcp.Server) (err error) {
	t.logger.Info("starting stdio transport")

	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("panic while handling message", "panic", r)
			err = fmt.Errorf("stdio transport: panic: %v", r)
		}
	}()

	scanner := bufio.NewScanner(t.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)

	lineChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		defer close(lineChan)

		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case lineChan <- scanner.Text():
			}
		}

		if err := scanner.Err(); err != nil {
			errChan <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("stdio transport shutting down")
			return nil
		case line, ok := <-lineChan:
			if !ok {
				select {
				case err := <-errChan:
					t.logger.Error("error reading input", "error", err)
					return fmt.Errorf("read stdin: %w", err)
				default:
				}
				t.logger.Info("input closed, exiting")
				return nil
			}

			if strings.TrimSpace(line) == "" {
				continue
			}

			if err := t.handleMessage(ctx, server, line); err != nil {
				t.logger.Error("error handling message", "error", err)
			}
		}
	}
}

// Stop stops the stdio transport (no-op for stdio)
func (t *Stdio) Stop() error {
	return nil
}

func (t *Stdio) handleMessage(ctx context.Context, server mcp.Server, line string) error {
	var req mcp.Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return t.sendParseError(line, err)
	}

	if req.JSONRPC != mcp.JSONRPCVersion {
		t.logger.Warn("invalid JSON-RPC version", "version", req.JSONRPC, "method", req.Method)
		if req.ID == nil {
			return nil
		}
		return t.sender.SendError(req.ID, mcp.ErrorCodeInvalidRequest, "Invalid JSON-RPC version", nil)
	}

	// Notifications get no response.
	if req.ID == nil {
		t.logger.Debug("received notification", "method", req.Method)
		return nil
	}

	reqCtx, cancel := requestContext(mcp.WithResponseSender(ctx, t.sender), t.requestTimeout)
	defer cancel()

	return server.HandleRequest(reqCtx, req)
}

func (t *Stdio) sendParseError(line string, err error) error {
	// Recover the id from malformed-but-parsable input when possible.
	var errorID any
	var partialReq map[string]any
	if json.Unmarshal([]byte(line), &partialReq) == nil {
		if id, exists := partialReq["id"]; exists && id != nil {
			errorID = id
		}
	}

	t.logger.Warn("parse error", "error", err)
	return t.sender.SendResponse(errorResponse(errorID, mcp.ErrorCodeParseError, "Parse error", err.Error()))
}

// StreamSender implements ResponseSender over a newline-delimited stream.
// Writes are serialized so concurrent responses never interleave.
type StreamSender struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *StreamSender) SendResponse(response mcp.Response) error {
	jsonBytes, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(jsonBytes, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *StreamSender) SendError(id any, code int, message string, data any) error {
	return s.SendResponse(errorResponse(id, code, message, data))
}
