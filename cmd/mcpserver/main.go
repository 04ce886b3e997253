// Gemini MCP Server - a Model Context Protocol tool server.
//
// The server exposes a small set of tools (greeting, current time, server
// info and two Gemini-backed tools) plus read-only resources and a prompt.
// MCP clients normally launch it as a child process and talk JSON-RPC over
// stdin/stdout; logs go to stderr.
//
// Usage:
//
//	mcpserver [flags]
//
// Flags:
//
//	-transport string: Transport type (stdio|http) (default "stdio")
//	-port int: HTTP port (default 8080)
//	-request-timeout duration: Per-request deadline, 0 disables it (default 0)
//	-timezone string: Timezone for get_current_time (default $TZ)
//	-log-level string: debug|info|warn|error (default "info")
//	-log-format string: text|json (default "text")
//	-env-file string: Dotenv file loaded before the environment (default ".env")
//
// The Gemini tools read GEMINI_API_KEY, GEMINI_MODEL, GEMINI_BASE_URL and
// GEMINI_TIMEOUT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/BearHuddleston/gemini-mcp-server/internal/gemini"
	"github.com/BearHuddleston/gemini-mcp-server/internal/server"
	"github.com/BearHuddleston/gemini-mcp-server/internal/tools"
	"github.com/BearHuddleston/gemini-mcp-server/pkg/config"
	"github.com/BearHuddleston/gemini-mcp-server/pkg/handlers"
	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
	"github.com/BearHuddleston/gemini-mcp-server/pkg/transport"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run starts the server and returns the process exit code.
func run(args []string) (code int) {
	cfg, err := config.ParseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}
	slog.SetDefault(logger)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("fatal error", "panic", r)
			code = 1
		}
	}()

	if err := serve(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		return 1
	}
	logger.Info("server stopped")
	return 0
}

// serve wires the handlers into a server and blocks until the transport
// finishes or a shutdown signal arrives.
func serve(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting server", "config", cfg)

	info := handlers.NewInfo(mcp.ServerInfo{Name: cfg.ServerName, Version: cfg.ServerVersion})
	client := gemini.New(cfg.Gemini)
	gem := handlers.NewGemini(client, cfg.Gemini.APIKey, logger.With("component", "gemini"))
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; Gemini tools will fail until it is configured")
	}

	registry, err := tools.NewRegistry(handlers.Tools(
		handlers.NewGreeter(),
		handlers.NewClock(cfg.Timezone, logger),
		info,
		gem,
	)...)
	if err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	logger.Info("tools registered", "count", registry.Len(), "gemini_model", client.Model())

	mcpServer, err := server.New(
		mcp.ServerInfo{Name: cfg.ServerName, Version: cfg.ServerVersion},
		tools.NewDispatcher(registry, logger.With("component", "tools")),
		handlers.NewResources(info, registry),
		handlers.NewPrompts(),
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	tr, err := createTransport(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runTransport(ctx, tr, mcpServer, logger)
}

// runTransport serves until the transport returns or ctx is cancelled, then
// stops the transport. A panic on the serving goroutine is returned as an error.
func runTransport(ctx context.Context, tr transport.Transport, srv mcp.Server, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		// The transport returning on its own (stdin EOF) ends the process too.
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		if err := tr.Start(gctx, srv); err != nil {
			return fmt.Errorf("transport start failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return tr.Stop()
	})
	return g.Wait()
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h).With("service", cfg.ServerName), nil
}

// createTransport creates the appropriate transport based on configuration
func createTransport(cfg *config.Config, logger *slog.Logger) (transport.Transport, error) {
	switch strings.ToLower(cfg.TransportType) {
	case "stdio":
		return transport.NewStdio(os.Stdin, os.Stdout, cfg.RequestTimeout, logger), nil
	case "http":
		return transport.NewHTTP(cfg, logger), nil
	default:
		return nil, fmt.Errorf("invalid transport type: %s (must be 'stdio' or 'http')", cfg.TransportType)
	}
}
