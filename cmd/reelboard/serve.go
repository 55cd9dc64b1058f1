package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/reelboard/internal/app"
	"github.com/rpggio/reelboard/internal/config"
	"github.com/rpggio/reelboard/internal/mcp"
	"github.com/rpggio/reelboard/internal/transport"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// serveOverrides are command-line settings that win over config.
type serveOverrides struct {
	transport string
	port      int
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var overrides serveOverrides

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over MCP (stdio) or HTTP",
		Long: `Serve the board.

stdio speaks MCP over stdin/stdout; logs go to stderr.
http serves the JSON board API under /api, JSON-RPC on /rpc and the MCP
streamable HTTP transport on /mcp.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts, overrides)
		},
	}

	cmd.Flags().StringVarP(&overrides.transport, "transport", "t", "", "stdio or http (default from config)")
	cmd.Flags().IntVarP(&overrides.port, "port", "p", 0, "HTTP port (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, overrides serveOverrides) (err error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if overrides.transport != "" {
		cfg.Transport = overrides.transport
	}
	if overrides.port > 0 {
		cfg.Server.Port = overrides.port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := cmd.OutOrStdout()
	if cfg.Transport == config.TransportStdio {
		logWriter = cmd.ErrOrStderr()
	}
	logger, closer, err := buildLogger(logWriter, cfg.Log.Path, parseLogLevel(cfg.Log.Level))
	if err != nil {
		return err
	}
	defer closeQuietly(closer)

	ctx := cmd.Context()
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open board", "error", err)
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Error("failed to close board", "error", closeErr)
			err = errors.Join(err, closeErr)
		}
	}()

	mcpCfg := mcp.Config{Store: a.Store, Logger: logger, Version: version}
	if a.Activity != nil {
		mcpCfg.Activity = a.Activity
	}
	mcpServer := mcp.NewServer(mcpCfg)

	if cfg.Transport == config.TransportStdio {
		return runStdio(ctx, logger, mcpServer)
	}
	return runHTTP(ctx, logger, a, mcpServer, mcpCfg, cfg.Server)
}

func runStdio(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or the context is canceled.
	err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		logger.Error("stdio server error", "error", err)
		return err
	}
	logger.Info("shutting down")
	return nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, a *app.App, mcpServer *sdkmcp.Server, mcpCfg mcp.Config, server config.ServerConfig) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)

	router := transport.NewServer(transport.Config{
		Board:  a.Store,
		RPC:    mcp.NewHandler(mcpCfg.Store, mcpCfg.Activity),
		MCP:    mcpHandler,
		Logger: logger,
	})

	addr := net.JoinHostPort(server.Host, strconv.Itoa(server.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
