// Package testserver runs the full HTTP surface over an in-memory board.
package testserver

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/reelboard/internal/app"
	"github.com/rpggio/reelboard/internal/config"
	"github.com/rpggio/reelboard/internal/mcp"
	"github.com/rpggio/reelboard/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
}

// Option adjusts the config before the board is opened.
type Option func(*config.Config)

// WithSeedPath seeds from a file instead of the bundled fixture.
func WithSeedPath(path string) Option {
	return func(cfg *config.Config) { cfg.Seed.Path = path }
}

func New(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.Transport = config.TransportHTTP
	cfg.Storage.Driver = config.DriverSQLite
	cfg.Storage.DBPath = ":memory:"
	cfg.Seed.Delay = 0
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := slog.New(slog.DiscardHandler)
	a, err := app.Open(context.Background(), cfg, logger)
	require.NoError(t, err)

	mcpCfg := mcp.Config{Store: a.Store, Logger: logger}
	if a.Activity != nil {
		mcpCfg.Activity = a.Activity
	}
	mcpServer := mcp.NewServer(mcpCfg)

	router := transport.NewServer(transport.Config{
		Board: a.Store,
		RPC:   mcp.NewHandler(mcpCfg.Store, mcpCfg.Activity),
		MCP: sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{Stateless: true, JSONResponse: true},
		),
		Logger: logger,
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return &TestServer{Server: server, App: a}
}

// URL joins path onto the server's base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
