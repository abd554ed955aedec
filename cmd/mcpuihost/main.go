// Command mcpuihost dials a live MCP session, registers this module's
// metrics, and serves the admin HTTP surface (health probe against the
// session, Prometheus metrics). It is deliberately thin: it builds no
// render.Host, toolbridge.Bridge, or Loop; embedding a Loop into a real
// host application (a desktop shell, a browser extension, a web app) is
// left to the embedder, not to this binary.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stacklok/mcpui/pkg/adminserver"
	"github.com/stacklok/mcpui/pkg/logger"
	"github.com/stacklok/mcpui/pkg/telemetry"
	"github.com/stacklok/mcpui/pkg/toolbridge/mcpgo"
)

func main() {
	mcpURL := flag.String("mcp-url", "", "URL of the MCP server to dial for tool execution")
	adminAddr := flag.String("admin-addr", ":8787", "address the admin HTTP server listens on")
	flag.Parse()

	if *mcpURL == "" {
		logger.Errorf("mcpuihost: -mcp-url is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter, err := mcpgo.Dial(ctx, *mcpURL)
	if err != nil {
		logger.Errorf("mcpuihost: dialing mcp server: %v", err)
		os.Exit(1)
	}
	defer func() { _ = adapter.Close() }()

	// The collectors are registered so /metrics exposes them; the returned
	// Metrics is not used, since this binary builds no dispatcher (a
	// render.Host is a concrete UI environment this module doesn't own).
	reg := prometheus.NewRegistry()
	if _, err := telemetry.NewMetrics(reg); err != nil {
		logger.Errorf("mcpuihost: registering metrics: %v", err)
		os.Exit(1)
	}

	if err := adminserver.Serve(ctx, *adminAddr, adapter, reg); err != nil {
		logger.Errorf("mcpuihost: admin server: %v", err)
		os.Exit(1)
	}

	// Give in-flight shutdown logging a moment to flush.
	time.Sleep(50 * time.Millisecond)
}
