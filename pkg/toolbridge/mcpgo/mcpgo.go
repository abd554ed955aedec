// Package mcpgo adapts github.com/mark3labs/mcp-go into the
// toolbridge.Runtime contract. It is the one concrete implementation of
// Runtime this module ships; everything in pkg/toolbridge is built
// against the interface alone.
package mcpgo

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/stacklok/mcpui/pkg/logger"
)

// Adapter wraps an mcp-go client as a toolbridge.Runtime. Invocation
// itself is never retried — spec.md's no-retry rule governs the call —
// but establishing the underlying session uses backoff/v5 since session
// bring-up is a connectivity concern, not a tool invocation.
type Adapter struct {
	client *client.Client
}

// Dial connects to the MCP server at url over the streamable-HTTP
// transport and initializes the session, retrying connection attempts
// with exponential backoff. It does not retry CallTool.
func Dial(ctx context.Context, url string) (*Adapter, error) {
	operation := func() (*client.Client, error) {
		c, err := client.NewStreamableHttpClient(url)
		if err != nil {
			return nil, err
		}
		if _, err := c.Initialize(ctx, mcp.InitializeRequest{}); err != nil {
			_ = c.Close()
			return nil, err
		}
		return c, nil
	}

	c, err := backoff.Retry(ctx, operation, backoff.WithBackOff(backoff.NewExponentialBackOff()))
	if err != nil {
		return nil, fmt.Errorf("mcpgo: dialing %s: %w", url, err)
	}

	logger.Infow("mcp session established", "url", url)
	return &Adapter{client: c}, nil
}

// Invoke implements toolbridge.Runtime.
func (a *Adapter) Invoke(ctx context.Context, toolName string, args map[string]any) (any, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = args

	result, err := a.client.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mcpgo: invoking tool %q: %w", toolName, err)
	}
	if result.IsError {
		return nil, fmt.Errorf("mcpgo: tool %q reported an error result", toolName)
	}
	return result.Content, nil
}

// Close tears down the underlying MCP session.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// Healthy reports whether the underlying MCP session still responds,
// satisfying adminserver.HealthChecker. ListTools is used as the probe
// since it is idempotent and side-effect-free, unlike CallTool.
func (a *Adapter) Healthy(ctx context.Context) error {
	if _, err := a.client.ListTools(ctx, mcp.ListToolsRequest{}); err != nil {
		return fmt.Errorf("mcpgo: health probe failed: %w", err)
	}
	return nil
}
