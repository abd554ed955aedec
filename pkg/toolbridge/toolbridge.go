// Package toolbridge implements the tool execution bridge (C3): given a
// tool action, it whitelist-checks, sanitizes arguments, invokes an
// external tool runtime, and wraps the outcome as an action.Result.
package toolbridge

import (
	"context"
	"fmt"

	"github.com/stacklok/mcpui/pkg/action"
	"github.com/stacklok/mcpui/pkg/logger"
)

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_runtime.go -package=mocks github.com/stacklok/mcpui/pkg/toolbridge Runtime

// Runtime is the external tool-execution capability this module depends
// on but never implements directly; a concrete adapter (toolbridge/mcpgo)
// wires it to a real MCP client.
type Runtime interface {
	Invoke(ctx context.Context, toolName string, args map[string]any) (any, error)
}

// Bridge implements C3 against an injected Runtime.
type Bridge struct {
	runtime Runtime
}

// NewBridge constructs a Bridge invoking tools through runtime.
func NewBridge(runtime Runtime) *Bridge {
	return &Bridge{runtime: runtime}
}

// Handle executes the four-step algorithm: whitelist check, argument
// sanitization, invocation, and result wrapping. It never times out
// internally — the caller's context deadline (set by the dispatcher)
// envelops the whole call — and it retries nothing: the runtime is
// authoritative for its own retry policy.
func (b *Bridge) Handle(ctx context.Context, whitelist []string, payload action.ToolPayload) action.Result {
	if len(whitelist) > 0 && !isWhitelisted(whitelist, payload.ToolName) {
		return action.NewErrorResult(fmt.Sprintf("tool %q is not whitelisted", payload.ToolName))
	}

	sanitized, rejected := SanitizeArgs(payload.Args)
	for _, key := range rejected {
		logger.Warnw("rejected non-primitive tool argument", "tool", payload.ToolName, "key", key)
	}

	result, err := b.runtime.Invoke(ctx, payload.ToolName, sanitized)
	if err != nil {
		return action.NewErrorResult(err.Error())
	}
	return action.NewSuccessResult(result)
}

func isWhitelisted(whitelist []string, toolName string) bool {
	for _, name := range whitelist {
		if name == toolName {
			return true
		}
	}
	return false
}

// SanitizeArgs walks args, keeping only entries whose value is a
// primitive (string, number, bool, nil). Nested objects, arrays, and any
// other type are dropped; their keys are returned in rejected so the
// caller can log them.
func SanitizeArgs(args map[string]any) (sanitized map[string]any, rejected []string) {
	sanitized = make(map[string]any, len(args))
	for key, value := range args {
		if isPrimitive(value) {
			sanitized[key] = value
			continue
		}
		rejected = append(rejected, key)
	}
	return sanitized, rejected
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
