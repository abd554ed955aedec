package render

import (
	"context"
	"fmt"

	"github.com/stacklok/mcpui/pkg/render/guestscript"
)

// RemoteDOMMountOptions configures a Remote-DOM mount.
type RemoteDOMMountOptions struct {
	Width, Height        int
	GuestScriptTimeoutMS int
}

// MountRemoteDOM mounts a Remote-DOM guest (C7): scriptText is the
// application/vnd.mcp-ui.remote-dom+javascript payload itself, executed
// directly inside a sandboxed frame alongside the Guest Helper Script.
// Unlike MountHTML, scriptText is not a full document — it is wrapped in
// its own <script> tag rather than searched for a <head> to inject into.
func MountRemoteDOM(ctx context.Context, host Host, scriptText string, opts RemoteDOMMountOptions) (*Handle, error) {
	helper := guestscript.Render(guestscript.Options{DefaultTimeoutMillis: defaultOr(opts.GuestScriptTimeoutMS, 30000)})

	doc := "<head><script>" + helper + "</script></head><script>" + scriptText + "</script>"

	frame, err := host.CreateFrame(ctx, htmlSandbox(doc, opts.Width, opts.Height))
	if err != nil {
		return nil, fmt.Errorf("render: creating remote-dom frame: %w", err)
	}
	return &Handle{Frame: frame}, nil
}
