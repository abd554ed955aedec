package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/stacklok/mcpui/pkg/render/guestscript"
)

// Handle is the disposable handle to a mounted frame, returned by every
// Mount* constructor.
type Handle struct {
	Frame Frame
}

// Dispose tears down the underlying frame.
func (h *Handle) Dispose() error {
	return h.Frame.Dispose()
}

// HTMLOptions configures an HTML mount.
type HTMLOptions struct {
	Width, Height        int
	GuestScriptTimeoutMS int
}

// MountHTML mounts an HTML guest (C5). The Guest Helper Script is
// prepended into a <head> ahead of htmlText, and the frame is created
// with sandbox="allow-scripts" and srcdoc content, which forces a null
// origin for the origin validator. An empty htmlText mounts a blank
// frame; that is success, not an error.
func MountHTML(ctx context.Context, host Host, htmlText string, opts HTMLOptions) (*Handle, error) {
	script := guestscript.Render(guestscript.Options{DefaultTimeoutMillis: defaultOr(opts.GuestScriptTimeoutMS, 30000)})

	doc := injectHead(htmlText, script)

	frame, err := host.CreateFrame(ctx, htmlSandbox(doc, opts.Width, opts.Height))
	if err != nil {
		return nil, fmt.Errorf("render: creating html frame: %w", err)
	}
	return &Handle{Frame: frame}, nil
}

// injectHead prepends script, wrapped in a <script> tag, into body's
// <head> if one exists, else synthesizes a minimal document around body.
func injectHead(body, script string) string {
	tag := "<script>" + script + "</script>"

	lower := strings.ToLower(body)
	if idx := strings.Index(lower, "<head>"); idx >= 0 {
		insertAt := idx + len("<head>")
		return body[:insertAt] + tag + body[insertAt:]
	}
	if idx := strings.Index(lower, "<html>"); idx >= 0 {
		insertAt := idx + len("<html>")
		return body[:insertAt] + "<head>" + tag + "</head>" + body[insertAt:]
	}
	return "<head>" + tag + "</head>" + body
}

func defaultOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
