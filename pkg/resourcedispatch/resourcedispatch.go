// Package resourcedispatch implements the pure resource dispatcher (C4):
// it chooses which renderer a UIResource belongs to based on MIME type
// alone, and does nothing else.
package resourcedispatch

import (
	"strings"

	"github.com/stacklok/mcpui/pkg/mcpuierrors"
	"github.com/stacklok/mcpui/pkg/render"
	"github.com/stacklok/mcpui/pkg/uiresource"
)

// Context carries the per-mount data the chosen renderer needs, attached
// by the dispatcher from the resource's metadata so downstream
// components can enforce whitelists and size the frame.
type Context struct {
	Width, Height int
	ToolWhitelist []string
}

// Dispatch classifies resource into a render.Kind, the payload the
// chosen renderer should mount, and a Context. It is a pure function:
// no mounting, no I/O, no side effects.
func Dispatch(resource *uiresource.UIResource) (render.Kind, string, Context, error) {
	width, height, _ := resource.PreferredFrameSize()
	ctx := Context{Width: width, Height: height, ToolWhitelist: resource.ToolWhitelist()}

	text, _, _ := resource.Content()

	switch resource.MIMEType {
	case uiresource.MIMETextHTML:
		return render.KindHTML, text, ctx, nil
	case uiresource.MIMETextURI:
		return render.KindExternal, firstLine(text), ctx, nil
	case uiresource.MIMERemoteDOM:
		return render.KindRemoteDOM, text, ctx, nil
	default:
		return "", "", Context{}, mcpuierrors.NewUnsupportedMIMEError(
			"unsupported mime type "+string(resource.MIMEType), nil)
	}
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return strings.TrimSpace(text)
}
