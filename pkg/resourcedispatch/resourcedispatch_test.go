package resourcedispatch_test

import (
	"testing"

	"github.com/stacklok/mcpui/pkg/render"
	"github.com/stacklok/mcpui/pkg/resourcedispatch"
	"github.com/stacklok/mcpui/pkg/uiresource"
)

func TestDispatch_HTML(t *testing.T) {
	r := &uiresource.UIResource{URI: "ui://1", MIMEType: uiresource.MIMETextHTML, Text: "<div>hi</div>"}

	kind, payload, _, err := resourcedispatch.Dispatch(r)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if kind != render.KindHTML {
		t.Errorf("kind = %v, want html", kind)
	}
	if payload != "<div>hi</div>" {
		t.Errorf("payload = %v, want <div>hi</div>", payload)
	}
}

func TestDispatch_ExternalUsesFirstLine(t *testing.T) {
	r := &uiresource.UIResource{
		URI:      "ui://2",
		MIMEType: uiresource.MIMETextURI,
		Text:     "https://example.com/widget\n# advisory comment line",
	}

	kind, payload, _, err := resourcedispatch.Dispatch(r)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if kind != render.KindExternal {
		t.Errorf("kind = %v, want external", kind)
	}
	if payload != "https://example.com/widget" {
		t.Errorf("payload = %v, want https://example.com/widget", payload)
	}
}

func TestDispatch_RemoteDOM(t *testing.T) {
	r := &uiresource.UIResource{URI: "ui://3", MIMEType: uiresource.MIMERemoteDOM, Text: `{"id":"root"}`}

	kind, _, _, err := resourcedispatch.Dispatch(r)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if kind != render.KindRemoteDOM {
		t.Errorf("kind = %v, want remote-dom", kind)
	}
}

func TestDispatch_UnsupportedMIMEFails(t *testing.T) {
	r := &uiresource.UIResource{URI: "ui://4", MIMEType: "text/plain", Text: "hi"}

	_, _, _, err := resourcedispatch.Dispatch(r)
	if err == nil {
		t.Error("Dispatch() error = nil, want unsupported mime error")
	}
}

func TestDispatch_AttachesContext(t *testing.T) {
	r := &uiresource.UIResource{
		URI:      "ui://5",
		MIMEType: uiresource.MIMETextHTML,
		Text:     "<div></div>",
		Meta: map[string]any{
			"preferred-frame-size": map[string]any{"width": 640, "height": 480},
			"tools":                []any{"search"},
		},
	}

	_, _, ctx, err := resourcedispatch.Dispatch(r)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if ctx.Width != 640 || ctx.Height != 480 {
		t.Errorf("ctx size = (%d, %d), want (640, 480)", ctx.Width, ctx.Height)
	}
	if len(ctx.ToolWhitelist) != 1 || ctx.ToolWhitelist[0] != "search" {
		t.Errorf("ctx.ToolWhitelist = %v, want [search]", ctx.ToolWhitelist)
	}
}
