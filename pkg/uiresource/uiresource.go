// Package uiresource defines the UIResource type the core renders: the
// MCP tool output that carries an HTML/external/remote-DOM UI fragment
// plus host-facing metadata (preferred frame size, tool whitelist).
package uiresource

import (
	"fmt"

	"github.com/stacklok/mcpui/pkg/logger"
)

// MIMEType identifies the kind of UI fragment a UIResource carries.
type MIMEType string

// Recognized MIME types, one per render component (C5/C6/C7).
const (
	MIMETextHTML  MIMEType = "text/html"
	MIMETextURI   MIMEType = "text/uri-list"
	MIMERemoteDOM MIMEType = "application/vnd.mcp-ui.remote-dom+javascript"
)

var recognizedMIMETypes = map[MIMEType]bool{
	MIMETextHTML:  true,
	MIMETextURI:   true,
	MIMERemoteDOM: true,
}

// UIResource is a renderable UI fragment returned as MCP tool output.
type UIResource struct {
	URI      string
	MIMEType MIMEType
	Text     string
	Blob     []byte
	Meta     map[string]any
}

// Validate enforces the invariants from the data model: a non-empty URI,
// a recognized MIME type, and exactly one populated content representation.
// When both Text and Blob are supplied, Text wins and the conflict is
// logged rather than rejected.
func (r *UIResource) Validate() error {
	if r.URI == "" {
		return fmt.Errorf("uiresource: URI must not be empty")
	}
	if !recognizedMIMETypes[r.MIMEType] {
		return fmt.Errorf("uiresource: unrecognized MIME type %q", r.MIMEType)
	}
	if r.Text == "" && len(r.Blob) == 0 {
		return fmt.Errorf("uiresource: resource %q has neither text nor blob content", r.URI)
	}
	if r.Text != "" && len(r.Blob) != 0 {
		logger.Warnw("uiresource has both text and blob content, preferring text",
			"uri", r.URI)
	}
	return nil
}

// Content returns the resource's effective content, preferring Text over
// Blob when both are populated.
func (r *UIResource) Content() (text string, blob []byte, isText bool) {
	if r.Text != "" {
		return r.Text, nil, true
	}
	return "", r.Blob, false
}

// PreferredFrameSize reads the optional "preferred-frame-size" metadata
// entry as {width, height} integers. ok is false when absent or malformed.
func (r *UIResource) PreferredFrameSize() (width, height int, ok bool) {
	raw, present := r.Meta["preferred-frame-size"]
	if !present {
		return 0, 0, false
	}
	m, isMap := raw.(map[string]any)
	if !isMap {
		return 0, 0, false
	}
	w, wOK := toInt(m["width"])
	h, hOK := toInt(m["height"])
	if !wOK || !hOK {
		return 0, 0, false
	}
	return w, h, true
}

// ToolWhitelist reads the optional "tools" metadata entry naming the
// tools this resource's guest is permitted to invoke. A nil or empty
// slice means no whitelist was declared, and the tool bridge imposes no
// restriction: any tool the host exposes may be invoked.
func (r *UIResource) ToolWhitelist() []string {
	raw, present := r.Meta["tools"]
	if !present {
		return nil
	}
	list, isList := raw.([]any)
	if !isList {
		if strs, isStrs := raw.([]string); isStrs {
			return strs
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, isStr := v.(string); isStr {
			out = append(out, s)
		}
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
