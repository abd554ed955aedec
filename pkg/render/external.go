package render

import (
	"context"
	"fmt"
	"net/url"
)

// ExternalOptions configures an external URL mount.
type ExternalOptions struct {
	Width, Height int
}

// MountExternal mounts an arbitrary external page (C6): src=url,
// sandbox="allow-scripts allow-same-origin", no guest script injected
// (external pages are not MCP-UI guests). Only http(s) schemes are
// accepted; anything else fails fast rather than creating a frame that
// will never load. X-Frame-Options blockage by the remote page is not
// this renderer's concern — a blank frame is an acceptable outcome.
func MountExternal(ctx context.Context, host Host, rawURL string, opts ExternalOptions) (*Handle, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("render: external url %q must be http(s)", rawURL)
	}

	frame, err := host.CreateFrame(ctx, externalSandbox(rawURL, opts.Width, opts.Height))
	if err != nil {
		return nil, fmt.Errorf("render: creating external frame: %w", err)
	}
	return &Handle{Frame: frame}, nil
}
