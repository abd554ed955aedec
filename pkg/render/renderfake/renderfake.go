// Package renderfake is an in-memory Host/Frame implementation used by
// tests throughout this module, the way the teacher exercises its
// container runtime abstraction against fakes rather than a real
// container engine.
package renderfake

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/stacklok/mcpui/pkg/render"
)

// Host is a fake render.Host that records every frame it creates.
type Host struct {
	mu     sync.Mutex
	Frames []*Frame
}

// NewHost constructs an empty fake host.
func NewHost() *Host { return &Host{} }

// CreateFrame implements render.Host.
func (h *Host) CreateFrame(_ context.Context, opts render.FrameOptions) (render.Frame, error) {
	id := fmt.Sprintf("frame-%s", uuid.NewString())
	origin := "null"
	if opts.Kind == render.KindExternal {
		origin = originFromURL(opts.URL)
	}

	f := &Frame{
		id:       id,
		origin:   origin,
		opts:     opts,
		outbound: make(chan []byte, 64),
		inbound:  make(chan []byte, 64),
	}

	h.mu.Lock()
	h.Frames = append(h.Frames, f)
	h.mu.Unlock()

	return f, nil
}

func originFromURL(u string) string {
	// A fake stand-in: real embedders derive this from the loaded
	// document's actual origin, not the requested URL string.
	return u
}

// Frame is a fake render.Frame: channels only, no real content.
type Frame struct {
	id       string
	origin   string
	opts     render.FrameOptions
	outbound chan []byte
	inbound  chan []byte

	mu        sync.Mutex
	evalCalls []string
	disposed  bool
}

// ID implements render.Frame.
func (f *Frame) ID() string { return f.id }

// Origin implements render.Frame.
func (f *Frame) Origin() string { return f.origin }

// Eval implements render.Frame, recording the script for assertions.
func (f *Frame) Eval(_ context.Context, script string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evalCalls = append(f.evalCalls, script)
	return nil
}

// Outbound implements render.Frame.
func (f *Frame) Outbound() <-chan []byte { return f.outbound }

// Inbound implements render.Frame.
func (f *Frame) Inbound() chan<- []byte { return f.inbound }

// Dispose implements render.Frame.
func (f *Frame) Dispose() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return nil
	}
	f.disposed = true
	close(f.outbound)
	return nil
}

// SendFromGuest simulates the guest posting a message to the host.
func (f *Frame) SendFromGuest(raw []byte) {
	f.outbound <- raw
}

// ReceivedByGuest exposes what the host has posted to this frame
// (render.Frame.Inbound is send-only by design) so tests can assert on
// host-to-guest traffic.
func (f *Frame) ReceivedByGuest() <-chan []byte {
	return f.inbound
}

// Options returns the FrameOptions the frame was created with, for
// assertions about sandbox tokens and mount content.
func (f *Frame) Options() render.FrameOptions { return f.opts }
