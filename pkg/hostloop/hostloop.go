// Package hostloop implements the host-side action loop (C8): the thin
// orchestrator that mounts a UIResource, registers its dispatcher, and
// exposes outward events to the embedding application.
package hostloop

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/browser"

	"github.com/stacklok/mcpui/pkg/action"
	"github.com/stacklok/mcpui/pkg/dispatcher"
	"github.com/stacklok/mcpui/pkg/logger"
	"github.com/stacklok/mcpui/pkg/render"
	"github.com/stacklok/mcpui/pkg/resourcedispatch"
	"github.com/stacklok/mcpui/pkg/toolbridge"
	"github.com/stacklok/mcpui/pkg/uiresource"
)

// ActionEvent reports a link, intent, or prompt action the embedding
// application may want to surface in its own UI. Notify actions are
// reported as NotifyEvent instead.
type ActionEvent struct {
	FrameID string
	Message *action.Message
}

// ResultEvent reports the settlement of a correlated tool/prompt
// request, whether by handler completion, dispatcher timeout, or frame
// cancellation.
type ResultEvent struct {
	FrameID   string
	RequestID string
	Result    action.Result
}

// NotifyEvent reports a guest "notify" action specifically, surfaced
// separately from ActionEvent since it is the most common embedding
// integration point (toast/banner display).
type NotifyEvent struct {
	FrameID string
	Payload action.NotifyPayload
}

// RemoteDOMEvent reports a host-bound event firing on a materialized
// Remote-DOM node, e.g. an onClick prop. It is distinct from ActionEvent
// because it is a native UI event on the host's own element tree, not a
// wire action.Message.
type RemoteDOMEvent struct {
	FrameID   string
	NodeID    string
	EventName string
}

// Handle is the disposable handle to one mounted resource.
type Handle struct {
	frame     render.Frame
	frameID   string
	loop      *Loop
	remoteDOM *render.RemoteDOMRenderer
}

// Dispose tears the mount down: cancels its pending requests, disposes
// its Remote-DOM renderer if one was attached, and disposes its frame.
func (h *Handle) Dispose() error {
	h.loop.dispatcher.CancelFrame(h.frameID)
	if h.remoteDOM != nil {
		_ = h.remoteDOM.Dispose()
		h.loop.mu.Lock()
		delete(h.loop.remoteDOMRenderers, h.frameID)
		h.loop.mu.Unlock()
	}
	return h.frame.Dispose()
}

// Loop owns a Dispatcher, a Bridge, and a render.Host, and wires the
// three together for every Mount call.
type Loop struct {
	dispatcher *dispatcher.Dispatcher
	bridge     *toolbridge.Bridge
	host       render.Host

	actions       chan ActionEvent
	results       chan ResultEvent
	notifications chan NotifyEvent
	errs          chan error

	mu                 sync.Mutex
	onAction           []func(ActionEvent)
	onResult           []func(ResultEvent)
	onNotify           []func(NotifyEvent)
	onError            []func(error)
	onRemoteDOMEvent   []func(RemoteDOMEvent)
	whitelists         map[string][]string
	remoteDOMRenderers map[string]*render.RemoteDOMRenderer

	remoteDOMSink    render.ElementSink
	remoteDOMOptions render.RemoteDOMOptions
	remoteDOMEvents  chan RemoteDOMEvent
}

// Options configures a new Loop.
type Options struct {
	DispatcherOptions []dispatcher.Option
	EventBufferSize   int

	// RemoteDOMSink is the host-side DOM materialization target for any
	// mounted Remote-DOM resource. Mounting a Remote-DOM resource
	// without one configured is an error.
	RemoteDOMSink render.ElementSink
	// RemoteDOMMaxTreeDepth overrides render.DefaultMaxTreeDepth.
	RemoteDOMMaxTreeDepth int

	// OpenLinksInBrowser opens a guest's "link" action URL in the
	// system's default browser in addition to emitting an ActionEvent.
	// Left false, the embedder decides entirely for itself how to
	// handle link actions.
	OpenLinksInBrowser bool
}

// New constructs a Loop wiring dispatcher handlers for every action type
// against bridge (for tool) and the loop's own event channels (for
// notify/link/intent/prompt). A prompt is emitted as an ActionEvent and
// answered with an error result.
func New(host render.Host, bridge *toolbridge.Bridge, opts Options) *Loop {
	bufSize := opts.EventBufferSize
	if bufSize <= 0 {
		bufSize = 64
	}

	l := &Loop{
		bridge:        bridge,
		host:          host,
		actions:       make(chan ActionEvent, bufSize),
		results:       make(chan ResultEvent, bufSize),
		notifications: make(chan NotifyEvent, bufSize),
		errs:          make(chan error, bufSize),
	}

	dispatcherOpts := append([]dispatcher.Option{
		dispatcher.WithSettleFunc(l.handleSettle),
	}, opts.DispatcherOptions...)

	handlers := map[action.Type]dispatcher.Handler{
		action.TypeTool: func(ctx context.Context, frameID string, msg *action.Message) action.Result {
			whitelist, ok := l.whitelistFor(frameID)
			if !ok {
				return action.NewErrorResult("unknown frame")
			}
			return bridge.Handle(ctx, whitelist, *msg.Tool)
		},
		action.TypePrompt: func(ctx context.Context, frameID string, msg *action.Message) action.Result {
			l.emitAction(frameID, msg)
			return action.NewErrorResult("prompt requires an embedding-supplied responder")
		},
		action.TypeNotify: func(_ context.Context, frameID string, msg *action.Message) action.Result {
			l.emitNotify(frameID, *msg.Notify)
			return action.NewSuccessResult(nil)
		},
		action.TypeLink: func(_ context.Context, frameID string, msg *action.Message) action.Result {
			l.emitAction(frameID, msg)
			if opts.OpenLinksInBrowser && msg.Link != nil {
				if err := browser.OpenURL(msg.Link.URL); err != nil {
					logger.Warnw("failed to open link in system browser", "frameID", frameID, "url", msg.Link.URL, "error", err.Error())
				}
			}
			return action.NewSuccessResult(nil)
		},
		action.TypeIntent: func(_ context.Context, frameID string, msg *action.Message) action.Result {
			l.emitAction(frameID, msg)
			return action.NewSuccessResult(nil)
		},
	}

	l.dispatcher = dispatcher.New(handlers, dispatcherOpts...)
	l.whitelists = make(map[string][]string)
	l.remoteDOMRenderers = make(map[string]*render.RemoteDOMRenderer)
	l.remoteDOMSink = opts.RemoteDOMSink
	l.remoteDOMOptions = render.RemoteDOMOptions{MaxTreeDepth: opts.RemoteDOMMaxTreeDepth}
	l.remoteDOMEvents = make(chan RemoteDOMEvent, bufSize)
	return l
}

// Actions returns the channel of link/intent/prompt events (notify is
// split out to Notifications).
func (l *Loop) Actions() <-chan ActionEvent { return l.actions }

// Results returns the channel of correlated tool/prompt settlements.
func (l *Loop) Results() <-chan ResultEvent { return l.results }

// Notifications returns the channel of guest notify events.
func (l *Loop) Notifications() <-chan NotifyEvent { return l.notifications }

// Errors returns the channel of Remote-DOM sync errors (a failed
// Materialize, Reconcile, or ReconcileTree). Mount failures are returned
// by Mount itself and are not sent here.
func (l *Loop) Errors() <-chan error { return l.errs }

// RemoteDOMEvents returns the channel of host-bound Remote-DOM node
// events (e.g. a bound onClick firing).
func (l *Loop) RemoteDOMEvents() <-chan RemoteDOMEvent { return l.remoteDOMEvents }

// OnAction registers a callback invoked for every ActionEvent, for
// callers that prefer a listener style over draining a channel.
func (l *Loop) OnAction(fn func(ActionEvent)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onAction = append(l.onAction, fn)
}

// OnResult registers a callback invoked for every ResultEvent.
func (l *Loop) OnResult(fn func(ResultEvent)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onResult = append(l.onResult, fn)
}

// OnNotify registers a callback invoked for every NotifyEvent.
func (l *Loop) OnNotify(fn func(NotifyEvent)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onNotify = append(l.onNotify, fn)
}

// OnError registers a callback invoked for every error sent on Errors.
func (l *Loop) OnError(fn func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = append(l.onError, fn)
}

// OnRemoteDOMEvent registers a callback invoked for every RemoteDOMEvent.
func (l *Loop) OnRemoteDOMEvent(fn func(RemoteDOMEvent)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onRemoteDOMEvent = append(l.onRemoteDOMEvent, fn)
}

// Mount classifies resource (C4), mounts the chosen renderer (C5/C6/C7),
// and registers its frame with the dispatcher's per-frame message loop.
func (l *Loop) Mount(ctx context.Context, resource *uiresource.UIResource) (*Handle, error) {
	if err := resource.Validate(); err != nil {
		return nil, err
	}

	kind, payload, rctx, err := resourcedispatch.Dispatch(resource)
	if err != nil {
		return nil, err
	}

	var mounted *render.Handle
	var remoteDOMRenderer *render.RemoteDOMRenderer
	switch kind {
	case render.KindHTML:
		mounted, err = render.MountHTML(ctx, l.host, payload, render.HTMLOptions{Width: rctx.Width, Height: rctx.Height})
	case render.KindExternal:
		mounted, err = render.MountExternal(ctx, l.host, payload, render.ExternalOptions{Width: rctx.Width, Height: rctx.Height})
	case render.KindRemoteDOM:
		if l.remoteDOMSink == nil {
			return nil, fmt.Errorf("hostloop: mounting a remote-dom resource requires Options.RemoteDOMSink")
		}
		mounted, err = render.MountRemoteDOM(ctx, l.host, payload, render.RemoteDOMMountOptions{Width: rctx.Width, Height: rctx.Height})
	default:
		return nil, fmt.Errorf("hostloop: unrecognized render kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	frameID := mounted.Frame.ID()
	l.mu.Lock()
	l.whitelists[frameID] = rctx.ToolWhitelist
	if kind == render.KindRemoteDOM {
		remoteDOMRenderer = render.NewRemoteDOMRenderer(l.remoteDOMSink, render.RemoteDOMOptions{
			MaxTreeDepth: l.remoteDOMOptions.MaxTreeDepth,
			Emit: func(nodeID, eventName string) {
				l.emitRemoteDOMEvent(frameID, nodeID, eventName)
			},
		})
		l.remoteDOMRenderers[frameID] = remoteDOMRenderer
	}
	l.mu.Unlock()

	if kind == render.KindRemoteDOM {
		go l.remoteDOMReadLoop(mounted.Frame, remoteDOMRenderer)
	} else {
		go l.readLoop(ctx, mounted.Frame)
	}

	return &Handle{frame: mounted.Frame, frameID: frameID, loop: l, remoteDOM: remoteDOMRenderer}, nil
}

// readLoop drains one Frame's Outbound() in arrival order, handing each
// message to the dispatcher. One goroutine per frame; no ordering is
// shared across frames.
func (l *Loop) readLoop(ctx context.Context, frame render.Frame) {
	for raw := range frame.Outbound() {
		l.dispatcher.Dispatch(ctx, frame, raw)
	}
}

// remoteDOMSync is the wire shape a Remote-DOM guest posts: exactly one
// of Root (initial materialization), Diff (incremental reconciliation
// against a pre-built diff), or Tree (a full-tree resync, diffed against
// the renderer's last-known tree before applying) is populated.
type remoteDOMSync struct {
	Root *action.RemoteNode `json:"root,omitempty"`
	Diff *action.DomDiff    `json:"diff,omitempty"`
	Tree *action.RemoteNode `json:"tree,omitempty"`
}

// remoteDOMReadLoop drains one Remote-DOM frame's Outbound(), routing
// each message to Materialize, Reconcile, or ReconcileTree instead of the
// action dispatcher: Remote-DOM sync messages are not action.Messages.
func (l *Loop) remoteDOMReadLoop(frame render.Frame, renderer *render.RemoteDOMRenderer) {
	for raw := range frame.Outbound() {
		var sync remoteDOMSync
		if err := json.Unmarshal(raw, &sync); err != nil {
			logger.Warnw("dropping malformed remote-dom sync message", "frameID", frame.ID(), "error", err.Error())
			continue
		}
		var err error
		switch {
		case sync.Root != nil:
			err = renderer.Materialize(sync.Root)
		case sync.Diff != nil:
			err = renderer.Reconcile(sync.Diff)
		case sync.Tree != nil:
			err = renderer.ReconcileTree(sync.Tree)
		default:
			continue
		}
		if err != nil {
			logger.Warnw("remote-dom sync failed", "frameID", frame.ID(), "error", err.Error())
			l.mu.Lock()
			callbacks := append([]func(error){}, l.onError...)
			l.mu.Unlock()
			for _, fn := range callbacks {
				fn(err)
			}
			select {
			case l.errs <- err:
			default:
				logger.Warnw("errors channel full, dropping error", "frameID", frame.ID())
			}
		}
	}
}

func (l *Loop) emitRemoteDOMEvent(frameID, nodeID, eventName string) {
	evt := RemoteDOMEvent{FrameID: frameID, NodeID: nodeID, EventName: eventName}
	l.mu.Lock()
	callbacks := append([]func(RemoteDOMEvent){}, l.onRemoteDOMEvent...)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(evt)
	}
	select {
	case l.remoteDOMEvents <- evt:
	default:
		logger.Warnw("remote-dom events channel full, dropping event", "frameID", frameID)
	}
}

func (l *Loop) whitelistFor(frameID string) ([]string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	wl, ok := l.whitelists[frameID]
	return wl, ok
}

func (l *Loop) emitAction(frameID string, msg *action.Message) {
	evt := ActionEvent{FrameID: frameID, Message: msg}
	l.mu.Lock()
	callbacks := append([]func(ActionEvent){}, l.onAction...)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(evt)
	}
	select {
	case l.actions <- evt:
	default:
		logger.Warnw("actions channel full, dropping event", "frameID", frameID)
	}
}

func (l *Loop) emitNotify(frameID string, payload action.NotifyPayload) {
	evt := NotifyEvent{FrameID: frameID, Payload: payload}
	l.mu.Lock()
	callbacks := append([]func(NotifyEvent){}, l.onNotify...)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(evt)
	}
	select {
	case l.notifications <- evt:
	default:
		logger.Warnw("notifications channel full, dropping event", "frameID", frameID)
	}
}

func (l *Loop) handleSettle(frameID, requestID string, result action.Result) {
	evt := ResultEvent{FrameID: frameID, RequestID: requestID, Result: result}
	l.mu.Lock()
	callbacks := append([]func(ResultEvent){}, l.onResult...)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(evt)
	}
	select {
	case l.results <- evt:
	default:
		logger.Warnw("results channel full, dropping event", "frameID", frameID, "requestId", requestID)
	}
}
