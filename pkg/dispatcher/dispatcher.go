// Package dispatcher implements the action dispatcher (C2): it owns the
// per-frame message loop, correlates tool/prompt requests with their
// responses, and fans fire-and-forget actions out to registered
// handlers.
package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/stacklok/mcpui/pkg/action"
	"github.com/stacklok/mcpui/pkg/codec"
	"github.com/stacklok/mcpui/pkg/config"
	"github.com/stacklok/mcpui/pkg/logger"
	"github.com/stacklok/mcpui/pkg/mcpuierrors"
	"github.com/stacklok/mcpui/pkg/render"
	"github.com/stacklok/mcpui/pkg/telemetry"
)

// DefaultTimeout is the correlated-request timeout applied when none is
// configured, per spec.md §4.2.
const DefaultTimeout = 30 * time.Second

// DefaultMaxInFlightPerFrame bounds concurrent pending requests per
// frame, a resource limit spec.md §5 calls for without naming a number.
const DefaultMaxInFlightPerFrame = 256

// Handler processes one classified action.Message and returns the
// result to post back for correlated types. Fire-and-forget types
// (notify, link, intent) return a Result whose fields the dispatcher
// ignores; any error is only logged.
type Handler func(ctx context.Context, frameID string, msg *action.Message) action.Result

// SettleFunc observes every correlated request's resolution, whether it
// settled by handler completion, timeout, or frame cancellation. It lets
// an embedding Loop surface a Go-native result event without parsing the
// JSON this package also posts back to the guest.
type SettleFunc func(frameID, requestID string, result action.Result)

// PendingRequest tracks one in-flight tool/prompt correlation. The table
// is owned by exactly one Dispatcher instance, passed explicitly at
// construction rather than held as a package-level singleton.
type PendingRequest struct {
	RequestID string
	FrameID   string
	ToolName  string
	CreatedAt time.Time
	Timeout   time.Duration
	cancel    func()
	settled   atomic.Bool
}

// Dispatcher routes classified messages to registered handlers and
// manages request/response correlation and per-frame cancellation.
type Dispatcher struct {
	handlers    map[action.Type]Handler
	timeout     time.Duration
	maxInFlight int64
	onSettle    SettleFunc
	metrics     *telemetry.Metrics

	mu      sync.Mutex
	pending map[string]*PendingRequest

	semMu sync.Mutex
	sems  map[string]*semaphore.Weighted
}

// Option configures a Dispatcher at construction.
type Option func(*Dispatcher)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) { disp.timeout = d }
}

// WithMaxInFlightPerFrame overrides DefaultMaxInFlightPerFrame.
func WithMaxInFlightPerFrame(n int64) Option {
	return func(disp *Dispatcher) { disp.maxInFlight = n }
}

// WithSettleFunc registers fn to observe every correlated request's
// resolution, used by pkg/hostloop to surface ResultEvents.
func WithSettleFunc(fn SettleFunc) Option {
	return func(disp *Dispatcher) { disp.onSettle = fn }
}

// WithConfig applies the timeout and concurrency cap from a config.Dispatcher,
// letting an embedder build one Config value instead of calling WithTimeout
// and WithMaxInFlightPerFrame separately. Zero fields in cfg leave the
// corresponding Dispatcher default untouched.
func WithConfig(cfg config.Dispatcher) Option {
	return func(disp *Dispatcher) {
		if cfg.RequestTimeout > 0 {
			disp.timeout = cfg.RequestTimeout
		}
		if cfg.MaxInFlightPerFrame > 0 {
			disp.maxInFlight = cfg.MaxInFlightPerFrame
		}
	}
}

// WithMetrics attaches Prometheus counters and OpenTelemetry spans to
// every dispatch and settlement. Optional: a nil Dispatcher.metrics
// disables instrumentation rather than panicking.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(disp *Dispatcher) { disp.metrics = m }
}

// New constructs a Dispatcher with handlers registered per action.Type.
func New(handlers map[action.Type]Handler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers:    handlers,
		timeout:     DefaultTimeout,
		maxInFlight: DefaultMaxInFlightPerFrame,
		pending:     make(map[string]*PendingRequest),
		sems:        make(map[string]*semaphore.Weighted),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch classifies raw and routes it. tool/prompt messages are
// correlated: a PendingRequest is created, a per-frame semaphore slot is
// acquired, a timeout is armed, and the handler runs in its own
// goroutine so a slow tool call never blocks the frame's message loop.
// Fire-and-forget messages (notify/link/intent) run the handler
// synchronously and discard any result.
func (d *Dispatcher) Dispatch(ctx context.Context, frame render.Frame, raw []byte) {
	if d.metrics != nil {
		var span trace.Span
		ctx, span = d.metrics.StartDispatchSpan(ctx, frame.ID())
		defer span.End()
	}

	msg, err := codec.Classify(frame.Origin(), raw)
	if err != nil {
		logger.Warnw("dropping invalid inbound message", "frameID", frame.ID(), "reason", err.Error())
		if d.metrics != nil {
			d.metrics.MessagesDropped.WithLabelValues(reasonFor(err)).Inc()
		}
		return
	}

	handler, ok := d.handlers[msg.Type]
	if !ok {
		logger.Warnw("no handler registered for action type", "frameID", frame.ID(), "type", msg.Type)
		return
	}

	if d.metrics != nil {
		d.metrics.MessagesDispatched.WithLabelValues(string(msg.Type)).Inc()
	}

	switch msg.Type {
	case action.TypeTool, action.TypePrompt:
		d.dispatchCorrelated(ctx, frame, msg, handler)
	default:
		result := handler(ctx, frame.ID(), msg)
		if !result.Success && result.Error != "" {
			logger.Warnw("fire-and-forget handler reported an error", "frameID", frame.ID(), "type", msg.Type, "error", result.Error)
		}
	}
}

func reasonFor(err error) string {
	switch {
	case mcpuierrors.IsInvalidOrigin(err):
		return "invalid_origin"
	case mcpuierrors.IsMalformedMessage(err):
		return "malformed_message"
	default:
		return "unknown"
	}
}

func (d *Dispatcher) dispatchCorrelated(ctx context.Context, frame render.Frame, msg *action.Message, handler Handler) {
	toolName := ""
	if msg.Tool != nil {
		toolName = msg.Tool.ToolName
	}

	sem := d.semaphoreFor(frame.ID())
	if err := sem.Acquire(ctx, 1); err != nil {
		d.post(frame, msg.RequestID, action.NewErrorResult("too many in-flight requests"))
		return
	}

	pr := &PendingRequest{
		RequestID: msg.RequestID,
		FrameID:   frame.ID(),
		ToolName:  toolName,
		CreatedAt: time.Now(),
		Timeout:   d.timeout,
	}

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	pr.cancel = cancel

	d.mu.Lock()
	d.pending[msg.RequestID] = pr
	d.mu.Unlock()
	if d.metrics != nil {
		d.metrics.InFlightRequests.Inc()
	}

	timer := time.AfterFunc(d.timeout, func() {
		if d.metrics != nil {
			d.metrics.RequestTimeouts.Inc()
		}
		d.settle(frame, pr, action.NewErrorResult("timeout"))
	})

	go func() {
		defer sem.Release(1)

		var spanCtx context.Context = reqCtx
		var span trace.Span
		if d.metrics != nil && toolName != "" {
			spanCtx, span = d.metrics.StartToolSpan(reqCtx, toolName)
		}

		result := handler(spanCtx, frame.ID(), msg)
		if span != nil {
			span.End()
		}
		if d.metrics != nil && toolName != "" {
			d.metrics.ToolInvocations.WithLabelValues(toolName, outcomeOf(result)).Inc()
		}

		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			// The deadline passed while the handler ran: its result is
			// late and is discarded in favour of the timeout response.
			result = action.NewErrorResult("timeout")
		}

		timer.Stop()
		cancel()
		d.settle(frame, pr, result)
	}()
}

func outcomeOf(result action.Result) string {
	if result.Success {
		return "success"
	}
	return "error"
}

// settle posts a response exactly once per PendingRequest; a second
// caller (timeout racing the handler, or vice versa) is a no-op.
func (d *Dispatcher) settle(frame render.Frame, pr *PendingRequest, result action.Result) {
	if !pr.settled.CompareAndSwap(false, true) {
		return
	}
	d.mu.Lock()
	delete(d.pending, pr.RequestID)
	d.mu.Unlock()
	if d.metrics != nil {
		d.metrics.InFlightRequests.Dec()
	}
	if d.onSettle != nil {
		d.onSettle(pr.FrameID, pr.RequestID, result)
	}
	d.post(frame, pr.RequestID, result)
}

func (d *Dispatcher) post(frame render.Frame, requestID string, result action.Result) {
	respMsg := action.NewResponseMessage(requestID, result)
	raw, err := respMsg.MarshalJSON()
	if err != nil {
		logger.Errorw("failed to encode response message", "frameID", frame.ID(), "requestId", requestID, "error", err.Error())
		return
	}
	select {
	case frame.Inbound() <- raw:
	default:
		logger.Warnw("frame inbound channel is full, dropping response", "frameID", frame.ID(), "requestId", requestID)
	}
}

func (d *Dispatcher) semaphoreFor(frameID string) *semaphore.Weighted {
	d.semMu.Lock()
	defer d.semMu.Unlock()
	sem, ok := d.sems[frameID]
	if !ok {
		sem = semaphore.NewWeighted(d.maxInFlight)
		d.sems[frameID] = sem
	}
	return sem
}

// CancelFrame settles every pending request owned by frameID locally as
// cancelled, without attempting to post to a torn-down frame.
func (d *Dispatcher) CancelFrame(frameID string) {
	d.mu.Lock()
	var toCancel []*PendingRequest
	for _, pr := range d.pending {
		if pr.FrameID == frameID {
			toCancel = append(toCancel, pr)
		}
	}
	for _, pr := range toCancel {
		delete(d.pending, pr.RequestID)
	}
	d.mu.Unlock()

	for _, pr := range toCancel {
		if pr.settled.CompareAndSwap(false, true) {
			if pr.cancel != nil {
				pr.cancel()
			}
			if d.metrics != nil {
				d.metrics.InFlightRequests.Dec()
			}
			if d.onSettle != nil {
				d.onSettle(pr.FrameID, pr.RequestID, action.NewErrorResult("cancelled"))
			}
		}
	}

	d.semMu.Lock()
	delete(d.sems, frameID)
	d.semMu.Unlock()
}
