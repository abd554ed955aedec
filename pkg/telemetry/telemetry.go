// Package telemetry provides the Prometheus counters/gauges and
// OpenTelemetry spans the dispatcher and tool bridge emit around every
// dispatched message and tool invocation.
package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/stacklok/mcpui/pkg/dispatcher"

// Metrics bundles the Prometheus collectors this module registers. A
// process embedding mcpuihost owns the registry; Metrics never reaches
// for prometheus.DefaultRegisterer itself.
type Metrics struct {
	MessagesDispatched *prometheus.CounterVec
	MessagesDropped    *prometheus.CounterVec
	ToolInvocations    *prometheus.CounterVec
	RequestTimeouts    prometheus.Counter
	InFlightRequests   prometheus.Gauge

	tracer trace.Tracer
}

// NewMetrics constructs and registers every collector against reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		MessagesDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcpui",
			Name:      "messages_dispatched_total",
			Help:      "Inbound frame messages successfully classified and routed, by action type.",
		}, []string{"type"}),
		MessagesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcpui",
			Name:      "messages_dropped_total",
			Help:      "Inbound frame messages dropped by the codec, by rejection reason.",
		}, []string{"reason"}),
		ToolInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcpui",
			Name:      "tool_invocations_total",
			Help:      "Tool invocations routed through the tool execution bridge, by outcome.",
		}, []string{"tool", "outcome"}),
		RequestTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mcpui",
			Name:      "request_timeouts_total",
			Help:      "Correlated tool/prompt requests that settled via dispatcher timeout.",
		}),
		InFlightRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mcpui",
			Name:      "in_flight_requests",
			Help:      "Correlated tool/prompt requests currently awaiting settlement.",
		}),
		tracer: otel.Tracer(tracerName),
	}

	collectors := []prometheus.Collector{
		m.MessagesDispatched, m.MessagesDropped, m.ToolInvocations,
		m.RequestTimeouts, m.InFlightRequests,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// StartDispatchSpan opens a span around one Dispatch call.
func (m *Metrics) StartDispatchSpan(ctx context.Context, frameID string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "dispatcher.Dispatch", trace.WithAttributes(
		attribute.String("mcpui.frame_id", frameID),
	))
}

// StartToolSpan opens a span around one tool invocation.
func (m *Metrics) StartToolSpan(ctx context.Context, toolName string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "toolbridge.Invoke", trace.WithAttributes(
		attribute.String("mcpui.tool_name", toolName),
	))
}
