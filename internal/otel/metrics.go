package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "splitmux"

// Metrics holds all OTEL metric instruments for splitmux.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// PTY session lifecycle counters
	SessionsSpawned  metric.Int64Counter
	SessionsReleased metric.Int64Counter

	// Output pipeline counters
	CollectedLines metric.Int64Counter

	// Pane activity counters
	CommandRefreshes  metric.Int64Counter
	PaneReplacements  metric.Int64Counter
	ForwardedKeyBytes metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	// --- Session lifecycle counters ---

	m.SessionsSpawned, err = meter.Int64Counter("pty.sessions.spawned",
		metric.WithDescription("Total PTY sessions spawned"))
	if err != nil {
		return nil, err
	}

	m.SessionsReleased, err = meter.Int64Counter("pty.sessions.released",
		metric.WithDescription("Total PTY sessions released (child killed best-effort)"))
	if err != nil {
		return nil, err
	}

	// --- Output pipeline counters ---

	m.CollectedLines, err = meter.Int64Counter("collector.lines",
		metric.WithDescription("Total complete output lines committed by collectors"),
		metric.WithUnit("{line}"))
	if err != nil {
		return nil, err
	}

	// --- Pane activity counters ---

	m.CommandRefreshes, err = meter.Int64Counter("pane.command_refreshes",
		metric.WithDescription("Total polled-command executions"))
	if err != nil {
		return nil, err
	}

	m.PaneReplacements, err = meter.Int64Counter("pane.replacements",
		metric.WithDescription("Total pane source replacements, partitioned by target kind"))
	if err != nil {
		return nil, err
	}

	m.ForwardedKeyBytes, err = meter.Int64Counter("input.forwarded_bytes",
		metric.WithDescription("Total keystroke bytes forwarded to live sessions"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSpawn records a PTY session spawn.
func (m *Metrics) RecordSpawn(ctx context.Context) {
	if m == nil {
		return
	}
	m.SessionsSpawned.Add(ctx, 1)
}

// RecordRelease records a PTY session release.
func (m *Metrics) RecordRelease(ctx context.Context) {
	if m == nil {
		return
	}
	m.SessionsReleased.Add(ctx, 1)
}

// RecordLines records output lines committed by a collector.
func (m *Metrics) RecordLines(ctx context.Context, n int64) {
	if m == nil {
		return
	}
	m.CollectedLines.Add(ctx, n)
}

// RecordRefresh records one polled-command execution.
func (m *Metrics) RecordRefresh(ctx context.Context) {
	if m == nil {
		return
	}
	m.CommandRefreshes.Add(ctx, 1)
}

// RecordReplacement records a pane source replacement with the target kind
// ("live" or "polled").
func (m *Metrics) RecordReplacement(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.PaneReplacements.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pane.kind", kind),
	))
}

// RecordForwardedBytes records keystroke bytes forwarded to a live session.
func (m *Metrics) RecordForwardedBytes(ctx context.Context, n int64) {
	if m == nil {
		return
	}
	m.ForwardedKeyBytes.Add(ctx, n)
}
