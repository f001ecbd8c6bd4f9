// Package pane binds a title, a data source, and presentation state into one
// rectangular region of the multiplexed display. A pane's source is either a
// live PTY session or a polled command re-run on a fixed interval.
package pane

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/splitmux/splitmux/internal/buffer"
	"github.com/splitmux/splitmux/internal/pty"
)

var tracer = otel.Tracer("splitmux/pane")

// DefaultRefreshInterval is how often a polled command re-runs.
const DefaultRefreshInterval = 2 * time.Second

// stderrSeparator precedes captured stderr in a polled pane's buffer.
const stderrSeparator = "--- STDERR ---"

// SourceKind tags a pane's data source variant.
type SourceKind int

const (
	// SourceLive is an interactive shell on a PTY.
	SourceLive SourceKind = iota
	// SourcePolled is a one-shot command re-run periodically.
	SourcePolled
)

// Pane is one region of the display. Layout and focus logic treat panes
// uniformly; only Update and Write dispatch on the source variant.
type Pane struct {
	Title string

	kind SourceKind

	// live source
	sess *pty.Session
	coll *buffer.Collector

	// polled source
	command    string
	interval   time.Duration
	lastUpdate time.Time
	run        CommandRunner

	buf      *buffer.LineBuffer
	scroll   int
	maxLines int
	onLines  func(int)
}

// LiveOptions configures a live-session pane.
type LiveOptions struct {
	Shell    string
	Rows     uint16
	Cols     uint16
	MaxLines int
	// OnLines is invoked with the count of output lines committed by the
	// collector. Optional, used for metrics.
	OnLines func(int)
}

// NewLive spawns a shell on a PTY and starts the collector draining its
// output. Returns the *pty.SpawnError unwrapped from session creation on
// failure, which aborts multiplexer startup.
func NewLive(title string, o LiveOptions) (*Pane, error) {
	if o.Rows == 0 {
		o.Rows = pty.DefaultRows
	}
	if o.Cols == 0 {
		o.Cols = pty.DefaultCols
	}
	p := &Pane{
		Title:    title,
		kind:     SourceLive,
		buf:      buffer.NewLineBuffer(o.MaxLines),
		maxLines: o.MaxLines,
		onLines:  o.OnLines,
	}
	if err := p.attachSession(o.Shell, o.Rows, o.Cols); err != nil {
		return nil, err
	}
	return p, nil
}

// NewPolled creates a pane backed by a periodically re-run command. A
// non-positive interval falls back to DefaultRefreshInterval. The first
// Update call is immediately due.
func NewPolled(title, command string, interval time.Duration, maxLines int) *Pane {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Pane{
		Title:    title,
		kind:     SourcePolled,
		command:  command,
		interval: interval,
		run:      runShellCommand,
		buf:      buffer.NewLineBuffer(maxLines),
		maxLines: maxLines,
	}
}

func (p *Pane) attachSession(shell string, rows, cols uint16) error {
	sess, err := pty.New(shell, rows, cols)
	if err != nil {
		return err
	}
	p.sess = sess
	p.coll = buffer.NewCollector(sess, p.buf)
	if p.onLines != nil {
		p.coll.OnLines(p.onLines)
	}
	p.coll.Start()
	return nil
}

// Kind returns the source variant tag.
func (p *Pane) Kind() SourceKind { return p.kind }

// Command returns the polled command, or "" for live panes.
func (p *Pane) Command() string { return p.command }

// Update refreshes a polled pane's buffer when the refresh interval has
// elapsed since the last run. No-op for live panes and inside the window.
// The command runs synchronously, so a slow command stalls the caller for
// its entire runtime. Returns true when a refresh actually ran.
func (p *Pane) Update(ctx context.Context, now time.Time) bool {
	if p.kind != SourcePolled {
		return false
	}
	if !p.lastUpdate.IsZero() && now.Sub(p.lastUpdate) < p.interval {
		return false
	}
	p.lastUpdate = now

	_, span := tracer.Start(ctx, "refresh_command",
		trace.WithAttributes(
			attribute.String("pane.title", p.Title),
			attribute.String("pane.command", p.command),
		))
	defer span.End()

	stdout, stderr, err := p.run(p.command)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "spawn_error"))
		p.buf.Replace([]string{fmt.Sprintf("Error executing command: %v", err)})
		p.clampScroll()
		return true
	}
	lines := splitLines(stdout)
	if stderr != "" {
		lines = append(lines, stderrSeparator)
		lines = append(lines, splitLines(stderr)...)
	}
	span.SetAttributes(attribute.Int("pane.lines", len(lines)))
	p.buf.Replace(lines)
	p.clampScroll()
	return true
}

// Write forwards bytes to the live session's input stream. No-op for polled
// panes; keystrokes are only meaningful for an interactive shell.
func (p *Pane) Write(b []byte) (int, error) {
	if p.kind != SourceLive || p.sess == nil {
		return 0, nil
	}
	return p.sess.Write(b)
}

// Resize propagates new geometry to a live session's PTY.
func (p *Pane) Resize(rows, cols uint16) error {
	if p.kind != SourceLive || p.sess == nil {
		return nil
	}
	return p.sess.Resize(rows, cols)
}

// Lines returns a snapshot of the pane's buffer.
func (p *Pane) Lines() []string { return p.buf.Lines() }

// Scroll returns the current scroll offset.
func (p *Pane) Scroll() int { return p.scroll }

// ScrollUp moves the view one line toward older output.
func (p *Pane) ScrollUp() {
	p.scroll++
	p.clampScroll()
}

// ScrollDown moves the view one line toward newer output.
func (p *Pane) ScrollDown() {
	p.scroll--
	p.clampScroll()
}

// clampScroll keeps the offset within [0, max(0, lineCount-1)].
func (p *Pane) clampScroll() {
	maxOff := p.buf.Len() - 1
	if maxOff < 0 {
		maxOff = 0
	}
	if p.scroll > maxOff {
		p.scroll = maxOff
	}
	if p.scroll < 0 {
		p.scroll = 0
	}
}

// ReplaceWithLive swaps the pane's source for a fresh interactive shell,
// releasing any previous session and clearing the buffer and scroll state.
func (p *Pane) ReplaceWithLive(title, shell string, rows, cols uint16) error {
	p.release()
	p.Title = title
	p.kind = SourceLive
	p.command = ""
	p.buf = buffer.NewLineBuffer(p.maxLines)
	p.scroll = 0
	return p.attachSession(shell, rows, cols)
}

// ReplaceWithPolled swaps the pane's source for a polled command, releasing
// any previous live session. Scroll resets and the first refresh is due on
// the next Update.
func (p *Pane) ReplaceWithPolled(title, command string, interval time.Duration) {
	p.release()
	p.Title = title
	p.kind = SourcePolled
	p.command = command
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	p.interval = interval
	p.lastUpdate = time.Time{}
	if p.run == nil {
		p.run = runShellCommand
	}
	p.buf = buffer.NewLineBuffer(p.maxLines)
	p.scroll = 0
}

// Close releases the pane's live session, if any. Best-effort kill, never
// blocks on the child.
func (p *Pane) Close() { p.release() }

func (p *Pane) release() {
	if p.sess != nil {
		p.sess.Release()
		p.sess = nil
		p.coll = nil
	}
}
