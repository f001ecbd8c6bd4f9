// Package app drives the split-screen multiplexer: the event loop, focus and
// orientation state, key dispatch, and pane teardown.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/splitmux/splitmux/internal/config"
	"github.com/splitmux/splitmux/internal/layout"
	telem "github.com/splitmux/splitmux/internal/otel"
	"github.com/splitmux/splitmux/internal/pane"
	"github.com/splitmux/splitmux/internal/pty"
)

// pollInterval bounds redraw latency: even with no input, polled panes are
// refreshed and re-rendered on this cadence.
const pollInterval = 100 * time.Millisecond

// layoutMargin is the fixed inset around each pane.
const layoutMargin = 1

var tracer = otel.Tracer("splitmux/app")

// App runs the interactive multiplexer.
type App struct {
	Config  *config.Config
	Metrics *telem.Metrics
}

// Run spawns the initial panes and enters the event loop. A spawn failure at
// startup is fatal and returned to the caller; after the loop exits, all
// sessions are released (best-effort kill) regardless of how it ended.
func (a *App) Run(ctx context.Context) error {
	m, err := newModel(ctx, a.Config, a.Metrics)
	if err != nil {
		return err
	}
	defer m.closeAll()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// view mode
type viewMode int

const (
	modePanes viewMode = iota
	modeCommandInput
)

type tickMsg time.Time

// model implements tea.Model.
type model struct {
	ctx     context.Context
	cfg     *config.Config
	metrics *telem.Metrics

	panes       []*pane.Pane
	orientation layout.Orientation
	focused     int

	// command input state
	mode     viewMode
	cmdInput textinput.Model

	// dimensions
	width  int
	height int

	// status
	message string

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

func newModel(ctx context.Context, cfg *config.Config, metrics *telem.Metrics) (*model, error) {
	ti := textinput.New()
	ti.Placeholder = "Command to run every refresh interval..."
	ti.CharLimit = 512
	ti.Width = 60

	m := &model{
		ctx:      ctx,
		cfg:      cfg,
		metrics:  metrics,
		cmdInput: ti,
		now:      time.Now,
	}
	if cfg.Orientation == "horizontal" {
		m.orientation = layout.Horizontal
	}

	for i := 0; i < cfg.Panes; i++ {
		p, err := pane.NewLive(fmt.Sprintf("Terminal %d", i+1), pane.LiveOptions{
			Shell:    cfg.Shell,
			MaxLines: cfg.BufferLines,
			OnLines:  m.countLines,
		})
		if err != nil {
			// Unwind panes spawned so far; startup is all-or-nothing.
			for _, prev := range m.panes {
				prev.Close()
			}
			return nil, err
		}
		m.metrics.RecordSpawn(ctx)
		m.panes = append(m.panes, p)
	}
	return m, nil
}

func (m *model) countLines(n int) {
	m.metrics.RecordLines(m.ctx, int64(n))
}

// closeAll releases every pane's session. Kill is fire-and-forget, so this
// returns promptly even with misbehaving children.
func (m *model) closeAll() {
	for _, p := range m.panes {
		if p.Kind() == pane.SourceLive {
			m.metrics.RecordRelease(m.ctx)
		}
		p.Close()
	}
}

func (m *model) Init() tea.Cmd {
	return m.scheduleTick()
}

func (m *model) scheduleTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeSessions()
		return m, nil

	case tickMsg:
		for _, p := range m.panes {
			if p.Update(m.ctx, m.now()) {
				m.metrics.RecordRefresh(m.ctx)
			}
		}
		return m, m.scheduleTick()
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeCommandInput {
		return m.handleCommandInputKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "v":
		m.orientation = layout.Vertical
		m.resizeSessions()

	case "h":
		m.orientation = layout.Horizontal
		m.resizeSessions()

	case "tab":
		m.focused = (m.focused + 1) % len(m.panes)

	case "up":
		m.panes[m.focused].ScrollUp()

	case "down":
		m.panes[m.focused].ScrollDown()

	case "1", "2", "3", "4":
		m.applyPreset(msg.String())

	case "c":
		m.mode = modeCommandInput
		m.cmdInput.SetValue("")
		m.cmdInput.Focus()
		return m, textinput.Blink

	case "enter":
		m.forward([]byte("\n"))

	default:
		// Remaining printable characters go to the focused live session.
		// Keys claimed above (q, v, h, c, digits) are commands and are
		// never forwarded, so those characters cannot be typed into a shell.
		if msg.Type == tea.KeyRunes && !msg.Alt {
			m.forward([]byte(string(msg.Runes)))
		} else if msg.Type == tea.KeySpace {
			m.forward([]byte(" "))
		}
	}

	return m, nil
}

func (m *model) handleCommandInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modePanes
		m.cmdInput.Blur()
		return m, nil

	case "enter":
		command := m.cmdInput.Value()
		if command != "" {
			_, span := tracer.Start(m.ctx, "replace_pane",
				trace.WithAttributes(
					attribute.Int("pane.index", m.focused),
					attribute.String("preset.command", command),
				))
			p := m.panes[m.focused]
			if p.Kind() == pane.SourceLive {
				m.metrics.RecordRelease(m.ctx)
			}
			p.ReplaceWithPolled(command, command, m.cfg.RefreshDuration)
			span.End()
			m.metrics.RecordReplacement(m.ctx, "polled")
			m.message = fmt.Sprintf("Pane %d: %s", m.focused+1, command)
		}
		m.mode = modePanes
		m.cmdInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.cmdInput, cmd = m.cmdInput.Update(msg)
	return m, cmd
}

// forward sends bytes to the focused pane's live session. Write failures on
// an exited session are absorbed; the pane keeps showing its stale buffer
// until replaced.
func (m *model) forward(b []byte) {
	n, err := m.panes[m.focused].Write(b)
	if err == nil && n > 0 {
		m.metrics.RecordForwardedBytes(m.ctx, int64(n))
	}
}

// applyPreset replaces the focused pane per the configured digit preset.
// An empty preset command means a fresh interactive shell.
func (m *model) applyPreset(key string) {
	preset, ok := m.cfg.Presets[key]
	if !ok {
		return
	}
	_, span := tracer.Start(m.ctx, "replace_pane",
		trace.WithAttributes(
			attribute.Int("pane.index", m.focused),
			attribute.String("preset.key", key),
			attribute.String("preset.command", preset.Command),
		))
	defer span.End()

	p := m.panes[m.focused]
	if p.Kind() == pane.SourceLive {
		m.metrics.RecordRelease(m.ctx)
	}

	title := preset.Title
	if title == "" {
		title = preset.Command
	}

	if preset.Command == "" {
		rows, cols := m.paneGeometry(m.focused)
		if err := p.ReplaceWithLive(title, m.cfg.Shell, rows, cols); err != nil {
			// Spawn failure after startup is pane-local, not fatal.
			span.SetAttributes(attribute.String("error.type", "spawn_error"))
			m.message = fmt.Sprintf("Replace failed: %v", err)
			return
		}
		m.metrics.RecordSpawn(m.ctx)
		m.metrics.RecordReplacement(m.ctx, "live")
		m.message = fmt.Sprintf("Pane %d: new shell", m.focused+1)
		return
	}

	p.ReplaceWithPolled(title, preset.Command, m.cfg.RefreshDuration)
	m.metrics.RecordReplacement(m.ctx, "polled")
	m.message = fmt.Sprintf("Pane %d: %s", m.focused+1, preset.Command)
}

// rects computes the current pane rectangles. The bottom row is reserved for
// the instructions line.
func (m *model) rects() []layout.Rect {
	area := layout.Rect{Width: m.width, Height: m.height - 1}
	return layout.Split(m.orientation, len(m.panes), area, layoutMargin)
}

// paneGeometry returns the PTY geometry for pane i: its layout rectangle
// minus the border cells, with the default as a floor before the first
// WindowSizeMsg arrives.
func (m *model) paneGeometry(i int) (rows, cols uint16) {
	rows, cols = pty.DefaultRows, pty.DefaultCols
	if m.width == 0 || m.height == 0 {
		return rows, cols
	}
	rects := m.rects()
	if i >= len(rects) {
		return rows, cols
	}
	r := rects[i]
	if h := r.Height - 2; h > 0 {
		rows = uint16(h)
	}
	if w := r.Width - 2; w > 0 {
		cols = uint16(w)
	}
	return rows, cols
}

// resizeSessions propagates the current layout geometry to every live
// session's PTY. Failures mean the child already exited; the pane keeps its
// stale buffer.
func (m *model) resizeSessions() {
	if m.width == 0 || m.height == 0 {
		return
	}
	for i, p := range m.panes {
		rows, cols := m.paneGeometry(i)
		_ = p.Resize(rows, cols)
	}
}
