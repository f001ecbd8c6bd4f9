package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/splitmux/splitmux/internal/layout"
	"github.com/splitmux/splitmux/internal/pane"
)

// Styles
var (
	focusedBorderStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("14")) // cyan
	blurredBorderStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("15")) // white
	titleStyle         = lipgloss.NewStyle().Bold(true)
	accentStyles       = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // green
		lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // yellow
	}
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m *model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.mode == modeCommandInput {
		return m.viewCommandInput()
	}

	rects := m.rects()
	boxes := make([]string, len(m.panes))
	for i, p := range m.panes {
		boxes[i] = m.renderPane(p, rects[i], i)
	}

	var joined string
	if m.orientation == layout.Horizontal {
		joined = lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	} else {
		joined = lipgloss.JoinVertical(lipgloss.Left, boxes...)
	}

	var b strings.Builder
	b.WriteString(joined)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("q: Quit | v: Vertical | h: Horizontal | Tab: Switch focus | ↑/↓: Scroll | 1-4: Presets | c: Command"))
	if m.message != "" {
		b.WriteString("  ")
		b.WriteString(statusStyle.Render(m.message))
	}
	return b.String()
}

// renderPane draws one pane into its layout rectangle: a bordered box with a
// title line (focus marker appended), then the buffered lines with the
// scroll offset applied as a skip count.
func (m *model) renderPane(p *pane.Pane, r layout.Rect, idx int) string {
	innerW := r.Width - 2
	innerH := r.Height - 2
	if innerW < 1 || innerH < 1 {
		return ""
	}

	focused := idx == m.focused
	title := p.Title
	if p.Kind() == pane.SourcePolled && p.Command() != "" && p.Title != p.Command() {
		title = fmt.Sprintf("%s: %s", p.Title, p.Command())
	}
	if focused {
		title += " [FOCUSED]"
	}

	accent := accentStyles[0]
	if idx > 0 {
		accent = accentStyles[1]
	}

	rows := make([]string, 0, innerH)
	rows = append(rows, titleStyle.Render(truncate(title, innerW)))

	lines := p.Lines()
	if off := p.Scroll(); off < len(lines) {
		lines = lines[off:]
	} else {
		lines = nil
	}
	for _, l := range lines {
		if len(rows) >= innerH {
			break
		}
		rows = append(rows, accent.Render(truncate(l, innerW)))
	}

	border := blurredBorderStyle
	if focused {
		border = focusedBorderStyle
	}
	return border.
		Width(innerW).
		Height(innerH).
		Margin(layoutMargin).
		Render(strings.Join(rows, "\n"))
}

func (m *model) viewCommandInput() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("  Set Pane Command"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ─────────────────────────────────────────"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Pane: %d (%s)\n", m.focused+1, m.panes[m.focused].Title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  Enter=apply  Escape=cancel"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.cmdInput.View())
	b.WriteString("\n")

	return b.String()
}

// truncate cuts a string to at most max display runes. Pane content is raw
// line-buffered output; no ANSI interpretation happens here.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
