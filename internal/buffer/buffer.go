// Package buffer provides the bounded line buffer behind each pane and the
// collector goroutine that drains a live session's output into it.
package buffer

import "sync"

// DefaultMaxLines is the retained-line cap for pane buffers.
const DefaultMaxLines = 100

// LineBuffer is a mutex-guarded FIFO of text lines capped at a maximum
// retained count. Oldest lines are evicted first when the cap is exceeded.
// One writer (the collector or a polled-command refresh) and one reader
// (the render pass) share it; append-and-evict happens under a single lock
// acquisition so a reader never observes a partially-appended state.
type LineBuffer struct {
	mu    sync.RWMutex
	lines []string
	max   int
}

// NewLineBuffer creates an empty buffer retaining at most max lines.
// A non-positive max falls back to DefaultMaxLines.
func NewLineBuffer(max int) *LineBuffer {
	if max <= 0 {
		max = DefaultMaxLines
	}
	return &LineBuffer{max: max}
}

// Append adds lines and evicts from the front past the cap.
func (b *LineBuffer) Append(lines ...string) {
	if len(lines) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, lines...)
	if len(b.lines) > b.max {
		b.lines = b.lines[len(b.lines)-b.max:]
	}
}

// Replace swaps the entire contents, still honoring the cap. Used by polled
// panes, whose refresh policy is full replacement rather than append.
func (b *LineBuffer) Replace(lines []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(lines) > b.max {
		lines = lines[len(lines)-b.max:]
	}
	b.lines = append(b.lines[:0:0], lines...)
}

// Lines returns a snapshot copy of the buffer contents in order.
func (b *LineBuffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.lines...)
}

// Len returns the current line count.
func (b *LineBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}
