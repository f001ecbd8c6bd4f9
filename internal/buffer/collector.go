package buffer

import (
	"io"
	"strings"
)

// readChunkSize is the per-read chunk for draining session output.
const readChunkSize = 1024

// Collector drains a session's output stream into a LineBuffer. One collector
// runs per live session, on its own goroutine, so a slow render pass never
// blocks I/O drain.
type Collector struct {
	src  io.Reader
	buf  *LineBuffer
	done chan struct{}

	// onLines, when set, is called with the number of complete lines
	// committed per chunk. Used for metrics.
	onLines func(n int)
}

// NewCollector creates a collector reading from src into buf.
func NewCollector(src io.Reader, buf *LineBuffer) *Collector {
	return &Collector{src: src, buf: buf, done: make(chan struct{})}
}

// OnLines registers a callback invoked with the count of lines committed.
// Must be called before Start.
func (c *Collector) OnLines(fn func(n int)) { c.onLines = fn }

// Start launches the drain goroutine. The collector exits on end-of-stream
// or on the first read error; it does not retry and does not restart the
// session. Releasing the session makes the next read fail, which is how
// teardown reaches the collector.
func (c *Collector) Start() {
	go func() {
		defer close(c.done)
		chunk := make([]byte, readChunkSize)
		var partial strings.Builder
		for {
			n, err := c.src.Read(chunk)
			if n > 0 {
				partial.WriteString(strings.ToValidUTF8(string(chunk[:n]), "�"))
				c.commit(&partial)
			}
			if err != nil {
				return
			}
		}
	}()
}

// commit moves complete lines out of the partial accumulator into the
// buffer. Output that has not reached a newline boundary stays held back so
// the render path never shows a half-written line.
func (c *Collector) commit(partial *strings.Builder) {
	acc := partial.String()
	idx := strings.LastIndexByte(acc, '\n')
	if idx < 0 {
		return
	}
	complete, rest := acc[:idx], acc[idx+1:]
	lines := strings.Split(complete, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	c.buf.Append(lines...)
	if c.onLines != nil {
		c.onLines(len(lines))
	}
	partial.Reset()
	partial.WriteString(rest)
}

// Done is closed when the collector has exited.
func (c *Collector) Done() <-chan struct{} { return c.done }
