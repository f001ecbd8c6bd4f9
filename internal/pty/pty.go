// Package pty manages the lifecycle of a child process attached to a
// pseudo-terminal: spawn, byte-stream I/O, window resizing, and best-effort
// cleanup of the child on release.
package pty

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// Default geometry for new sessions.
const (
	DefaultRows uint16 = 24
	DefaultCols uint16 = 80
)

// Session owns one PTY master and one child process. The master handle stays
// valid for the session's entire lifetime; Release terminates the child.
//
// Lifecycle: Created -> Running -> {Exited | Terminated}. A session whose
// child has exited cannot be restarted; callers replace it with a new one.
type Session struct {
	master *os.File
	cmd    *exec.Cmd

	mu       sync.Mutex
	rows     uint16
	cols     uint16
	released bool
}

// New allocates a PTY pair and spawns the given shell attached to the slave
// side. An empty shell falls back to DefaultShell. Returns a *SpawnError when
// the OS cannot allocate a PTY or exec the child.
func New(shell string, rows, cols uint16) (*Session, error) {
	if shell == "" {
		shell = DefaultShell()
	}
	cmd := exec.Command(shell)
	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: rows, Cols: cols})
	if err != nil {
		return nil, &SpawnError{Shell: shell, Cause: err}
	}
	return &Session{master: master, cmd: cmd, rows: rows, cols: cols}, nil
}

// NewDefault spawns a session with the default 24x80 geometry.
func NewDefault(shell string) (*Session, error) {
	return New(shell, DefaultRows, DefaultCols)
}

// DefaultShell returns $SHELL, or /bin/sh when unset.
func DefaultShell() string {
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return "/bin/sh"
}

// Resize applies new geometry to the live PTY. The change is applied to the
// kernel before Resize returns, so subsequent reads and writes observe it.
func (s *Session) Resize(rows, cols uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return &IOError{Op: "resize", Cause: os.ErrClosed}
	}
	if err := pty.Setsize(s.master, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		return &IOError{Op: "resize", Cause: err}
	}
	s.rows, s.cols = rows, cols
	return nil
}

// Size returns the currently configured geometry.
func (s *Session) Size() (rows, cols uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, s.cols
}

// Write forwards bytes to the child's input stream. Safe to call concurrently
// with Read; the master handle multiplexes both directions.
func (s *Session) Write(p []byte) (int, error) {
	n, err := s.master.Write(p)
	if err != nil {
		return n, &IOError{Op: "write", Cause: err}
	}
	return n, nil
}

// Read reads available output into p. Returns io.EOF once the child has
// exited and its output is drained. On Linux the master read fails with EIO
// after the slave side closes; that is end-of-stream, not an error.
func (s *Session) Read(p []byte) (int, error) {
	n, err := s.master.Read(p)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed) {
			return n, io.EOF
		}
		return n, &IOError{Op: "read", Cause: err}
	}
	return n, nil
}

// Pid returns the child process id, or -1 when unavailable.
func (s *Session) Pid() int {
	if s.cmd.Process == nil {
		return -1
	}
	return s.cmd.Process.Pid
}

// Release terminates the session: it sends a kill signal to the child and
// closes the master handle. It never waits for the child to exit, so it
// returns in bounded time even when the child ignores the signal; the child's
// exit status is not collected.
//
// Release is idempotent and safe to call from any goroutine.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.master.Close()
}
