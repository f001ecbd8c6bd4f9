package pty

import "fmt"

// SpawnError reports that a PTY could not be allocated or the child could not
// be executed. Fatal at session-creation time.
type SpawnError struct {
	Shell string
	Cause error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s on pty: %v", e.Shell, e.Cause)
}

func (e *SpawnError) Unwrap() error { return e.Cause }

// IOError reports a read, write, or resize failure on a session whose
// underlying handle is no longer usable (typically the child has exited).
// Callers keep the pane alive with its stale buffer rather than crash.
type IOError struct {
	Op    string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("pty %s: %v", e.Op, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }
