package pty

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

const testShell = "/bin/sh"

func TestNewAndResize(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols uint16
	}{
		{"default", 24, 80},
		{"small", 10, 40},
		{"large", 60, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(testShell, tt.rows, tt.cols)
			if err != nil {
				t.Fatalf("New(%d, %d): %v", tt.rows, tt.cols, err)
			}
			defer s.Release()

			rows, cols := s.Size()
			if rows != tt.rows || cols != tt.cols {
				t.Errorf("Size: got %dx%d, want %dx%d", rows, cols, tt.rows, tt.cols)
			}

			if err := s.Resize(30, 100); err != nil {
				t.Errorf("Resize(30, 100): %v", err)
			}
			rows, cols = s.Size()
			if rows != 30 || cols != 100 {
				t.Errorf("Size after resize: got %dx%d, want 30x100", rows, cols)
			}
		})
	}
}

func TestEchoRoundTrip(t *testing.T) {
	s, err := NewDefault(testShell)
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	defer s.Release()

	// Drain output on a separate goroutine, the way the collector does.
	var mu sync.Mutex
	var out strings.Builder
	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := s.Read(buf)
			if n > 0 {
				mu.Lock()
				out.Write(buf[:n])
				mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()

	if _, err := s.Write([]byte("echo hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		got := out.String()
		mu.Unlock()
		if strings.Contains(got, "hello") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("shell output never contained 'hello'")
}

func TestReleaseIsNonBlocking(t *testing.T) {
	s, err := NewDefault(testShell)
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}

	start := time.Now()
	s.Release()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("Release took %v, want a negligible bounded duration", elapsed)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	s, err := NewDefault(testShell)
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	s.Release()
	s.Release() // must not panic or block
}

func TestReadReturnsEOFAfterRelease(t *testing.T) {
	s, err := NewDefault(testShell)
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	s.Release()

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 256)
		for {
			_, err := s.Read(buf)
			if err != nil {
				done <- err
				return
			}
		}
	}()

	select {
	case err := <-done:
		if !errors.Is(err, io.EOF) {
			t.Fatalf("expected io.EOF after release, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read did not return after release")
	}
}

func TestResizeAfterReleaseFails(t *testing.T) {
	s, err := NewDefault(testShell)
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	s.Release()

	err = s.Resize(30, 100)
	if err == nil {
		t.Fatal("expected error resizing a released session")
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T: %v", err, err)
	}
	if ioErr.Op != "resize" {
		t.Errorf("Op: got %q, want %q", ioErr.Op, "resize")
	}
}

func TestSpawnErrorOnMissingShell(t *testing.T) {
	_, err := New("/nonexistent/shell-for-test", 24, 80)
	if err == nil {
		t.Fatal("expected error for missing shell")
	}
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected *SpawnError, got %T: %v", err, err)
	}
	if spawnErr.Unwrap() == nil {
		t.Error("SpawnError should wrap its cause")
	}
}

func TestDefaultShellFallback(t *testing.T) {
	t.Setenv("SHELL", "")
	if got := DefaultShell(); got != "/bin/sh" {
		t.Errorf("DefaultShell with empty $SHELL: got %q, want /bin/sh", got)
	}
	t.Setenv("SHELL", "/bin/bash")
	if got := DefaultShell(); got != "/bin/bash" {
		t.Errorf("DefaultShell: got %q, want /bin/bash", got)
	}
}
