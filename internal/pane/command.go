package pane

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
)

// CommandRunner executes a shell-interpreted command string and returns its
// stdout and stderr separately. Injectable for tests; the default is
// runShellCommand.
type CommandRunner func(command string) (stdout, stderr string, err error)

// runShellCommand runs the command via `sh -c`, blocking until it completes.
// A non-zero exit is not an error here: whatever the command printed is
// still the output to display. Only a spawn failure (sh missing, fork
// failure) is reported as an error.
func runShellCommand(command string) (string, string, error) {
	cmd := exec.Command("sh", "-c", command)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", "", err
		}
	}
	return outBuf.String(), errBuf.String(), nil
}

// splitLines breaks command output into display lines, dropping the final
// empty element produced by a trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
