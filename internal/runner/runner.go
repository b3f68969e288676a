package runner

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes one storcli invocation and returns its combined
// stdout+stderr with trailing whitespace trimmed. Process lifecycle
// (timeouts, signals) is owned here, not by the parsing core.
type Runner interface {
	Run(args ...string) ([]byte, error)
}

// CommandExists checks if a command is available in the system PATH
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// ExecRunner invokes the storcli binary through os/exec
type ExecRunner struct {
	command string
	dir     string
}

// NewExecRunner creates a runner for the given binary. An empty path
// probes the PATH for storcli64, then storcli.
func NewExecRunner(path, dir string) *ExecRunner {
	r := &ExecRunner{command: path, dir: dir}
	if r.command == "" {
		if CommandExists("storcli64") {
			r.command = "storcli64"
		} else if CommandExists("storcli") {
			r.command = "storcli"
		}
	}
	return r
}

// Available reports whether a usable binary was resolved
func (r *ExecRunner) Available() bool {
	return r.command != "" && CommandExists(r.command)
}

// Command returns the resolved binary name
func (r *ExecRunner) Command() string {
	return r.command
}

// Run executes the binary with the given arguments
func (r *ExecRunner) Run(args ...string) ([]byte, error) {
	if r.command == "" {
		return nil, fmt.Errorf("no storcli binary found in PATH")
	}

	cmd := exec.Command(r.command, args...)
	cmd.Dir = r.dir
	out, err := cmd.CombinedOutput()
	out = bytes.TrimRight(out, " \t\r\n")
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", r.command, strings.Join(args, " "), err)
	}
	return out, nil
}

// Version returns the first line of the tool's version output
func (r *ExecRunner) Version() string {
	if !r.Available() {
		return ""
	}
	out, err := r.Run("v")
	if err != nil {
		return "unknown"
	}
	lines := strings.Split(string(out), "\n")
	if len(lines) > 0 {
		return strings.TrimSpace(lines[0])
	}
	return ""
}
