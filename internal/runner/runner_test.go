package runner

import (
	"strings"
	"testing"
)

func TestCommandExists(t *testing.T) {
	if !CommandExists("sh") {
		t.Error("expected sh to exist")
	}
	if CommandExists("definitely-not-a-real-command-xyz") {
		t.Error("expected nonexistent command to be reported missing")
	}
}

func TestExecRunnerExplicitPath(t *testing.T) {
	r := NewExecRunner("echo", "")
	if !r.Available() {
		t.Fatal("echo should be available")
	}
	if r.Command() != "echo" {
		t.Errorf("Command() = %q", r.Command())
	}

	out, err := r.Run("hello", "world")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if string(out) != "hello world" {
		t.Errorf("output = %q, expected trailing newline trimmed", out)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := &ExecRunner{}
	if r.Available() {
		t.Error("empty runner should not be available")
	}
	if _, err := r.Run("show"); err == nil {
		t.Error("expected an error when no binary is resolved")
	}
}

func TestExecRunnerCommandFailure(t *testing.T) {
	r := NewExecRunner("sh", "")
	_, err := r.Run("-c", "echo partial; exit 3")
	if err == nil {
		t.Fatal("expected an error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "sh") {
		t.Errorf("error should name the command: %v", err)
	}
}

func TestExecRunnerCapturesStderr(t *testing.T) {
	r := NewExecRunner("sh", "")
	out, err := r.Run("-c", "echo oops >&2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if string(out) != "oops" {
		t.Errorf("stderr not captured: %q", out)
	}
}
