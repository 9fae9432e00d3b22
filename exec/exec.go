// Package exec provides command execution utilities with timeout support.
// It wraps os/exec with a simple, context-aware API for executing shell
// commands in a dedicated working directory and capturing their output.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/benchtop-ai/benchtop/toolerr"
)

// DefaultMaxOutput is the capture cap applied to each of stdout and stderr
// when Config.MaxOutputBytes is zero. Output past the cap is discarded and
// the result is flagged truncated; it never fails the run.
const DefaultMaxOutput = 4 << 20 // 4 MiB

// Config holds the configuration for command execution.
type Config struct {
	// Command is the name or path of the command to execute (required).
	// With Shell set, it is a full shell command line instead.
	Command string

	// Args are the command-line arguments (ignored when Shell is set).
	Args []string

	// Shell runs Command through `/bin/sh -c`, so redirections, &&, and
	// environment-activation chains in rendered commands work.
	Shell bool

	// WorkDir is the working directory for the command. It is created
	// (with parents) if absent, and is never cleaned up afterwards:
	// artifacts must remain for output extraction and caller inspection.
	WorkDir string

	// Env specifies the environment in "KEY=value" form. If nil, the
	// command inherits the parent process environment.
	Env []string

	// Timeout bounds total run time. Zero means no timeout beyond the
	// parent context.
	Timeout time.Duration

	// StdinData is sent to the command's stdin (optional).
	StdinData []byte

	// MaxOutputBytes caps each captured stream. Zero means DefaultMaxOutput.
	MaxOutputBytes int
}

// Result holds the result of command execution.
type Result struct {
	// Stdout contains the captured stdout, up to the configured cap.
	Stdout []byte

	// Stderr contains the captured stderr, up to the configured cap.
	Stderr []byte

	// ExitCode is the process exit code; 0 indicates success.
	ExitCode int

	// Duration is the actual execution time.
	Duration time.Duration

	// Truncated is set when either stream exceeded the capture cap.
	Truncated bool
}

// limitWriter captures up to max bytes and drops the rest, recording that
// truncation happened.
type limitWriter struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if room := w.max - w.buf.Len(); room > 0 {
		if len(p) > room {
			w.buf.Write(p[:room])
			w.truncated = true
		} else {
			w.buf.Write(p)
		}
	} else if len(p) > 0 {
		w.truncated = true
	}
	// Report full success so the child never sees a write error.
	return len(p), nil
}

// Run executes a command with the given configuration.
//
// A non-zero exit code is not treated as an error: the Result is returned
// with the exit code populated so the caller can decide how to handle it.
// A timeout returns the partial Result together with an error wrapping
// toolerr.ErrTimeout; the child's whole process group is killed so any
// descendants it spawned die with it. Only actual execution failures
// (binary not found, permission denied, unstartable shell) return other
// errors.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Command == "" {
		return nil, errors.New("command is required")
	}

	if cfg.WorkDir != "" {
		if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating working directory: %w", err)
		}
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var cmd *exec.Cmd
	if cfg.Shell {
		cmd = exec.CommandContext(ctx, "/bin/sh", "-c", cfg.Command)
	} else {
		cmd = exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	}

	if cfg.WorkDir != "" {
		cmd.Dir = cfg.WorkDir
	}
	if cfg.Env != nil {
		cmd.Env = cfg.Env
	}

	maxOut := cfg.MaxOutputBytes
	if maxOut <= 0 {
		maxOut = DefaultMaxOutput
	}
	stdout := &limitWriter{max: maxOut}
	stderr := &limitWriter{max: maxOut}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if len(cfg.StdinData) > 0 {
		cmd.Stdin = bytes.NewReader(cfg.StdinData)
	}

	// Run the child in its own process group and take the whole group
	// down on cancellation, so sleeping grandchildren cannot outlive a
	// timed-out invocation.
	setProcGroup(cmd)
	cmd.Cancel = func() error { return killGroup(cmd) }
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &Result{
		Stdout:    stdout.buf.Bytes(),
		Stderr:    stderr.buf.Bytes(),
		ExitCode:  0,
		Duration:  duration,
		Truncated: stdout.truncated || stderr.truncated,
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return result, fmt.Errorf("command timed out after %v: %w", cfg.Timeout, toolerr.ErrTimeout)
		}
		if ctx.Err() == context.Canceled {
			return result, fmt.Errorf("command cancelled: %w", ctx.Err())
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}

		// Spawn failure: binary not found, permission denied, etc.
		return result, fmt.Errorf("command execution failed: %w", err)
	}

	return result, nil
}

// BinaryExists checks if a binary exists in the system PATH.
func BinaryExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// BinaryPath returns the full path to a binary in the system PATH.
// It returns an error if the binary is not found.
func BinaryPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("binary %q not found in PATH: %w", name, err)
	}
	return path, nil
}
