package benchtop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/benchtop-ai/benchtop/descriptor"
	"github.com/benchtop-ai/benchtop/environ"
	"github.com/benchtop-ai/benchtop/exec"
	"github.com/benchtop-ai/benchtop/extract"
	"github.com/benchtop-ai/benchtop/health"
	"github.com/benchtop-ai/benchtop/registry"
	"github.com/benchtop-ai/benchtop/render"
	"github.com/benchtop-ai/benchtop/result"
	"github.com/benchtop-ai/benchtop/schema"
	"github.com/benchtop-ai/benchtop/toolerr"
)

// Engine loads tool descriptors from a directory and executes their
// operations. It is safe for concurrent use: the descriptor registry is an
// immutable snapshot swapped atomically on reload, and each invocation runs
// in its own working directory.
type Engine struct {
	toolsDir string
	runsRoot string
	logger   *slog.Logger
	tracer   trace.Tracer
	timeouts TimeoutConfig

	reg     atomic.Pointer[registry.Registry]
	watcher *watcher
}

// New creates an Engine and performs the initial descriptor load.
// Individually broken descriptor files are skipped with a warning; a
// duplicate composite operation name aborts the load.
//
// Example:
//
//	engine, err := benchtop.New(
//	    benchtop.WithToolsDir("./tools"),
//	    benchtop.WithRunsRoot("/tmp/benchtop-runs"),
//	    benchtop.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.toolsDir == "" {
		return nil, fmt.Errorf("%w: tools directory is required", ErrInvalidConfig)
	}
	if err := cfg.timeouts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer("benchtop")
	}
	if cfg.runsRoot == "" {
		cfg.runsRoot = filepath.Join(os.TempDir(), "benchtop-runs")
	}

	e := &Engine{
		toolsDir: cfg.toolsDir,
		runsRoot: cfg.runsRoot,
		logger:   cfg.logger,
		tracer:   cfg.tracer,
		timeouts: cfg.timeouts,
	}

	reg, err := registry.Load(e.toolsDir, e.logger)
	if err != nil {
		return nil, err
	}
	e.reg.Store(reg)
	e.logger.Info("registry loaded",
		"tools_dir", e.toolsDir,
		"operations", reg.Len(),
		"warnings", len(reg.Warnings()))

	if cfg.watch {
		w, err := newWatcher(e)
		if err != nil {
			return nil, fmt.Errorf("starting descriptor watcher: %w", err)
		}
		e.watcher = w
	}

	return e, nil
}

// Close releases engine resources. It stops the descriptor watcher if one
// is running. Close is safe to call more than once.
func (e *Engine) Close() error {
	if e.watcher != nil {
		return e.watcher.stop()
	}
	return nil
}

// Reload rescans the tools directory and atomically swaps in the new
// registry snapshot. On load failure the previous snapshot stays active and
// the error is returned. Invocations already running against the old
// snapshot are unaffected.
func (e *Engine) Reload() error {
	reg, err := registry.Load(e.toolsDir, e.logger)
	if err != nil {
		e.logger.Error("registry reload failed, keeping previous snapshot", "error", err)
		return err
	}
	e.reg.Store(reg)
	e.logger.Info("registry reloaded",
		"operations", reg.Len(),
		"warnings", len(reg.Warnings()))
	return nil
}

// Operations returns the sorted composite names of every registered
// operation.
func (e *Engine) Operations() []string {
	return e.reg.Load().Operations()
}

// Tools returns the sorted names of every registered tool.
func (e *Engine) Tools() []string {
	seen := map[string]bool{}
	var names []string
	for _, d := range e.reg.Load().Descriptors() {
		if !seen[d.Tool.Name] {
			seen[d.Tool.Name] = true
			names = append(names, d.Tool.Name)
		}
	}
	sort.Strings(names)
	return names
}

// OperationInfo describes a registered operation for callers that need to
// construct input maps or interpret outputs.
type OperationInfo struct {
	Tool        string              `json:"tool"`
	Operation   string              `json:"operation"`
	Description string              `json:"description,omitempty"`
	InputSchema schema.JSON         `json:"input_schema"`
	Outputs     []descriptor.Output `json:"outputs,omitempty"`
}

// Describe returns the metadata for a composite operation name, including
// a JSON Schema for its inputs and the outputs it declares.
func (e *Engine) Describe(name string) (OperationInfo, error) {
	entry, ok := e.reg.Load().Get(name)
	if !ok {
		return OperationInfo{}, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	return OperationInfo{
		Tool:        entry.Tool.Name,
		Operation:   entry.Operation.Name,
		Description: entry.Operation.Description,
		InputSchema: schema.ForOperation(entry.Operation),
		Outputs:     entry.Operation.Outputs,
	}, nil
}

// Warnings returns the non-fatal problems recorded during the last
// registry load, one message per skipped descriptor file.
func (e *Engine) Warnings() []string {
	return e.reg.Load().Warnings()
}

// Doctor runs prerequisite checks for every registered tool and returns
// the per-tool readiness, keyed by tool name. A tool that fails its check
// stays registered; invoking it will surface the underlying failure.
func (e *Engine) Doctor() map[string]health.Status {
	statuses := make(map[string]health.Status)
	for _, d := range e.reg.Load().Descriptors() {
		if _, done := statuses[d.Tool.Name]; done {
			continue
		}
		statuses[d.Tool.Name] = health.ToolCheck(&d.Tool)
	}
	return statuses
}

// Invoke executes the named operation with the supplied inputs and returns
// the structured invocation record.
//
// The composite name is "<tool>_<operation>". Inputs are validated and the
// command rendered before any process is spawned, so validation failures
// never leave a child process behind. A non-zero exit code is data on the
// returned Invocation, not an error; Invoke returns a non-nil error only
// for unknown operations, validation or template failures, spawn failures,
// and timeouts. On timeout the partial Invocation is returned alongside the
// error.
func (e *Engine) Invoke(ctx context.Context, name string, inputs map[string]any) (*result.Invocation, error) {
	ctx, span := e.tracer.Start(ctx, "benchtop.Invoke",
		trace.WithAttributes(attribute.String("benchtop.operation", name)))
	defer span.End()

	entry, ok := e.reg.Load().Get(name)
	if !ok {
		return nil, toolerr.New("", name, toolerr.ErrCodeUnknownOperation,
			fmt.Sprintf("no operation registered under %q", name)).
			WithCause(ErrUnknownOperation)
	}
	tool, op := entry.Tool, entry.Operation

	runID := newRunID()
	span.SetAttributes(attribute.String("benchtop.run_id", runID))

	base := tool.WorkingDirectory
	if base == "" {
		base = e.runsRoot
	}
	workDir := filepath.Join(base, fmt.Sprintf("%s_%s_%s", tool.Name, op.Name, runID))

	rendered, err := render.Command(tool, op, inputs, workDir, runID)
	if err != nil {
		return nil, err
	}

	command, err := environ.Wrap(rendered.Command, tool.Environment)
	if err != nil {
		return nil, toolerr.New(tool.Name, op.Name, toolerr.ErrCodeTemplateError, err.Error())
	}

	// Preflight only when the command starts with the bare binary; wrapped
	// environments resolve the binary inside the activated environment.
	if tool.Environment.Kind() == descriptor.EnvNone && !strings.ContainsRune(tool.Binary, os.PathSeparator) {
		if !exec.BinaryExists(tool.Binary) {
			return nil, toolerr.New(tool.Name, op.Name, toolerr.ErrCodeBinaryNotFound,
				fmt.Sprintf("binary %q not found in PATH", tool.Binary)).
				WithCause(toolerr.ErrBinaryNotFound)
		}
	}

	timeout := e.timeouts.Resolve(op.Timeout())
	e.logger.Info("invoking operation",
		"operation", name,
		"run_id", runID,
		"work_dir", workDir,
		"timeout", timeout)
	e.logger.Debug("rendered command", "operation", name, "command", command)

	res, err := exec.Run(ctx, exec.Config{
		Command: command,
		Shell:   true,
		WorkDir: workDir,
		Timeout: timeout,
	})

	inv := &result.Invocation{
		Operation: name,
		RunID:     runID,
		WorkDir:   workDir,
	}
	var stdout []byte
	if res != nil {
		stdout = res.Stdout
		inv.ExitCode = res.ExitCode
		inv.Stdout = string(res.Stdout)
		inv.Stderr = string(res.Stderr)
		inv.Truncated = res.Truncated
		inv.Duration = res.Duration
	}

	switch {
	case err == nil:
	case errors.Is(err, toolerr.ErrTimeout):
		inv.TimedOut = true
	default:
		span.SetAttributes(attribute.String("benchtop.error", err.Error()))
		return nil, toolerr.New(tool.Name, op.Name, toolerr.ErrCodeSpawnFailed, "failed to start command").
			WithCause(err)
	}

	// Extraction runs even after a timeout so that file outputs written
	// before the kill are still reported.
	inv.Outputs = extract.Outputs(op, rendered.Values, stdout)

	span.SetAttributes(
		attribute.Int("benchtop.exit_code", inv.ExitCode),
		attribute.Bool("benchtop.timed_out", inv.TimedOut),
	)

	quality := inv.AssessQuality()
	e.logger.Info("operation finished",
		"operation", name,
		"run_id", runID,
		"exit_code", inv.ExitCode,
		"timed_out", inv.TimedOut,
		"duration", inv.Duration,
		"quality", quality)
	for _, w := range inv.Warnings() {
		e.logger.Warn("invocation warning", "operation", name, "run_id", runID, "warning", w)
	}

	if inv.TimedOut {
		return inv, toolerr.New(tool.Name, op.Name, toolerr.ErrCodeTimeout,
			fmt.Sprintf("operation exceeded timeout of %v", timeout)).
			WithCause(toolerr.ErrTimeout)
	}
	return inv, nil
}

// newRunID returns a unique, filesystem-safe run identifier combining a UTC
// timestamp with a short random suffix.
func newRunID() string {
	ts := time.Now().UTC().Format("20060102T150405")
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return ts + "_" + suffix
}
