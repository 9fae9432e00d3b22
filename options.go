package benchtop

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures the Engine.
type Option func(*engineConfig)

// engineConfig holds configuration for an Engine instance.
type engineConfig struct {
	toolsDir string
	runsRoot string
	logger   *slog.Logger
	tracer   trace.Tracer
	timeouts TimeoutConfig
	watch    bool
}

// WithToolsDir sets the directory scanned for tool descriptor YAML files.
// Every *.yaml and *.yml file directly under the directory is loaded.
func WithToolsDir(dir string) Option {
	return func(c *engineConfig) {
		c.toolsDir = dir
	}
}

// WithRunsRoot sets the base directory under which per-invocation working
// directories are created. A tool descriptor's working_directory field, when
// set, takes precedence over this root for that tool.
func WithRunsRoot(dir string) Option {
	return func(c *engineConfig) {
		c.runsRoot = dir
	}
}

// WithLogger sets a custom logger for the engine.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for distributed tracing.
// Each invocation is recorded as a span carrying the operation name,
// run ID, and exit code.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *engineConfig) {
		c.tracer = tracer
	}
}

// WithTimeouts sets the timeout bounds applied to every operation.
// Descriptor timeouts are resolved and clamped through these bounds.
func WithTimeouts(tc TimeoutConfig) Option {
	return func(c *engineConfig) {
		c.timeouts = tc
	}
}

// WithWatch enables filesystem watching of the tools directory. When a
// descriptor file is created, modified, or removed, the engine reloads the
// registry and atomically swaps in the new snapshot.
func WithWatch(enabled bool) Option {
	return func(c *engineConfig) {
		c.watch = enabled
	}
}
