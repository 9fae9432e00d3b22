// Package health provides preflight checks for registered tools.
// It offers standardized ways to verify that a descriptor's binary and
// runtime environment are actually present on the host before any
// invocation is attempted.
package health

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/benchtop-ai/benchtop/descriptor"
)

// Status constants represent the readiness of a registered tool.
const (
	// StatusHealthy indicates the tool is ready to invoke.
	StatusHealthy = "healthy"

	// StatusDegraded indicates the tool is invocable but something about
	// its setup looks wrong.
	StatusDegraded = "degraded"

	// StatusUnhealthy indicates invocations of the tool will fail.
	StatusUnhealthy = "unhealthy"
)

// Status reports the readiness of a tool or one of its prerequisites.
type Status struct {
	// Status is the current state (healthy, degraded, or unhealthy).
	Status string `json:"status"`

	// Message provides a human-readable description of the state.
	Message string `json:"message,omitempty"`

	// Details contains additional diagnostic context.
	Details map[string]any `json:"details,omitempty"`
}

// IsHealthy returns true if the status is StatusHealthy.
func (s Status) IsHealthy() bool {
	return s.Status == StatusHealthy
}

// IsUnhealthy returns true if the status is StatusUnhealthy.
func (s Status) IsUnhealthy() bool {
	return s.Status == StatusUnhealthy
}

// Healthy creates a healthy status with an optional message.
func Healthy(message string) Status {
	return Status{Status: StatusHealthy, Message: message}
}

// Degraded creates a degraded status with a message and optional details.
func Degraded(message string, details map[string]any) Status {
	return Status{Status: StatusDegraded, Message: message, Details: details}
}

// Unhealthy creates an unhealthy status with a message and optional details.
func Unhealthy(message string, details map[string]any) Status {
	return Status{Status: StatusUnhealthy, Message: message, Details: details}
}

// BinaryCheck verifies that a binary exists in PATH, or at the given path
// when the name contains a path separator.
//
// Example:
//
//	status := health.BinaryCheck("gmx")
//	if status.IsUnhealthy() {
//	    log.Fatal("gromacs is required but not installed")
//	}
func BinaryCheck(name string) Status {
	if name == "" {
		return Unhealthy("binary name cannot be empty", nil)
	}

	if filepath.Base(name) != name {
		info, err := os.Stat(name)
		if err != nil || info.IsDir() {
			return Unhealthy(fmt.Sprintf("binary %q not found", name),
				map[string]any{"binary": name})
		}
		return Healthy(fmt.Sprintf("binary %q present", name))
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return Unhealthy(fmt.Sprintf("binary %q not found in PATH", name),
			map[string]any{"binary": name, "error": err.Error()})
	}
	return Healthy(fmt.Sprintf("binary %q found at %s", name, path))
}

// FileCheck verifies that a regular file exists at the given path.
func FileCheck(path string) Status {
	info, err := os.Stat(path)
	if err != nil {
		return Unhealthy(fmt.Sprintf("file %q not found", path),
			map[string]any{"path": path, "error": err.Error()})
	}
	if info.IsDir() {
		return Unhealthy(fmt.Sprintf("%q is a directory, expected a file", path),
			map[string]any{"path": path})
	}
	return Healthy(fmt.Sprintf("file %q present", path))
}

// EnvironmentCheck verifies that the runtime environment a descriptor
// declares can actually be entered on this host: the conda or pyenv binary
// is installed, the venv activate script exists, or the direct python path
// points at a file.
func EnvironmentCheck(env *descriptor.Environment) Status {
	switch env.Kind() {
	case descriptor.EnvNone:
		return Healthy("no environment wrapper")

	case descriptor.EnvPath:
		return FileCheck(env.PythonPath)

	case descriptor.EnvConda:
		if env.ActivateScript != "" {
			if st := FileCheck(env.ActivateScript); st.IsUnhealthy() {
				return st
			}
		}
		return BinaryCheck("conda")

	case descriptor.EnvVenv:
		return FileCheck(filepath.Join(env.EnvName, "bin", "activate"))

	case descriptor.EnvPyenv:
		return BinaryCheck("pyenv")

	default:
		return Unhealthy(fmt.Sprintf("unknown environment type %q", env.Type), nil)
	}
}

// ToolCheck runs every prerequisite check for a tool descriptor and folds
// the results into a single status. The binary check is skipped for wrapped
// environments, where the binary only resolves inside the environment.
func ToolCheck(tool *descriptor.Tool) Status {
	if st := EnvironmentCheck(tool.Environment); !st.IsHealthy() {
		return st
	}
	if tool.Environment.Kind() == descriptor.EnvNone {
		if st := BinaryCheck(tool.Binary); !st.IsHealthy() {
			return st
		}
	}
	if tool.WorkingDirectory != "" {
		if info, err := os.Stat(tool.WorkingDirectory); err == nil && !info.IsDir() {
			return Degraded(fmt.Sprintf("working_directory %q is not a directory", tool.WorkingDirectory),
				map[string]any{"path": tool.WorkingDirectory})
		}
	}
	return Healthy("ready")
}
