// Package result defines the structured outcome of a tool invocation:
// the extracted output values, the raw execution metadata, and a quality
// assessment over the extraction results.
package result

import (
	"time"
)

// Quality indicates the completeness of an invocation's extracted outputs.
type Quality string

const (
	// QualityFull means every declared output was extracted.
	QualityFull Quality = "full"

	// QualityPartial means some declared outputs were extracted, some missed.
	QualityPartial Quality = "partial"

	// QualityEmpty means every declared output missed.
	QualityEmpty Quality = "empty"
)

// Value is one extracted output: either data, or an extraction miss with
// the reason recorded. A miss is not an error; it is expected when tools
// misbehave or produce partial output.
type Value struct {
	// Data is the extracted value. Nil when Missing.
	Data any `json:"data,omitempty"`

	// Missing marks an extraction miss.
	Missing bool `json:"missing,omitempty"`

	// Reason explains a miss (pattern didn't match, file absent, bad JSON).
	Reason string `json:"reason,omitempty"`
}

// Ok builds a present Value.
func Ok(data any) Value {
	return Value{Data: data}
}

// Miss builds an absent Value with the recorded reason.
func Miss(reason string) Value {
	return Value{Missing: true, Reason: reason}
}

// Invocation is the complete result of one operation invocation. It is
// returned regardless of exit status: a non-zero exit is data for the
// caller to reason about, not an engine failure.
type Invocation struct {
	// Operation is the composite operation name that was invoked.
	Operation string `json:"operation"`

	// RunID identifies this run; it names the working directory.
	RunID string `json:"run_id"`

	// WorkDir is the working directory the process ran in. Artifacts
	// remain there for caller inspection.
	WorkDir string `json:"working_dir"`

	// ExitCode is the child process exit code.
	ExitCode int `json:"exit_code"`

	// TimedOut is set when the invocation was killed at its deadline.
	TimedOut bool `json:"timed_out,omitempty"`

	// Stdout and Stderr are the captured streams, possibly truncated.
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`

	// Truncated is set when either stream exceeded the capture cap.
	Truncated bool `json:"truncated,omitempty"`

	// Duration is the measured run time.
	Duration time.Duration `json:"duration"`

	// Outputs maps each declared output name to its extracted value or
	// recorded miss. One miss never suppresses the others.
	Outputs map[string]Value `json:"outputs"`
}

// Success reports whether the process exited zero without timing out.
func (r *Invocation) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// AssessQuality classifies the completeness of the extracted outputs.
// An operation that declares no outputs is trivially full.
func (r *Invocation) AssessQuality() Quality {
	if len(r.Outputs) == 0 {
		return QualityFull
	}
	missing := 0
	for _, v := range r.Outputs {
		if v.Missing {
			missing++
		}
	}
	switch missing {
	case 0:
		return QualityFull
	case len(r.Outputs):
		return QualityEmpty
	default:
		return QualityPartial
	}
}

// Warnings returns one message per extraction miss, for logging and for
// surfacing to the caller alongside the result.
func (r *Invocation) Warnings() []string {
	var warnings []string
	for name, v := range r.Outputs {
		if v.Missing {
			warnings = append(warnings, "output "+name+": "+v.Reason)
		}
	}
	return warnings
}

// stderrPreviewLimit bounds the stderr excerpt included in ToMap.
const stderrPreviewLimit = 500

// ToMap renders the invocation as the plain map handed across the protocol
// boundary. Output values flatten to their data, with misses represented
// as nulls alongside a miss-reason map; stderr is previewed rather than
// included in full.
func (r *Invocation) ToMap() map[string]any {
	outputs := make(map[string]any, len(r.Outputs))
	misses := make(map[string]string)
	for name, v := range r.Outputs {
		if v.Missing {
			outputs[name] = nil
			misses[name] = v.Reason
		} else {
			outputs[name] = v.Data
		}
	}

	m := map[string]any{
		"success":     r.Success(),
		"exit_code":   r.ExitCode,
		"outputs":     outputs,
		"run_id":      r.RunID,
		"working_dir": r.WorkDir,
		"duration_ms": r.Duration.Milliseconds(),
		"quality":     string(r.AssessQuality()),
	}
	if r.TimedOut {
		m["timed_out"] = true
	}
	if r.Truncated {
		m["output_truncated"] = true
	}
	if len(misses) > 0 {
		m["extraction_misses"] = misses
	}
	if r.Stderr != "" {
		preview := r.Stderr
		if len(preview) > stderrPreviewLimit {
			preview = preview[:stderrPreviewLimit]
		}
		m["stderr_preview"] = preview
	}
	return m
}
