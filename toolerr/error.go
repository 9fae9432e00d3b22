// Package toolerr provides structured error types for descriptor-driven
// tool invocations.
//
// It defines standard error codes and a structured Error type that carries
// tool context, the failed operation, an error code, and a cause chain.
// It integrates with Go's standard errors package for wrapping and unwrapping.
package toolerr

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error codes used across the engine for consistent reporting.
const (
	// ErrCodeBinaryNotFound indicates the tool's binary is not in PATH.
	ErrCodeBinaryNotFound = "BINARY_NOT_FOUND"

	// ErrCodeSpawnFailed indicates the child process could not be started.
	ErrCodeSpawnFailed = "SPAWN_FAILED"

	// ErrCodeExecutionFailed indicates command execution failed.
	ErrCodeExecutionFailed = "EXECUTION_FAILED"

	// ErrCodeTimeout indicates an invocation exceeded its timeout.
	ErrCodeTimeout = "TIMEOUT"

	// ErrCodeParseError indicates failure to parse output or data.
	ErrCodeParseError = "PARSE_ERROR"

	// ErrCodeInvalidInput indicates caller-supplied inputs failed validation.
	ErrCodeInvalidInput = "INVALID_INPUT"

	// ErrCodeTemplateError indicates a command template could not be rendered.
	ErrCodeTemplateError = "TEMPLATE_ERROR"

	// ErrCodeUnknownOperation indicates a composite name not in the registry.
	ErrCodeUnknownOperation = "UNKNOWN_OPERATION"

	// ErrCodeDuplicateOperation indicates two descriptors declared the same
	// composite operation name.
	ErrCodeDuplicateOperation = "DUPLICATE_OPERATION"
)

// Error is a structured error for tool invocations. It records which tool
// and operation failed, a standard code, and optionally wraps a cause.
type Error struct {
	// Tool is the name of the tool that generated the error.
	Tool string

	// Operation is the specific operation that failed.
	Operation string

	// Code is one of the ErrCode constants.
	Code string

	// Message is a human-readable error message.
	Message string

	// Details contains additional context as key-value pairs.
	Details map[string]any

	// Cause is the underlying error, if any.
	Cause error

	// Class categorizes the error by its nature.
	Class ErrorClass `json:"class,omitempty"`
}

// New creates a new structured tool error. The error class is derived
// from the code via DefaultClass.
//
// Example:
//
//	err := toolerr.New("raspa", "run_gcmc", toolerr.ErrCodeTimeout, "run exceeded 1h")
func New(tool, operation, code, message string) *Error {
	return &Error{
		Tool:      tool,
		Operation: operation,
		Code:      code,
		Message:   message,
		Class:     DefaultClass(code),
	}
}

// WithCause attaches an underlying error and returns the same instance
// for chaining.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetails attaches additional context and returns the same instance
// for chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithClass overrides the error classification and returns the same
// instance for chaining.
func (e *Error) WithClass(class ErrorClass) *Error {
	e.Class = class
	return e
}

// Error implements the error interface.
// Format: "tool [operation/code]: message: cause".
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("%s [%s/%s]", e.Tool, e.Operation, e.Code)}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports code-level equality: two Errors match when Tool, Operation,
// and Code are all equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Tool == t.Tool && e.Operation == t.Operation && e.Code == t.Code
}

// As extracts the *Error from a wrapped chain.
func (e *Error) As(target any) bool {
	t, ok := target.(**Error)
	if !ok {
		return false
	}
	*t = e
	return true
}

// CodeOf returns the structured code of err, or ErrCodeExecutionFailed for
// errors that carry no code.
func CodeOf(err error) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ErrCodeExecutionFailed
}

// Sentinel errors for common scenarios.
var (
	// ErrBinaryNotFound is returned when a required binary is not in PATH.
	ErrBinaryNotFound = errors.New("binary not found")

	// ErrTimeout is returned when an invocation times out.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
