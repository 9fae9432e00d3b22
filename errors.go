package benchtop

import "errors"

// Sentinel errors for common engine conditions, usable with errors.Is.
var (
	// ErrUnknownOperation indicates a composite operation name that is
	// not present in the current registry snapshot.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidConfig indicates the engine was constructed with an
	// invalid or incomplete configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)
