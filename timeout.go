package benchtop

import (
	"fmt"
	"time"
)

// TimeoutConfig defines timeout bounds for operation execution.
// It specifies default, minimum, and maximum values that constrain the
// per-operation timeout taken from a descriptor.
type TimeoutConfig struct {
	// Default is the timeout to use if the descriptor doesn't specify one.
	// A zero value means use the engine default (1 hour).
	Default time.Duration

	// Max is the maximum allowed timeout for any operation.
	// A zero value means no upper bound is enforced.
	Max time.Duration

	// Min is the minimum allowed timeout for any operation.
	// A zero value means no lower bound is enforced.
	Min time.Duration
}

// Validate checks that the timeout configuration is internally consistent.
// It verifies that min <= max when both are set, and that the default falls
// within the min/max bounds when set.
func (c TimeoutConfig) Validate() error {
	if c.Min > 0 && c.Max > 0 && c.Min > c.Max {
		return fmt.Errorf("min timeout %v exceeds max timeout %v", c.Min, c.Max)
	}
	if c.Default > 0 {
		if c.Min > 0 && c.Default < c.Min {
			return fmt.Errorf("default timeout %v below min %v", c.Default, c.Min)
		}
		if c.Max > 0 && c.Default > c.Max {
			return fmt.Errorf("default timeout %v exceeds max %v", c.Default, c.Max)
		}
	}
	return nil
}

// Resolve returns the effective timeout for an operation.
// Precedence: the descriptor's requested timeout if positive, then the
// configured default, then the engine default of one hour. The result is
// clamped to the configured min/max bounds.
func (c TimeoutConfig) Resolve(requested time.Duration) time.Duration {
	d := requested
	if d <= 0 {
		d = c.Default
	}
	if d <= 0 {
		d = time.Hour
	}
	if c.Min > 0 && d < c.Min {
		d = c.Min
	}
	if c.Max > 0 && d > c.Max {
		d = c.Max
	}
	return d
}
