// Package input provides type coercion for caller-supplied parameter values.
//
// Invocation requests arrive as map[string]any, typically decoded from JSON,
// so numeric values may be float64, int, or strings, and booleans may arrive
// as strings. These functions coerce such values into the canonical textual
// form substituted into command templates, returning an error on a genuine
// type mismatch rather than guessing.
package input

import (
	"fmt"
	"math"
	"strconv"
)

// AsString coerces a value to its string form.
// Strings pass through; numbers and booleans canonicalize via AsNumber and
// AsBool. Other types are rejected.
func AsString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case bool:
		return strconv.FormatBool(s), nil
	case int, int32, int64, float32, float64:
		f, err := AsNumber(v)
		if err != nil {
			return "", err
		}
		return FormatNumber(f), nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

// AsNumber coerces a value to float64.
// Handles float64, float32, int, int32, int64, and numeric strings, covering
// the types JSON and YAML decoding produce.
func AsNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

// AsBool coerces a value to bool.
// Handles bool and the strings accepted by strconv.ParseBool.
func AsBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("expected boolean, got %q", b)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

// FormatNumber renders a number in its canonical command-line form:
// integers without a decimal point, everything else in the shortest
// representation that round-trips.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
