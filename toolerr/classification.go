package toolerr

// ErrorClass categorizes errors by their nature so the caller (typically an
// LLM agent) can reason about how to handle a failure without parsing
// message text.
type ErrorClass string

const (
	// ErrorClassInfrastructure indicates environment or setup issues.
	// Examples: binary missing, interpreter path wrong, spawn failure.
	ErrorClassInfrastructure ErrorClass = "infrastructure"

	// ErrorClassSemantic indicates input or configuration issues.
	// Examples: missing required input, value not in choices, bad template.
	ErrorClassSemantic ErrorClass = "semantic"

	// ErrorClassTransient indicates failures that may resolve on their own
	// or with adjusted parameters. Examples: timeouts.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassPermanent indicates non-recoverable failures.
	ErrorClassPermanent ErrorClass = "permanent"
)

// defaultClasses maps each standard error code to its usual class.
var defaultClasses = map[string]ErrorClass{
	ErrCodeBinaryNotFound:     ErrorClassInfrastructure,
	ErrCodeSpawnFailed:        ErrorClassInfrastructure,
	ErrCodeExecutionFailed:    ErrorClassPermanent,
	ErrCodeTimeout:            ErrorClassTransient,
	ErrCodeParseError:         ErrorClassSemantic,
	ErrCodeInvalidInput:       ErrorClassSemantic,
	ErrCodeTemplateError:      ErrorClassSemantic,
	ErrCodeUnknownOperation:   ErrorClassSemantic,
	ErrCodeDuplicateOperation: ErrorClassSemantic,
}

// DefaultClass returns the conventional class for a standard error code.
// Unknown codes classify as permanent.
func DefaultClass(code string) ErrorClass {
	if c, ok := defaultClasses[code]; ok {
		return c
	}
	return ErrorClassPermanent
}
