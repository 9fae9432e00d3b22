// Package render turns an operation's command template plus caller-supplied
// input values into the final shell command.
//
// Rendering is faithful substitution over a small fixed vocabulary: each
// input's rendered fragment, {binary}, {working_dir}, and {run_id}. No shell
// metacharacter escaping is performed; descriptor authors are the trust
// boundary, and caller values are substituted verbatim by documented design.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/benchtop-ai/benchtop/descriptor"
	"github.com/benchtop-ai/benchtop/input"
	"github.com/benchtop-ai/benchtop/toolerr"
)

var placeholderRe = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// Rendered is the outcome of rendering an operation: the final command
// string plus the coerced input values, which output path templates may
// also reference.
type Rendered struct {
	// Command is the final shell command.
	Command string

	// Values maps each present input name to its coerced textual value
	// (before arg_template application), plus the reserved working_dir
	// and run_id entries. Absent optional inputs are not present.
	Values map[string]string
}

// Command validates the supplied values against the operation's input specs
// and renders the final command string.
//
// Validation happens before any substitution: unknown keys are rejected,
// required inputs must be present (required inputs never carry defaults),
// values are coerced to their declared type, and choice values must be in
// the declared set. Absent optional inputs contribute nothing, so optional
// flags vanish from the command instead of rendering as empty values.
//
// Substitution is a single pass over the command template: each placeholder
// is replaced by its fragment, and fragments are inserted literally, never
// re-expanded. A template placeholder naming no input or reserved fragment
// is a template error.
func Command(tool *descriptor.Tool, op *descriptor.Operation, supplied map[string]any, workDir, runID string) (*Rendered, error) {
	for key := range supplied {
		if op.Input(key) == nil {
			return nil, toolerr.New(tool.Name, op.Name, toolerr.ErrCodeInvalidInput,
				fmt.Sprintf("unknown input %q", key)).WithCause(toolerr.ErrInvalidInput)
		}
	}

	values := map[string]string{
		"working_dir": workDir,
		"run_id":      runID,
	}
	fragments := map[string]string{
		"binary":      tool.Binary,
		"working_dir": workDir,
		"run_id":      runID,
	}

	for i := range op.Inputs {
		in := &op.Inputs[i]
		val, ok := supplied[in.Name]
		if !ok || val == nil {
			if in.Default != nil {
				val = in.Default
			} else if in.Required {
				return nil, toolerr.New(tool.Name, op.Name, toolerr.ErrCodeInvalidInput,
					fmt.Sprintf("missing required input %q", in.Name)).WithCause(toolerr.ErrInvalidInput)
			} else {
				fragments[in.Name] = ""
				continue
			}
		}

		text, err := coerce(in, val)
		if err != nil {
			return nil, toolerr.New(tool.Name, op.Name, toolerr.ErrCodeInvalidInput,
				fmt.Sprintf("input %q: %v", in.Name, err)).WithCause(toolerr.ErrInvalidInput)
		}

		tmpl := in.ArgTemplate
		if tmpl == "" {
			tmpl = "{value}"
		}
		values[in.Name] = text
		fragments[in.Name] = strings.ReplaceAll(tmpl, "{value}", text)
	}

	// Single pass over the template only. Fragments are inserted literally
	// and never re-scanned, so brace tokens inside caller values stay
	// verbatim in the command.
	var renderErr error
	command := placeholderRe.ReplaceAllStringFunc(op.CommandTemplate, func(match string) string {
		fragment, ok := fragments[match[1:len(match)-1]]
		if !ok {
			if renderErr == nil {
				renderErr = toolerr.New(tool.Name, op.Name, toolerr.ErrCodeTemplateError,
					fmt.Sprintf("unresolved placeholder %s in command template", match))
			}
			return match
		}
		return fragment
	})
	if renderErr != nil {
		return nil, renderErr
	}

	return &Rendered{Command: command, Values: values}, nil
}

// coerce is the single dispatch point over input kinds. It produces the
// value's canonical textual form for command-line substitution.
func coerce(in *descriptor.Input, val any) (string, error) {
	switch in.Type {
	case descriptor.InputString:
		return input.AsString(val)

	case descriptor.InputNumber:
		n, err := input.AsNumber(val)
		if err != nil {
			return "", err
		}
		return input.FormatNumber(n), nil

	case descriptor.InputBoolean:
		b, err := input.AsBool(val)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%t", b), nil

	case descriptor.InputFile:
		// A literal path; existence is the invoked tool's concern.
		s, ok := val.(string)
		if !ok {
			return "", fmt.Errorf("expected file path string, got %T", val)
		}
		return s, nil

	case descriptor.InputChoice:
		s, err := input.AsString(val)
		if err != nil {
			return "", err
		}
		for _, c := range in.Choices {
			if s == c {
				return s, nil
			}
		}
		return "", fmt.Errorf("value %q not in choices %v", s, in.Choices)

	default:
		return "", fmt.Errorf("unknown input type %q", in.Type)
	}
}
