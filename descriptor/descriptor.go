package descriptor

import (
	"fmt"
	"time"
)

// EnvType identifies how a tool's binary is reached at invocation time.
type EnvType string

const (
	// EnvNone runs the binary directly with no environment wrapping.
	EnvNone EnvType = "none"

	// EnvVenv activates a Python virtual environment before invoking.
	EnvVenv EnvType = "venv"

	// EnvConda runs inside a conda environment, either via `conda run`
	// or by sourcing an activation script.
	EnvConda EnvType = "conda"

	// EnvPyenv selects a pyenv version via PYENV_VERSION.
	EnvPyenv EnvType = "pyenv"

	// EnvPath substitutes a direct interpreter path, no activation needed.
	EnvPath EnvType = "path"
)

// InputType is the closed set of parameter kinds an operation accepts.
type InputType string

const (
	InputString  InputType = "string"
	InputNumber  InputType = "number"
	InputBoolean InputType = "boolean"
	InputFile    InputType = "file"
	InputChoice  InputType = "choice"
)

// OutputType is the closed set of extraction strategies for declared outputs.
type OutputType string

const (
	// OutputText captures the target file's full contents (size-capped).
	OutputText OutputType = "text"

	// OutputRegex applies a pattern and takes the first capture group.
	OutputRegex OutputType = "regex"

	// OutputJSON parses the target as JSON and evaluates a JSONPath.
	OutputJSON OutputType = "json"
)

// Environment describes the runtime context needed to invoke a tool's binary.
// A nil Environment on a Tool means the binary is invoked as-is.
type Environment struct {
	// Type selects the activation mechanism. Empty with a PythonPath set
	// is treated as EnvPath; empty otherwise is treated as EnvNone.
	Type EnvType `yaml:"type,omitempty"`

	// EnvName is the conda env name, venv directory, or pyenv version.
	EnvName string `yaml:"env_name,omitempty"`

	// ActivateScript is the path to conda.sh (conda only). When set,
	// the script is sourced and `conda activate` is used instead of
	// `conda run`.
	ActivateScript string `yaml:"activate_script,omitempty"`

	// PythonPath is a direct interpreter path, an alternative to
	// any activation mechanism.
	PythonPath string `yaml:"python_path,omitempty"`
}

// Kind returns the effective environment type, resolving the empty-type
// defaults described on Type.
func (e *Environment) Kind() EnvType {
	if e == nil {
		return EnvNone
	}
	if e.Type != "" {
		return e.Type
	}
	if e.PythonPath != "" {
		return EnvPath
	}
	return EnvNone
}

// Tool is the identity and invocation metadata shared by all of a
// descriptor's operations.
type Tool struct {
	// Name is the unique tool identifier. When absent it is derived
	// from the descriptor file name at load time.
	Name string `yaml:"name"`

	// Version is an optional tool version string.
	Version string `yaml:"version,omitempty"`

	// Description is a human-readable summary of the tool.
	Description string `yaml:"description"`

	// Binary is the command to invoke; may be a bare name or a path.
	Binary string `yaml:"binary"`

	// WorkingDirectory overrides the engine's runs root for this tool.
	WorkingDirectory string `yaml:"working_directory,omitempty"`

	// Environment optionally wraps invocations in a runtime environment.
	Environment *Environment `yaml:"environment,omitempty"`
}

// Input specifies one parameter of an operation.
type Input struct {
	Name        string    `yaml:"name"`
	Type        InputType `yaml:"type"`
	Required    bool      `yaml:"required"`
	Description string    `yaml:"description,omitempty"`

	// Default is substituted when the caller omits this input. It must
	// not be set on a required input.
	Default any `yaml:"default,omitempty"`

	// ArgTemplate renders this input's contribution to the command line.
	// It contains a single {value} placeholder, e.g. "--temp {value}".
	ArgTemplate string `yaml:"arg_template,omitempty"`

	// Choices is the permitted value set for choice inputs.
	Choices []string `yaml:"choices,omitempty"`
}

// Output specifies how one result value is extracted after execution.
type Output struct {
	Name        string     `yaml:"name"`
	Type        OutputType `yaml:"type"`
	Description string     `yaml:"description,omitempty"`

	// Path locates the target file. It may reference {working_dir} and
	// resolved input values, and may contain a glob. When empty, the
	// captured stdout is used instead.
	Path string `yaml:"path,omitempty"`

	// ExtractPattern is the regex for OutputRegex, with at least one
	// capture group; the first match's first group is the value.
	ExtractPattern string `yaml:"extract_pattern,omitempty"`

	// JSONPath is the path expression for OutputJSON, e.g. "$.result.value".
	JSONPath string `yaml:"json_path,omitempty"`
}

// Operation is one named, invokable action exposed by a tool.
type Operation struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	CommandTemplate string   `yaml:"command_template"`
	Inputs          []Input  `yaml:"inputs,omitempty"`
	Outputs         []Output `yaml:"outputs,omitempty"`

	// TimeoutSeconds bounds the operation's total run time. Zero means
	// the engine default applies.
	TimeoutSeconds int `yaml:"timeout,omitempty"`
}

// Timeout returns the operation's timeout as a duration, or zero when unset.
func (o *Operation) Timeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// Input returns the named input spec, or nil when the operation does not
// declare it.
func (o *Operation) Input(name string) *Input {
	for i := range o.Inputs {
		if o.Inputs[i].Name == name {
			return &o.Inputs[i]
		}
	}
	return nil
}

// Descriptor is one parsed descriptor document: a tool plus its operations.
type Descriptor struct {
	Tool       Tool        `yaml:"tool"`
	Operations []Operation `yaml:"operations"`
}

// Name returns the tool name.
func (d *Descriptor) Name() string {
	return d.Tool.Name
}

// CompositeName is the externally visible identifier for an operation,
// formed as <tool_name>_<operation_name>.
func CompositeName(tool, operation string) string {
	return fmt.Sprintf("%s_%s", tool, operation)
}
