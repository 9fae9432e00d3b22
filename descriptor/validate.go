package descriptor

import (
	"fmt"
	"regexp"

	"github.com/ohler55/ojg/jp"
)

// Validate checks a parsed descriptor against the model's structural
// invariants. It is called once at load time; a descriptor that passes
// is safe to treat as immutable for the life of the registry.
func (d *Descriptor) Validate() error {
	if d.Tool.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if d.Tool.Binary == "" {
		return fmt.Errorf("tool %q: binary is required", d.Tool.Name)
	}
	if err := d.Tool.Environment.validate(); err != nil {
		return fmt.Errorf("tool %q: %w", d.Tool.Name, err)
	}
	if len(d.Operations) == 0 {
		return fmt.Errorf("tool %q: at least one operation is required", d.Tool.Name)
	}

	seen := make(map[string]struct{}, len(d.Operations))
	for i := range d.Operations {
		op := &d.Operations[i]
		if err := op.validate(); err != nil {
			return fmt.Errorf("tool %q: %w", d.Tool.Name, err)
		}
		if _, dup := seen[op.Name]; dup {
			return fmt.Errorf("tool %q: duplicate operation %q", d.Tool.Name, op.Name)
		}
		seen[op.Name] = struct{}{}
	}
	return nil
}

func (e *Environment) validate() error {
	if e == nil {
		return nil
	}
	switch e.Kind() {
	case EnvNone, EnvPath:
		// No env name needed.
	case EnvVenv, EnvConda, EnvPyenv:
		if e.EnvName == "" {
			return fmt.Errorf("environment type %q requires env_name", e.Kind())
		}
	default:
		return fmt.Errorf("unknown environment type %q", e.Type)
	}
	return nil
}

func (o *Operation) validate() error {
	if o.Name == "" {
		return fmt.Errorf("operation name is required")
	}
	if o.CommandTemplate == "" {
		return fmt.Errorf("operation %q: command_template is required", o.Name)
	}

	names := make(map[string]struct{}, len(o.Inputs))
	for i := range o.Inputs {
		in := &o.Inputs[i]
		if err := in.validate(); err != nil {
			return fmt.Errorf("operation %q: %w", o.Name, err)
		}
		if _, dup := names[in.Name]; dup {
			return fmt.Errorf("operation %q: duplicate input %q", o.Name, in.Name)
		}
		names[in.Name] = struct{}{}
	}

	outs := make(map[string]struct{}, len(o.Outputs))
	for i := range o.Outputs {
		out := &o.Outputs[i]
		if err := out.validate(); err != nil {
			return fmt.Errorf("operation %q: %w", o.Name, err)
		}
		if _, dup := outs[out.Name]; dup {
			return fmt.Errorf("operation %q: duplicate output %q", o.Name, out.Name)
		}
		outs[out.Name] = struct{}{}
	}
	return nil
}

func (in *Input) validate() error {
	if in.Name == "" {
		return fmt.Errorf("input name is required")
	}
	switch in.Type {
	case InputString, InputNumber, InputBoolean, InputFile, InputChoice:
	default:
		return fmt.Errorf("input %q: unknown type %q", in.Name, in.Type)
	}
	if in.Required && in.Default != nil {
		return fmt.Errorf("input %q: required inputs must not declare a default", in.Name)
	}
	if in.Type == InputChoice && len(in.Choices) == 0 {
		return fmt.Errorf("input %q: choice inputs require a non-empty choices list", in.Name)
	}
	return nil
}

func (out *Output) validate() error {
	if out.Name == "" {
		return fmt.Errorf("output name is required")
	}
	switch out.Type {
	case OutputText:
	case OutputRegex:
		if out.ExtractPattern == "" {
			return fmt.Errorf("output %q: regex outputs require extract_pattern", out.Name)
		}
		re, err := regexp.Compile(out.ExtractPattern)
		if err != nil {
			return fmt.Errorf("output %q: invalid extract_pattern: %w", out.Name, err)
		}
		if re.NumSubexp() < 1 {
			return fmt.Errorf("output %q: extract_pattern needs at least one capture group", out.Name)
		}
	case OutputJSON:
		if out.JSONPath == "" {
			return fmt.Errorf("output %q: json outputs require json_path", out.Name)
		}
		if _, err := jp.ParseString(out.JSONPath); err != nil {
			return fmt.Errorf("output %q: invalid json_path: %w", out.Name, err)
		}
	default:
		return fmt.Errorf("output %q: unknown type %q", out.Name, out.Type)
	}
	return nil
}
