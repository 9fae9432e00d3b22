// Package schema renders JSON Schema descriptions of operation inputs.
//
// The protocol layer hosting this engine advertises each operation to its
// callers; ForOperation turns an operation's declared inputs into the
// object schema those callers see. The schema mirrors the descriptor
// exactly: it is documentation for the caller, while enforcement happens
// in the render package at invocation time.
package schema

import (
	"github.com/benchtop-ai/benchtop/descriptor"
)

// JSON represents a JSON Schema definition.
type JSON struct {
	Type        string          `json:"type,omitempty"`
	Description string          `json:"description,omitempty"`
	Properties  map[string]JSON `json:"properties,omitempty"`
	Required    []string        `json:"required,omitempty"`
	Enum        []any           `json:"enum,omitempty"`
	Default     any             `json:"default,omitempty"`
}

// String creates a JSON schema for a string type.
func String() JSON {
	return JSON{Type: "string"}
}

// Number creates a JSON schema for a number type.
func Number() JSON {
	return JSON{Type: "number"}
}

// Bool creates a JSON schema for a boolean type.
func Bool() JSON {
	return JSON{Type: "boolean"}
}

// Object creates a JSON schema for an object with the given properties and
// required property names.
func Object(properties map[string]JSON, required ...string) JSON {
	return JSON{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// Enum creates a string schema with enumerated values.
func Enum(values ...any) JSON {
	return JSON{Type: "string", Enum: values}
}

// ForOperation builds the object schema for an operation's inputs.
// File inputs surface as strings: callers pass paths, and the engine
// performs no existence check.
func ForOperation(op *descriptor.Operation) JSON {
	properties := make(map[string]JSON, len(op.Inputs))
	var required []string

	for i := range op.Inputs {
		in := &op.Inputs[i]
		properties[in.Name] = forInput(in)
		if in.Required {
			required = append(required, in.Name)
		}
	}

	return Object(properties, required...)
}

// forInput is the schema rendering for one input kind.
func forInput(in *descriptor.Input) JSON {
	var s JSON
	switch in.Type {
	case descriptor.InputNumber:
		s = Number()
	case descriptor.InputBoolean:
		s = Bool()
	case descriptor.InputChoice:
		values := make([]any, len(in.Choices))
		for i, c := range in.Choices {
			values[i] = c
		}
		s = Enum(values...)
	default:
		// string and file kinds are both plain strings on the wire.
		s = String()
	}
	s.Description = in.Description
	s.Default = in.Default
	return s
}
