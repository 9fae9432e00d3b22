// Package descriptor defines the typed model for tool descriptor documents.
//
// A descriptor document describes one CLI tool: its identity, the runtime
// environment needed to invoke its binary, and the operations it exposes.
// Each operation declares a command template, a list of typed inputs with
// optional defaults and per-input argument templates, and a list of outputs
// with extraction rules (raw text, regex capture group, or JSONPath).
//
// The model is pure data plus validation. Descriptors are constructed once
// when a document is parsed, validated with Validate, and are immutable
// afterwards; no invocation mutates them.
//
// Input kinds form a closed set (string, number, boolean, file, choice), as
// do output kinds (text, regex, json). Dispatch over a kind happens in
// exactly one place per component: the render package for inputs, the
// extract package for outputs.
package descriptor
