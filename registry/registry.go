// Package registry discovers, validates, and indexes tool descriptors.
//
// Load reads every YAML descriptor document in a directory and builds an
// immutable Registry keyed by composite operation name. A single malformed
// document is skipped with a recorded warning so that one bad descriptor
// cannot take every other tool down with it; a composite-name collision
// aborts the whole load, because silently picking one of two colliding
// operations would be a correctness hazard.
//
// A Registry is read-only after Load. Reloading means building a fresh
// Registry and swapping it in atomically; invocations in flight keep the
// snapshot they were dispatched against.
package registry

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/benchtop-ai/benchtop/descriptor"
	"github.com/benchtop-ai/benchtop/toolerr"
)

// MaxDescriptorSize is the per-document size ceiling enforced before
// parsing, a guard against maliciously large or recursive documents.
const MaxDescriptorSize = 1 << 20 // 1 MiB

// Entry pairs an operation with its owning tool.
type Entry struct {
	Tool      *descriptor.Tool
	Operation *descriptor.Operation
}

// Registry is the immutable index of loaded operations.
type Registry struct {
	entries     map[string]Entry
	descriptors []*descriptor.Descriptor
	warnings    []string
}

// Load reads all *.yaml / *.yml documents under dir and builds a Registry.
//
// Per-document failures (oversize, unparseable, invalid) are recorded as
// warnings and skipped. A duplicate composite operation name is a hard
// failure: no Registry is returned. A missing directory yields an empty
// Registry with a warning, matching the behavior of starting the engine
// before any descriptors are written.
func Load(dir string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{entries: make(map[string]Entry)}

	docs, err := listDocuments(dir)
	if err != nil {
		r.warn(logger, fmt.Sprintf("descriptor directory not found: %s", dir))
		return r, nil
	}

	for _, path := range docs {
		d, why := loadDocument(path)
		if d == nil {
			r.warn(logger, fmt.Sprintf("skipping %s: %s", filepath.Base(path), why))
			continue
		}

		if err := r.add(d); err != nil {
			return nil, err
		}
		logger.Info("loaded tool descriptor",
			"tool", d.Tool.Name,
			"operations", len(d.Operations),
			"file", filepath.Base(path))
	}

	return r, nil
}

// listDocuments returns the descriptor paths under dir in a stable order.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			docs = append(docs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(docs)
	return docs, nil
}

// loadDocument parses and validates one descriptor document. On failure it
// returns a nil descriptor and the reason.
func loadDocument(path string) (*descriptor.Descriptor, string) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err.Error()
	}
	if info.Size() > MaxDescriptorSize {
		return nil, fmt.Sprintf("document too large (%d bytes, limit %d)", info.Size(), MaxDescriptorSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err.Error()
	}

	// Strict decoding into plain typed structs: scalars, sequences, and
	// mappings only, with unknown fields rejected. Descriptor documents
	// are data, never executable object graphs.
	var d descriptor.Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Sprintf("parse error: %v", err)
	}

	// Derive the tool name from the file name when the document omits it.
	if d.Tool.Name == "" {
		base := filepath.Base(path)
		d.Tool.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Sprintf("validation failed: %v", err)
	}
	return &d, ""
}

// add indexes every operation of a descriptor, failing on composite-name
// collisions.
func (r *Registry) add(d *descriptor.Descriptor) error {
	for i := range d.Operations {
		op := &d.Operations[i]
		name := descriptor.CompositeName(d.Tool.Name, op.Name)
		if existing, dup := r.entries[name]; dup {
			return toolerr.New(d.Tool.Name, op.Name, toolerr.ErrCodeDuplicateOperation,
				fmt.Sprintf("operation %q already registered by tool %q", name, existing.Tool.Name))
		}
		r.entries[name] = Entry{Tool: &d.Tool, Operation: op}
	}
	r.descriptors = append(r.descriptors, d)
	return nil
}

func (r *Registry) warn(logger *slog.Logger, msg string) {
	r.warnings = append(r.warnings, msg)
	logger.Warn(msg)
}

// Get looks up an operation by its composite name.
func (r *Registry) Get(composite string) (Entry, bool) {
	e, ok := r.entries[composite]
	return e, ok
}

// Operations returns all composite operation names in sorted order.
func (r *Registry) Operations() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns the loaded descriptors in load order.
func (r *Registry) Descriptors() []*descriptor.Descriptor {
	return r.descriptors
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Warnings returns the per-document load warnings, one per skipped document.
func (r *Registry) Warnings() []string {
	return r.warnings
}
