// Package extract locates and parses declared outputs after a tool run.
//
// Each output is evaluated independently against the run's working
// directory and captured stdout: raw text capture, regex capture group, or
// JSONPath evaluation via ojg. A failed extraction records a miss with its
// reason and never suppresses the other outputs — partial output from a
// misbehaving tool is still worth returning.
package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/benchtop-ai/benchtop/descriptor"
	"github.com/benchtop-ai/benchtop/result"
)

const (
	// maxReadBytes caps how much of a target file is read.
	maxReadBytes = 1 << 20 // 1 MiB

	// textValueLimit caps the value size for text outputs.
	textValueLimit = 10000
)

var placeholderRe = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// Outputs evaluates every declared output of an operation and returns the
// name → value mapping. It runs after the process completes regardless of
// exit code, since partial output may still be extractable.
//
// Path templates are resolved against values, which carries working_dir,
// run_id, and the coerced input values from rendering. A relative path is
// joined to the working directory. A path containing a glob selects the
// lexically first match. An output with no path reads the captured stdout
// instead.
func Outputs(op *descriptor.Operation, values map[string]string, stdout []byte) map[string]result.Value {
	out := make(map[string]result.Value, len(op.Outputs))
	for i := range op.Outputs {
		spec := &op.Outputs[i]
		out[spec.Name] = one(spec, values, stdout)
	}
	return out
}

// one is the single dispatch point over output kinds.
func one(spec *descriptor.Output, values map[string]string, stdout []byte) result.Value {
	content, miss := load(spec, values, stdout)
	if miss != "" {
		return result.Miss(miss)
	}

	switch spec.Type {
	case descriptor.OutputText:
		if len(content) > textValueLimit {
			content = content[:textValueLimit]
		}
		return result.Ok(string(content))

	case descriptor.OutputRegex:
		// The pattern was validated at load time; compile cannot fail here.
		re, err := regexp.Compile(spec.ExtractPattern)
		if err != nil {
			return result.Miss(fmt.Sprintf("invalid pattern: %v", err))
		}
		m := re.FindSubmatch(content)
		if m == nil {
			return result.Miss("pattern did not match")
		}
		return result.Ok(string(m[1]))

	case descriptor.OutputJSON:
		data, err := oj.Parse(content)
		if err != nil {
			return result.Miss(fmt.Sprintf("invalid JSON: %v", err))
		}
		expr, err := jp.ParseString(spec.JSONPath)
		if err != nil {
			return result.Miss(fmt.Sprintf("invalid json_path: %v", err))
		}
		matches := expr.Get(data)
		if len(matches) == 0 {
			return result.Miss(fmt.Sprintf("json_path %q matched nothing", spec.JSONPath))
		}
		return result.Ok(matches[0])

	default:
		return result.Miss(fmt.Sprintf("unknown output type %q", spec.Type))
	}
}

// load resolves the output's target content: a file located by the path
// template, or the captured stdout when no path is declared. A non-empty
// miss reason means the content could not be located.
func load(spec *descriptor.Output, values map[string]string, stdout []byte) ([]byte, string) {
	if spec.Path == "" {
		return stdout, ""
	}

	path := spec.Path
	for name, v := range values {
		path = strings.ReplaceAll(path, "{"+name+"}", v)
	}
	if leftover := placeholderRe.FindString(path); leftover != "" {
		return nil, fmt.Sprintf("unresolved placeholder %s in output path", leftover)
	}
	if !filepath.IsAbs(path) {
		if wd := values["working_dir"]; wd != "" {
			path = filepath.Join(wd, path)
		}
	}

	if strings.Contains(path, "*") {
		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, fmt.Sprintf("bad glob %q: %v", path, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Sprintf("no files match %q", path)
		}
		sort.Strings(matches)
		path = matches[0]
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Sprintf("file absent: %s", path)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxReadBytes))
	if err != nil {
		return nil, fmt.Sprintf("reading %s: %v", path, err)
	}
	return content, ""
}
