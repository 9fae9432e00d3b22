package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchtop-ai/benchtop/descriptor"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func vars(workDir string) map[string]string {
	return map[string]string{"working_dir": workDir, "run_id": "run-1"}
}

func TestOutputs_Text(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "out.txt", "hello\n")

	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "greeting", Type: descriptor.OutputText, Path: "{working_dir}/out.txt"},
	}}

	got := Outputs(op, vars(dir), nil)
	require.Contains(t, got, "greeting")
	assert.False(t, got["greeting"].Missing)
	assert.Equal(t, "hello\n", got["greeting"].Data)
}

func TestOutputs_TextCapped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.log", strings.Repeat("x", 20000))

	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "log", Type: descriptor.OutputText, Path: "{working_dir}/big.log"},
	}}

	got := Outputs(op, vars(dir), nil)
	assert.Len(t, got["log"].Data, 10000)
}

func TestOutputs_Regex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sim.log", "step 100\nFinal energy = -1234.56 kJ/mol\ndone\n")

	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "energy", Type: descriptor.OutputRegex, Path: "{working_dir}/sim.log",
			ExtractPattern: `Final energy = (-?[\d.]+)`},
	}}

	got := Outputs(op, vars(dir), nil)
	assert.Equal(t, "-1234.56", got["energy"].Data)
}

func TestOutputs_RegexMissDoesNotSuppressOthers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sim.log", "nothing to see here\n")

	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "energy", Type: descriptor.OutputRegex, Path: "{working_dir}/sim.log",
			ExtractPattern: `Final energy = (-?[\d.]+)`},
		{Name: "log", Type: descriptor.OutputText, Path: "{working_dir}/sim.log"},
	}}

	got := Outputs(op, vars(dir), nil)

	assert.True(t, got["energy"].Missing)
	assert.Equal(t, "pattern did not match", got["energy"].Reason)

	// The sibling output is still evaluated.
	assert.False(t, got["log"].Missing)
	assert.Equal(t, "nothing to see here\n", got["log"].Data)
}

func TestOutputs_RegexFromStdout(t *testing.T) {
	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "count", Type: descriptor.OutputRegex, ExtractPattern: `matched (\d+) rows`},
	}}

	got := Outputs(op, vars(t.TempDir()), []byte("matched 17 rows\n"))
	assert.Equal(t, "17", got["count"].Data)
}

func TestOutputs_JSONPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "out.json", `{"result": {"value": 42}}`)

	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "value", Type: descriptor.OutputJSON, Path: "{working_dir}/out.json",
			JSONPath: "$.result.value"},
	}}

	got := Outputs(op, vars(dir), nil)
	require.False(t, got["value"].Missing)
	assert.EqualValues(t, 42, got["value"].Data)
}

func TestOutputs_JSONPathMiss(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "out.json", `{"result": {}}`)

	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "value", Type: descriptor.OutputJSON, Path: "{working_dir}/out.json",
			JSONPath: "$.result.value"},
	}}

	got := Outputs(op, vars(dir), nil)
	assert.True(t, got["value"].Missing)
	assert.Contains(t, got["value"].Reason, "matched nothing")
}

func TestOutputs_JSONUnparseable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "out.json", `{"result": `)

	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "value", Type: descriptor.OutputJSON, Path: "{working_dir}/out.json",
			JSONPath: "$.result.value"},
	}}

	got := Outputs(op, vars(dir), nil)
	assert.True(t, got["value"].Missing)
	assert.Contains(t, got["value"].Reason, "invalid JSON")
}

func TestOutputs_FileAbsent(t *testing.T) {
	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "log", Type: descriptor.OutputText, Path: "{working_dir}/missing.txt"},
	}}

	got := Outputs(op, vars(t.TempDir()), nil)
	assert.True(t, got["log"].Missing)
	assert.Contains(t, got["log"].Reason, "file absent")
}

func TestOutputs_Glob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame_002.dat", "second")
	writeFile(t, dir, "frame_001.dat", "first")

	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "frame", Type: descriptor.OutputText, Path: "{working_dir}/frame_*.dat"},
	}}

	got := Outputs(op, vars(dir), nil)
	assert.Equal(t, "first", got["frame"].Data)
}

func TestOutputs_GlobNoMatch(t *testing.T) {
	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "frame", Type: descriptor.OutputText, Path: "{working_dir}/frame_*.dat"},
	}}

	got := Outputs(op, vars(t.TempDir()), nil)
	assert.True(t, got["frame"].Missing)
	assert.Contains(t, got["frame"].Reason, "no files match")
}

func TestOutputs_PathUsesInputValues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "MFI_uptake.txt", "3.7")

	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "uptake", Type: descriptor.OutputText, Path: "{working_dir}/{framework}_uptake.txt"},
	}}

	v := vars(dir)
	v["framework"] = "MFI"
	got := Outputs(op, v, nil)
	assert.Equal(t, "3.7", got["uptake"].Data)
}

func TestOutputs_PathUnresolvedPlaceholder(t *testing.T) {
	op := &descriptor.Operation{Outputs: []descriptor.Output{
		{Name: "uptake", Type: descriptor.OutputText, Path: "{working_dir}/{framework}_uptake.txt"},
	}}

	got := Outputs(op, vars(t.TempDir()), nil)
	assert.True(t, got["uptake"].Missing)
	assert.Contains(t, got["uptake"].Reason, "unresolved placeholder")
}
