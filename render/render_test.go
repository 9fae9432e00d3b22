package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchtop-ai/benchtop/descriptor"
	"github.com/benchtop-ai/benchtop/toolerr"
)

func fixture() (*descriptor.Tool, *descriptor.Operation) {
	tool := &descriptor.Tool{Name: "raspa", Binary: "simulate"}
	op := &descriptor.Operation{
		Name:            "run_gcmc",
		CommandTemplate: "{binary} {framework} {temperature} {verbose} {ensemble} > {working_dir}/run.log",
		Inputs: []descriptor.Input{
			{Name: "framework", Type: descriptor.InputFile, Required: true, ArgTemplate: "-f {value}"},
			{Name: "temperature", Type: descriptor.InputNumber, Default: 298.15, ArgTemplate: "-T {value}"},
			{Name: "verbose", Type: descriptor.InputBoolean, ArgTemplate: "--verbose {value}"},
			{Name: "ensemble", Type: descriptor.InputChoice, Choices: []string{"nvt", "npt"}, ArgTemplate: "--ensemble {value}"},
		},
	}
	return tool, op
}

func TestCommand_FullSubstitution(t *testing.T) {
	tool, op := fixture()
	res, err := Command(tool, op, map[string]any{
		"framework":   "MFI.cif",
		"temperature": 300,
		"verbose":     true,
		"ensemble":    "npt",
	}, "/runs/raspa_run_gcmc_1", "run-1")

	require.NoError(t, err)
	assert.Equal(t,
		"simulate -f MFI.cif -T 300 --verbose true --ensemble npt > /runs/raspa_run_gcmc_1/run.log",
		res.Command)
	assert.Equal(t, map[string]string{
		"working_dir": "/runs/raspa_run_gcmc_1",
		"run_id":      "run-1",
		"framework":   "MFI.cif",
		"temperature": "300",
		"verbose":     "true",
		"ensemble":    "npt",
	}, res.Values)
}

func TestCommand_DefaultsAndOmission(t *testing.T) {
	tool, op := fixture()
	res, err := Command(tool, op, map[string]any{"framework": "MFI.cif"},
		"/runs/r1", "run-1")

	require.NoError(t, err)
	// temperature falls back to its default; verbose and ensemble vanish.
	assert.Equal(t, "simulate -f MFI.cif -T 298.15   > /runs/r1/run.log", res.Command)
}

func TestCommand_MissingRequired(t *testing.T) {
	tool, op := fixture()
	_, err := Command(tool, op, map[string]any{}, "/runs/r1", "run-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, toolerr.ErrInvalidInput))
	assert.Contains(t, err.Error(), `missing required input "framework"`)
}

func TestCommand_UnknownKeyRejected(t *testing.T) {
	tool, op := fixture()
	_, err := Command(tool, op, map[string]any{
		"framework": "MFI.cif",
		"framwork":  "typo.cif",
	}, "/runs/r1", "run-1")

	require.Error(t, err)
	var te *toolerr.Error
	require.True(t, errors.As(err, &te))
	assert.Equal(t, toolerr.ErrCodeInvalidInput, te.Code)
	assert.Contains(t, te.Message, `unknown input "framwork"`)
}

func TestCommand_TypeMismatch(t *testing.T) {
	tool, op := fixture()
	_, err := Command(tool, op, map[string]any{
		"framework":   "MFI.cif",
		"temperature": "hot",
	}, "/runs/r1", "run-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `input "temperature"`)
}

func TestCommand_ChoiceOutsideSet(t *testing.T) {
	tool, op := fixture()
	_, err := Command(tool, op, map[string]any{
		"framework": "MFI.cif",
		"ensemble":  "nve",
	}, "/runs/r1", "run-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `value "nve" not in choices`)
}

func TestCommand_FileIsLiteralPath(t *testing.T) {
	tool, op := fixture()
	// No existence check: a path to a file that does not exist still renders.
	res, err := Command(tool, op, map[string]any{"framework": "/no/such/file.cif"},
		"/runs/r1", "run-1")

	require.NoError(t, err)
	assert.Contains(t, res.Command, "-f /no/such/file.cif")
}

func TestCommand_UnresolvedPlaceholder(t *testing.T) {
	tool, op := fixture()
	op.CommandTemplate = "{binary} {framework} {pressure}"

	_, err := Command(tool, op, map[string]any{"framework": "MFI.cif"},
		"/runs/r1", "run-1")

	require.Error(t, err)
	var te *toolerr.Error
	require.True(t, errors.As(err, &te))
	assert.Equal(t, toolerr.ErrCodeTemplateError, te.Code)
	assert.Contains(t, te.Message, "{pressure}")
}

func TestCommand_RunIDPlaceholder(t *testing.T) {
	tool := &descriptor.Tool{Name: "echo_tool", Binary: "echo"}
	op := &descriptor.Operation{
		Name:            "tag",
		CommandTemplate: "{binary} {run_id}",
	}

	res, err := Command(tool, op, nil, "/runs/r1", "20260828_abcd")
	require.NoError(t, err)
	assert.Equal(t, "echo 20260828_abcd", res.Command)
}

func TestCommand_NoEscapingPerformed(t *testing.T) {
	tool, op := fixture()
	res, err := Command(tool, op, map[string]any{"framework": "a.cif; rm -rf /"},
		"/runs/r1", "run-1")

	// Faithful substitution, not sanitization: the rendered command carries
	// the caller's bytes as-is.
	require.NoError(t, err)
	assert.Contains(t, res.Command, "-f a.cif; rm -rf /")
}

func TestCommand_BraceValueStaysLiteral(t *testing.T) {
	tool, op := fixture()
	res, err := Command(tool, op, map[string]any{"framework": "a {weird} name.cif"},
		"/runs/r1", "run-1")

	require.NoError(t, err)
	assert.Contains(t, res.Command, "-f a {weird} name.cif")
}

func TestCommand_BraceValueNotReExpanded(t *testing.T) {
	tool, op := fixture()
	res, err := Command(tool, op, map[string]any{"framework": "{binary}"},
		"/runs/r1", "run-1")

	// A value spelling another placeholder is inserted verbatim, never
	// expanded against the fragment table.
	require.NoError(t, err)
	assert.Contains(t, res.Command, "-f {binary}")
	assert.NotContains(t, res.Command, "-f simulate")
}
