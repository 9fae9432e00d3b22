package environ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchtop-ai/benchtop/descriptor"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		env      *descriptor.Environment
		command  string
		expected string
	}{
		{
			name:     "nil environment passes through",
			env:      nil,
			command:  "gmx mdrun -deffnm em",
			expected: "gmx mdrun -deffnm em",
		},
		{
			name:     "explicit none passes through",
			env:      &descriptor.Environment{Type: descriptor.EnvNone},
			command:  "echo hi",
			expected: "echo hi",
		},
		{
			name:     "direct interpreter path replaces first python",
			env:      &descriptor.Environment{PythonPath: "/opt/ase/bin/python"},
			command:  "python relax.py --out python.log",
			expected: "/opt/ase/bin/python relax.py --out python.log",
		},
		{
			name:     "conda run without activate script",
			env:      &descriptor.Environment{Type: descriptor.EnvConda, EnvName: "raspa"},
			command:  "simulate input.txt",
			expected: "conda run -n raspa --no-capture-output simulate input.txt",
		},
		{
			name: "conda with activate script sources in bash",
			env: &descriptor.Environment{
				Type:           descriptor.EnvConda,
				EnvName:        "raspa",
				ActivateScript: "/opt/conda/etc/profile.d/conda.sh",
			},
			command:  "simulate input.txt",
			expected: `bash -lc 'source "/opt/conda/etc/profile.d/conda.sh" && conda activate raspa && simulate input.txt'`,
		},
		{
			name:     "venv sources activate",
			env:      &descriptor.Environment{Type: descriptor.EnvVenv, EnvName: "/srv/envs/psi4"},
			command:  "psi4 input.dat",
			expected: `source "/srv/envs/psi4/bin/activate" && psi4 input.dat`,
		},
		{
			name:     "pyenv sets version variable",
			env:      &descriptor.Environment{Type: descriptor.EnvPyenv, EnvName: "3.11.4"},
			command:  "python run.py",
			expected: "PYENV_VERSION=3.11.4 python run.py",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Wrap(tt.command, tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWrap_UnknownType(t *testing.T) {
	_, err := Wrap("echo hi", &descriptor.Environment{Type: "singularity"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown environment type")
}

func TestPrefix(t *testing.T) {
	assert.Nil(t, Prefix(nil))
	assert.Equal(t, []string{"/opt/py/bin/python"},
		Prefix(&descriptor.Environment{PythonPath: "/opt/py/bin/python"}))
	assert.Equal(t, []string{"conda", "run", "-n", "ase", "--no-capture-output"},
		Prefix(&descriptor.Environment{Type: descriptor.EnvConda, EnvName: "ase"}))
	assert.Nil(t, Prefix(&descriptor.Environment{
		Type: descriptor.EnvConda, EnvName: "ase", ActivateScript: "/opt/conda.sh",
	}))
}
