// Package environ resolves a tool's environment configuration into the
// shell wrapping needed to invoke its binary.
//
// Resolution is pure: it only builds command text, never spawns anything.
// Activation of the environment happens inside the child shell the exec
// package starts.
package environ

import (
	"fmt"
	"strings"

	"github.com/benchtop-ai/benchtop/descriptor"
)

// Prefix returns the tokens prepended to a command for the environment
// kinds that need no subshell: a direct interpreter path or `conda run`.
// Kinds that require sourcing a script return nil; use Wrap for those.
func Prefix(env *descriptor.Environment) []string {
	switch env.Kind() {
	case descriptor.EnvPath:
		return []string{env.PythonPath}
	case descriptor.EnvConda:
		if env.ActivateScript == "" {
			return []string{"conda", "run", "-n", env.EnvName, "--no-capture-output"}
		}
	}
	return nil
}

// Wrap applies the environment's activation mechanism to a rendered shell
// command and returns the final command text.
//
//   - nil or none: the command is returned unchanged.
//   - path: the first occurrence of "python" is replaced by the interpreter
//     path, so templates written against a generic interpreter pick up the
//     configured one.
//   - conda without activate_script: `conda run -n <env> --no-capture-output <cmd>`.
//   - conda with activate_script: the script is sourced and `conda activate`
//     runs in a login bash, since conda's shell functions only exist after
//     sourcing conda.sh.
//   - venv: the venv's bin/activate is sourced before the command.
//   - pyenv: PYENV_VERSION is set for the command.
//
// An unknown type returns an error; descriptors are validated at load time,
// so hitting this path means the caller bypassed validation.
func Wrap(command string, env *descriptor.Environment) (string, error) {
	switch env.Kind() {
	case descriptor.EnvNone:
		return command, nil

	case descriptor.EnvPath:
		return strings.Replace(command, "python", env.PythonPath, 1), nil

	case descriptor.EnvConda:
		if env.ActivateScript != "" {
			return fmt.Sprintf("bash -lc 'source %q && conda activate %s && %s'",
				env.ActivateScript, env.EnvName, command), nil
		}
		return fmt.Sprintf("conda run -n %s --no-capture-output %s", env.EnvName, command), nil

	case descriptor.EnvVenv:
		return fmt.Sprintf("source %q && %s",
			env.EnvName+"/bin/activate", command), nil

	case descriptor.EnvPyenv:
		return fmt.Sprintf("PYENV_VERSION=%s %s", env.EnvName, command), nil

	default:
		return "", fmt.Errorf("unknown environment type %q", env.Type)
	}
}
