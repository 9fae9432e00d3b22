// Package benchtop is a descriptor-driven execution engine for command-line
// scientific tools.
//
// Tools are described declaratively in YAML documents rather than with
// per-tool integration code: each descriptor names a binary, the runtime
// environment needed to invoke it (none, virtualenv, conda, pyenv, or a
// direct interpreter path), and a set of operations with typed inputs,
// a command template, and output extraction rules. The engine loads the
// descriptors into an immutable registry, renders shell commands from
// templates plus validated inputs, runs them as child processes with
// timeout and working-directory discipline, and extracts structured
// results from the process's output files and streams.
//
// # Getting started
//
//	engine, err := benchtop.New(
//	    benchtop.WithToolsDir("./tools"),
//	    benchtop.WithRunsRoot("./runs"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	res, err := engine.Invoke(ctx, "raspa_run_gcmc", map[string]any{
//	    "framework": "MFI.cif",
//	})
//
// # Security model
//
// Rendered commands run through a shell with no metacharacter escaping.
// Descriptor authors are the trust boundary: only load descriptors you
// wrote or reviewed. The engine does not sandbox the processes it starts.
package benchtop
