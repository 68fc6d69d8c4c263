// Package config holds the compiler Options threaded from the CLI into the
// resolver and code generator, the Go-native analogue of spec §6's CLI
// flags and a trimmed version of the teacher's util.Options (the
// architecture/vendor/CPU/OS target matrix there has no analogue here:
// spec's Non-goals rule out a multi-backend target).
package config

// Options carries every compiler-wide setting derived from CLI flags.
type Options struct {
	// SourcePath is the path to the root .lime source file.
	SourcePath string

	// DebugLexer, when true, causes the driver to print the token stream
	// and exit without parsing.
	DebugLexer bool

	// DebugParser, when true, causes the driver to print the parsed AST
	// and exit without generating code.
	DebugParser bool

	// DebugCompiler, when true, causes the driver to print the emitted
	// LLVM IR module text before running it.
	DebugCompiler bool

	// NoRun, when true, causes the driver to compile and verify the
	// module but skip JIT execution.
	NoRun bool

	// Output, if non-empty, is a file path the emitted IR text is written
	// to. Printing the IR to stdout is controlled by DebugCompiler alone.
	Output string

	// ImportSearchPaths are additional directories probed, after the
	// default candidates, when resolving an import statement.
	ImportSearchPaths []string

	// TargetTriple overrides the platform default LLVM target triple when
	// non-empty.
	TargetTriple string
}
