// Package cmd implements the limec command-line driver with
// github.com/spf13/cobra, the way cmd/dwscript/cmd does for its teacher
// sibling project.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/limelang/limec/config"
)

var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:     "limec [file]",
	Short:   "Compiler for the lime language",
	Version: Version,
	Long: `limec compiles a lime source file to LLVM IR.

A lime program is a single source file that may import other .lime
modules by name. The entry point is a user-declared function named
main returning int. By default the compiled module is JIT-executed
immediately after a successful build; pass --no-run to only compile
and verify it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.Flags().Bool("debug-lexer", false, "print the token stream and exit")
	rootCmd.Flags().Bool("debug-parser", false, "print the parsed AST and exit")
	rootCmd.Flags().Bool("debug-compiler", false, "print the emitted LLVM IR module before running it")
	rootCmd.Flags().Bool("no-run", false, "compile and verify but do not JIT-execute the module")
	rootCmd.Flags().StringP("output", "o", "", "write the emitted IR text to this path")
	rootCmd.Flags().StringSlice("import-path", nil, "additional directory to search when resolving imports (repeatable)")
	rootCmd.Flags().String("target-triple", "", "override the LLVM target triple (default: host triple)")
}

// optionsFromFlags builds a config.Options from the parsed CLI flags and
// the single positional source path argument.
func optionsFromFlags(cmd *cobra.Command, sourcePath string) (config.Options, error) {
	debugLexer, _ := cmd.Flags().GetBool("debug-lexer")
	debugParser, _ := cmd.Flags().GetBool("debug-parser")
	debugCompiler, _ := cmd.Flags().GetBool("debug-compiler")
	noRun, _ := cmd.Flags().GetBool("no-run")
	output, _ := cmd.Flags().GetString("output")
	importPaths, _ := cmd.Flags().GetStringSlice("import-path")
	targetTriple, _ := cmd.Flags().GetString("target-triple")

	return config.Options{
		SourcePath:        sourcePath,
		DebugLexer:        debugLexer,
		DebugParser:       debugParser,
		DebugCompiler:     debugCompiler,
		NoRun:             noRun,
		Output:            output,
		ImportSearchPaths: importPaths,
		TargetTriple:      targetTriple,
	}, nil
}

// Execute runs the root command and returns its exit code per spec §6:
// 0 on success, 1 on file-not-found, parse errors, compile errors,
// IR-verification failure, a missing main, or a JIT engine that cannot be
// created. A fault raised inside the JIT-executed code is not caught and
// does not map to exit code 1.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
