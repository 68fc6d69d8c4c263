package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"tinygo.org/x/go-llvm"

	"github.com/limelang/limec/codegen"
	"github.com/limelang/limec/config"
	"github.com/limelang/limec/diag"
	"github.com/limelang/limec/lexer"
	"github.com/limelang/limec/parser"
	"github.com/limelang/limec/token"
)

var log = slog.New(slog.NewTextHandler(os.Stderr, nil))

func runCompile(cmd *cobra.Command, args []string) error {
	opt, err := optionsFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	src, err := os.ReadFile(opt.SourcePath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", opt.SourcePath, err)
	}

	if opt.DebugLexer {
		return debugLexer(string(src))
	}

	lex := lexer.New(string(src))
	p := parser.New(lex)
	prog := p.ParseProgram()
	if p.Errors.Len() > 0 {
		printDiagnostics(opt.SourcePath, p.Errors)
		return fmt.Errorf("parsing failed with %d error(s)", p.Errors.Len())
	}

	if opt.DebugParser {
		fmt.Println(prog.String())
		return nil
	}

	gen := codegen.New(opt, moduleNameFor(opt.SourcePath))
	defer gen.Dispose()

	if err := gen.Generate(prog); err != nil {
		printDiagnostics(opt.SourcePath, gen.Errors)
		return err
	}

	triple := opt.TargetTriple
	if triple == "" {
		triple = llvm.DefaultTargetTriple()
	}
	gen.Module().SetTarget(triple)

	if err := llvm.VerifyModule(gen.Module(), llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("IR verification failed: %w", err)
	}

	if opt.DebugCompiler {
		fmt.Println(gen.Module().String())
	}

	if opt.Output != "" {
		if err := os.WriteFile(opt.Output, []byte(gen.Module().String()), 0644); err != nil {
			return fmt.Errorf("cannot write %s: %w", opt.Output, err)
		}
	}

	if opt.NoRun {
		return nil
	}

	return jitRun(gen)
}

// jitRun executes the module's main function under an LLVM MCJIT engine.
// It returns an error only when main is missing or the execution engine
// cannot be created; a fault raised inside the JIT-executed code is not
// caught here. main's own returned value is program data, not the
// compiler's exit status, so it is logged at debug level, not translated
// into an error.
func jitRun(gen *codegen.Generator) error {
	result, err := runMain(gen)
	if err != nil {
		return err
	}
	log.Debug("main returned", "value", result)
	return nil
}

// runMain looks up and JIT-executes main, returning the raw value it
// returned. Separated from jitRun so integration tests can assert on the
// returned value directly (spec §8's end-to-end scenarios).
func runMain(gen *codegen.Generator) (int64, error) {
	mainFn := gen.Module().NamedFunction("main")
	if mainFn.IsAFunction().IsNil() {
		return 0, fmt.Errorf("no main function declared")
	}

	engine, err := llvm.NewExecutionEngine(gen.Module())
	if err != nil {
		return 0, fmt.Errorf("failed to create JIT execution engine: %w", err)
	}
	defer engine.Dispose()

	result := engine.RunFunction(mainFn, nil)
	return result.Int(true), nil
}

func debugLexer(src string) error {
	lex := lexer.New(src)
	for {
		tok := lex.NextToken()
		fmt.Printf("%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Kind, tok.Literal)
		if tok.Kind == token.EOF {
			return nil
		}
	}
}

func printDiagnostics(path string, bag *diag.Bag) {
	for _, d := range bag.All() {
		fmt.Fprintf(os.Stderr, "%s:%s\n", path, d.Error())
	}
}

func moduleNameFor(path string) string {
	return filepath.Base(path)
}
