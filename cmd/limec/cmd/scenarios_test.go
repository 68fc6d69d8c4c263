package cmd

import (
	"strings"
	"testing"

	"tinygo.org/x/go-llvm"

	"github.com/limelang/limec/codegen"
	"github.com/limelang/limec/config"
	"github.com/limelang/limec/lexer"
	"github.com/limelang/limec/parser"
)

// compileAndRun lexes, parses, lowers and JIT-runs src end to end, the way
// runCompile does, and returns whatever main returned. It fails the test
// immediately on any parse or compile error, since the scenarios below are
// all expected to compile cleanly.
func compileAndRun(t *testing.T, src string) int64 {
	t.Helper()

	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if p.Errors.Len() > 0 {
		for _, d := range p.Errors.All() {
			t.Errorf("parse error: %s", d.Error())
		}
		t.FailNow()
	}

	gen := codegen.New(config.Options{}, "scenario")
	defer gen.Dispose()

	if err := gen.Generate(prog); err != nil {
		for _, d := range gen.Errors.All() {
			t.Errorf("compile error: %s", d.Error())
		}
		t.Fatalf("codegen failed: %s", err)
	}

	if err := llvm.VerifyModule(gen.Module(), llvm.ReturnStatusAction); err != nil {
		t.Fatalf("module failed verification: %s", err)
	}

	result, err := runMain(gen)
	if err != nil {
		t.Fatalf("JIT execution failed: %s", err)
	}
	return result
}

// TestScenarioLetAndArithmetic is spec §8 end-to-end scenario 1.
func TestScenarioLetAndArithmetic(t *testing.T) {
	src := `fn main() -> int {
	let x: int = 40 + 2;
	return x;
}`
	if got := compileAndRun(t, src); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

// TestScenarioFunctionCall is spec §8 end-to-end scenario 2.
func TestScenarioFunctionCall(t *testing.T) {
	src := `fn add(a:int,b:int)->int{return a+b;}
fn main()->int{return add(20,22);}`
	if got := compileAndRun(t, src); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

// TestScenarioForLoopAccumulation is spec §8 end-to-end scenario 3.
func TestScenarioForLoopAccumulation(t *testing.T) {
	src := `fn main()->int{ let s:int=0; for(let i:int=0; i<10; i=i+1){ s=s+i; } return s; }`
	if got := compileAndRun(t, src); got != 45 {
		t.Errorf("expected 45, got %d", got)
	}
}

// TestScenarioWhileLoopBreak is spec §8 end-to-end scenario 4: the body of
// the `if` terminates in a break with no else-branch, which previously
// produced two terminators in one basic block and failed IR verification.
func TestScenarioWhileLoopBreak(t *testing.T) {
	src := `fn main()->int{ let i:int=0; while i<5 { if i==3 { break; } i=i+1; } return i; }`
	if got := compileAndRun(t, src); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

// TestScenarioRecursiveFactorial is spec §8 end-to-end scenario 5: the
// `if n<2 { return 1; }` then-block also exercises the terminated-block
// fix, this time with no else-branch followed by further statements.
func TestScenarioRecursiveFactorial(t *testing.T) {
	src := `fn fact(n:int)->int{ if n<2 { return 1; } return n*fact(n-1); }
fn main()->int{ return fact(6); }`
	if got := compileAndRun(t, src); got != 720 {
		t.Errorf("expected 720, got %d", got)
	}
}

// TestScenarioPostIncrement is spec §8 end-to-end scenario 6.
func TestScenarioPostIncrement(t *testing.T) {
	src := `fn main()->int{ let i:int=5; let j:int=i++; return j*10 + i; }`
	if got := compileAndRun(t, src); got != 56 {
		t.Errorf("expected 56, got %d", got)
	}
}

// TestScenarioAssignToUndeclared is a spec §8 negative scenario: assigning
// to an undeclared identifier records a compile error naming it.
func TestScenarioAssignToUndeclared(t *testing.T) {
	src := `fn main()->int{ x = 1; return 0; }`

	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if p.Errors.Len() > 0 {
		t.Fatalf("unexpected parse error(s): %v", p.Errors.All())
	}

	gen := codegen.New(config.Options{}, "undeclared")
	defer gen.Dispose()

	if err := gen.Generate(prog); err == nil {
		t.Fatal("expected a compile error for assignment to an undeclared identifier")
	}
	found := false
	for _, d := range gen.Errors.All() {
		if strings.Contains(d.Error(), "x") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a diagnostic naming %q, got %v", "x", gen.Errors.All())
	}
}

// TestScenarioIllegalFloatLiteral is a spec §8 negative scenario: a number
// literal with two decimal points lexes as ILLEGAL and produces a parse
// error.
func TestScenarioIllegalFloatLiteral(t *testing.T) {
	src := `fn main()->int{ let x:float = 1.2.3; return 0; }`

	p := parser.New(lexer.New(src))
	p.ParseProgram()
	if p.Errors.Len() == 0 {
		t.Fatal("expected a parse error for an illegal float literal")
	}
}

// TestScenarioMissingImport is a spec §8 negative scenario: importing a
// module that cannot be resolved records a compile error listing the
// attempted paths.
func TestScenarioMissingImport(t *testing.T) {
	src := `import "does_not_exist";
fn main()->int{ return 0; }`

	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if p.Errors.Len() > 0 {
		t.Fatalf("unexpected parse error(s): %v", p.Errors.All())
	}

	gen := codegen.New(config.Options{}, "missing_import")
	defer gen.Dispose()

	if err := gen.Generate(prog); err == nil {
		t.Fatal("expected a compile error for an unresolvable import")
	}
}
