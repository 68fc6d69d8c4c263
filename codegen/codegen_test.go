package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"tinygo.org/x/go-llvm"

	"github.com/limelang/limec/ast"
	"github.com/limelang/limec/config"
	"github.com/limelang/limec/lexer"
	"github.com/limelang/limec/parser"
)

// verifyModule fails the test if g's module does not pass LLVM's IR
// verifier — this is what would have caught the double-terminator bug in
// genIf/genWhile/genFor before a JIT ever touched the module.
func verifyModule(t *testing.T, g *Generator) {
	t.Helper()
	if err := llvm.VerifyModule(g.Module(), llvm.ReturnStatusAction); err != nil {
		t.Fatalf("module failed verification: %s", err)
	}
}

// parseForGen lexes and parses src, failing the test on any parse error.
func parseForGen(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if p.Errors.Len() > 0 {
		for _, d := range p.Errors.All() {
			t.Errorf("parse error: %s", d.Error())
		}
		t.FailNow()
	}
	return prog
}

func TestGenerateArithmeticFunction(t *testing.T) {
	prog := parseForGen(t, `fn add(a:int, b:int) -> int {
	return a + b;
}
fn main() -> int {
	return add(2, 3);
}`)

	g := New(config.Options{}, "add_test")
	defer g.Dispose()

	if err := g.Generate(prog); err != nil {
		t.Fatalf("unexpected codegen error: %s (%v)", err, g.Errors.All())
	}
	verifyModule(t, g)
}

func TestGenerateIfWhileFor(t *testing.T) {
	prog := parseForGen(t, `fn main() -> int {
	let total:int = 0;
	let i:int = 0;
	while i < 5 {
		if i == 2 {
			i++;
			continue;
		}
		total += i;
		i++;
	}
	for (let j:int = 0; j < 3; j++) {
		total += j;
	}
	return total;
}`)

	g := New(config.Options{}, "loops_test")
	defer g.Dispose()

	if err := g.Generate(prog); err != nil {
		t.Fatalf("unexpected codegen error: %s (%v)", err, g.Errors.All())
	}
	verifyModule(t, g)
}

func TestGenerateRecursiveFunction(t *testing.T) {
	prog := parseForGen(t, `fn fib(n:int) -> int {
	if n < 2 {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
}
fn main() -> int {
	return fib(10);
}`)

	g := New(config.Options{}, "fib_test")
	defer g.Dispose()

	if err := g.Generate(prog); err != nil {
		t.Fatalf("unexpected codegen error: %s (%v)", err, g.Errors.All())
	}
	verifyModule(t, g)
}

// TestGenerateMismatchedInfixDiagnosed exercises open question 4's
// disposition: mixing int and float operands in a non-assignment infix
// expression is reported as a diagnostic, not silently nulled out.
func TestGenerateMismatchedInfixDiagnosed(t *testing.T) {
	prog := parseForGen(t, `fn main() -> int {
	let x:int = 1 + 2.5;
	return 0;
}`)

	g := New(config.Options{}, "mismatch_test")
	defer g.Dispose()

	if err := g.Generate(prog); err == nil {
		t.Fatal("expected a codegen error for mismatched int/float operands")
	}
	if g.Errors.Len() == 0 {
		t.Fatal("expected at least one diagnostic")
	}
}

// TestGenerateExponentUnimplemented exercises open question 5's
// disposition: '^' is reserved but reported as not implemented.
func TestGenerateExponentUnimplemented(t *testing.T) {
	prog := parseForGen(t, `fn main() -> int {
	let x:int = 2 ^ 3;
	return 0;
}`)

	g := New(config.Options{}, "exponent_test")
	defer g.Dispose()

	if err := g.Generate(prog); err == nil {
		t.Fatal("expected a codegen error for the exponent operator")
	}
}

// TestGenerateImportInlinesSymbolsOnce verifies that an import statement's
// functions are lowered into the caller's module, and that importing the
// same module a second time inside the same program does not re-lower
// them (spec §8's idempotent-import property, exercised from codegen's
// side this time rather than the resolver's).
func TestGenerateImportInlinesSymbolsOnce(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "mathutil.lime")
	if err := os.WriteFile(modPath, []byte(`fn square(n:int) -> int {
	return n * n;
}
`), 0644); err != nil {
		t.Fatal(err)
	}

	prog := parseForGen(t, `import "mathutil";
import "mathutil";
fn main() -> int {
	return square(4);
}`)

	g := New(config.Options{ImportSearchPaths: []string{dir}}, "import_test")
	defer g.Dispose()

	if err := g.Generate(prog); err != nil {
		t.Fatalf("unexpected codegen error: %s (%v)", err, g.Errors.All())
	}
	verifyModule(t, g)

	if target := g.Module().NamedFunction("square"); target.IsAFunction().IsNil() {
		t.Fatal("expected imported function square to be declared in the module")
	}
}

// TestGenerateBreakOutsideLoopDiagnosed exercises spec §7: indexing an
// empty break-target stack is reported as a compile error, not a panic.
func TestGenerateBreakOutsideLoopDiagnosed(t *testing.T) {
	prog := parseForGen(t, `fn oops() -> int {
	break;
	return 0;
}`)

	g := New(config.Options{}, "break_test")
	defer g.Dispose()

	if err := g.Generate(prog); err == nil {
		t.Fatal("expected a codegen error for break outside a loop")
	}
}
