package parser

import (
	"testing"

	"github.com/limelang/limec/ast"
	"github.com/limelang/limec/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if p.Errors.Len() > 0 {
		for _, d := range p.Errors.All() {
			t.Errorf("parser error: %s", d.Error())
		}
		t.FailNow()
	}
	return prog
}

func TestParseFunctionDeclaration(t *testing.T) {
	prog := parseProgram(t, `fn add(a:int, b:int) -> int {
	return a + b;
}`)

	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	fn, ok := prog.Statements[0].(*ast.FunctionStatement)
	if !ok {
		t.Fatalf("expected *ast.FunctionStatement, got %T", prog.Statements[0])
	}
	if fn.Name.Value != "add" {
		t.Errorf("expected function name %q, got %q", "add", fn.Name.Value)
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(fn.Parameters))
	}
	if fn.Parameters[0].Name.Value != "a" || fn.Parameters[0].DeclaredType != "int" {
		t.Errorf("unexpected first parameter: %+v", fn.Parameters[0])
	}
	if fn.ReturnType != "int" {
		t.Errorf("expected return type %q, got %q", "int", fn.ReturnType)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Statements))
	}
}

func TestParseInfixPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"a + b - c;", "((a + b) - c)"},
		{"1 < 2 == 3 > 2;", "((1 < 2) == (3 > 2))"},
	}

	for _, tt := range tests {
		prog := parseProgram(t, "fn main() -> int {\n"+tt.input+"\nreturn 0;\n}")
		fn := prog.Statements[0].(*ast.FunctionStatement)
		stmt, ok := fn.Body.Statements[0].(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("expected *ast.ExpressionStatement for %q, got %T", tt.input, fn.Body.Statements[0])
		}
		if got := stmt.Expression.String(); got != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestParseLetAndAssignStatements(t *testing.T) {
	prog := parseProgram(t, `fn main() -> int {
	let x:int = 5;
	x += 1;
	return x;
}`)
	fn := prog.Statements[0].(*ast.FunctionStatement)

	let, ok := fn.Body.Statements[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("expected *ast.LetStatement, got %T", fn.Body.Statements[0])
	}
	if let.Name.Value != "x" || let.DeclaredType != "int" {
		t.Errorf("unexpected let statement: %+v", let)
	}

	assign, ok := fn.Body.Statements[1].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("expected *ast.AssignStatement, got %T", fn.Body.Statements[1])
	}
	if assign.Op != ast.ASSIGN_ADD {
		t.Errorf("expected ASSIGN_ADD, got %v", assign.Op)
	}
}

func TestParseIfElseStatement(t *testing.T) {
	prog := parseProgram(t, `fn main() -> int {
	if x < 5 {
		return 1;
	} else {
		return 0;
	}
}`)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	ifStmt, ok := fn.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", fn.Body.Statements[0])
	}
	if ifStmt.Alternative == nil {
		t.Fatal("expected an else branch")
	}
}

func TestParseWhileAndForStatements(t *testing.T) {
	prog := parseProgram(t, `fn main() -> int {
	while x < 10 {
		x++;
	}
	for (let i:int = 0; i < 10; i++) {
		continue;
	}
	return 0;
}`)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	if _, ok := fn.Body.Statements[0].(*ast.WhileStatement); !ok {
		t.Fatalf("expected *ast.WhileStatement, got %T", fn.Body.Statements[0])
	}
	forStmt, ok := fn.Body.Statements[1].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected *ast.ForStatement, got %T", fn.Body.Statements[1])
	}
	if forStmt.Init.Name.Value != "i" {
		t.Errorf("unexpected for-loop initializer: %+v", forStmt.Init)
	}
}

func TestParseCallExpression(t *testing.T) {
	prog := parseProgram(t, `fn main() -> int {
	printf("hi %d", 1);
	return 0;
}`)
	fn := prog.Statements[0].(*ast.FunctionStatement)
	stmt := fn.Body.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", stmt.Expression)
	}
	if call.Callee.Value != "printf" {
		t.Errorf("expected callee %q, got %q", "printf", call.Callee.Value)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(call.Args))
	}
}

func TestParseRejectsTopLevelExecutableStatement(t *testing.T) {
	p := New(lexer.New(`let x:int = 5;`))
	p.ParseProgram()
	if p.Errors.Len() == 0 {
		t.Fatal("expected a parse error for a top-level let statement")
	}
}

func TestParseImportStatement(t *testing.T) {
	prog := parseProgram(t, `import "mathutil";
fn main() -> int {
	return 0;
}`)
	imp, ok := prog.Statements[0].(*ast.ImportStatement)
	if !ok {
		t.Fatalf("expected *ast.ImportStatement, got %T", prog.Statements[0])
	}
	if imp.Module != "mathutil" {
		t.Errorf("expected module %q, got %q", "mathutil", imp.Module)
	}
}
