// Package codegen lowers a lime *ast.Program directly to LLVM IR using the
// tinygo.org/x/go-llvm binding, the way the teacher's
// ir/llvm/transform.go does: one Generator owns the LLVM context, builder,
// module, the scope chain, and the break/continue target stacks, and walks
// the AST in declaration order emitting instructions as it goes (spec §4.4
// through §4.7).
package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/limelang/limec/ast"
	"github.com/limelang/limec/config"
	"github.com/limelang/limec/diag"
	"github.com/limelang/limec/resolver"
)

// reservedNames lists names with special meaning to the generator. printf
// is bound to the C runtime declaration in the root scope and may not be
// used as a lime function name; main is the program entry point and is
// exempted from that check in genFunctionHeader.
var reservedNames = []string{"printf", "main"}

// Generator lowers one *ast.Program, plus every module it transitively
// imports, into a single llvm.Module.
type Generator struct {
	opt config.Options

	ctx     llvm.Context
	builder llvm.Builder
	module  llvm.Module

	root  *Scope // module scope, pre-populated with printf and the bool constants
	scope *Scope // current scope during lowering

	breakTargets    []llvm.BasicBlock
	continueTargets []llvm.BasicBlock

	stringCounter int

	resolver       *resolver.Resolver
	loweredImports map[string]bool

	Errors *diag.Bag

	intType   llvm.Type
	floatType llvm.Type
	boolType  llvm.Type
	strType   llvm.Type

	printfFn llvm.Value

	// trueGlobal and falseGlobal are the two internal-linkage global
	// constants spec §4.4 calls for pre-populating the root environment
	// with. They are not how boolean literals are normally lowered (those
	// materialize inline i1 constants, see genExpression) — they exist
	// for the !float defect (spec §9, open question 3) to reference.
	trueGlobal  llvm.Value
	falseGlobal llvm.Value

	currentFunc       llvm.Value
	currentReturnType llvm.Type
}

// New creates a Generator ready to lower programs into a module named
// moduleName.
func New(opt config.Options, moduleName string) *Generator {
	g := &Generator{
		opt:            opt,
		resolver:       resolver.New(opt.ImportSearchPaths),
		loweredImports: make(map[string]bool),
		Errors:         &diag.Bag{},
	}

	g.ctx = llvm.NewContext()
	g.builder = g.ctx.NewBuilder()
	g.module = g.ctx.NewModule(moduleName)

	g.intType = g.ctx.Int32Type()
	g.floatType = g.ctx.FloatType()
	g.boolType = g.ctx.Int1Type()
	g.strType = llvm.PointerType(g.ctx.Int8Type(), 0)

	g.root = NewScope("module", nil)
	g.scope = g.root

	g.declareRuntime()
	return g
}

// Module returns the llvm.Module built so far. Valid only after Generate
// has returned without error.
func (g *Generator) Module() llvm.Module { return g.module }

// Dispose releases the underlying LLVM context, builder and module. The
// caller (cmd/limec) must call this once it is done with Module(), since
// the bindings are not garbage collected by Go.
func (g *Generator) Dispose() {
	g.builder.Dispose()
	g.module.Dispose()
	g.ctx.Dispose()
}

// declareRuntime installs the C printf declaration and the true/false
// global constants into the root scope, per spec §4.4.
func (g *Generator) declareRuntime() {
	printfType := llvm.FunctionType(g.intType, []llvm.Type{g.strType}, true)
	g.printfFn = llvm.AddFunction(g.module, "printf", printfType)
	// Bound by its return type, like every other function in scope
	// (genFunction does the same for lime functions) — not its full
	// function type, since that's what a caller assigning printf's result
	// would allocate storage as.
	g.root.Define("printf", g.printfFn, g.intType)

	g.trueGlobal = llvm.AddGlobal(g.module, g.boolType, "true")
	g.trueGlobal.SetInitializer(llvm.ConstInt(g.boolType, 1, false))
	g.trueGlobal.SetLinkage(llvm.InternalLinkage)

	g.falseGlobal = llvm.AddGlobal(g.module, g.boolType, "false")
	g.falseGlobal.SetInitializer(llvm.ConstInt(g.boolType, 0, false))
	g.falseGlobal.SetLinkage(llvm.InternalLinkage)

	g.root.Define("true", g.trueGlobal, g.boolType)
	g.root.Define("false", g.falseGlobal, g.boolType)
}

// Generate walks prog's top-level statements in order, lowering every
// FunctionStatement and inlining every ImportStatement's symbols into the
// root scope (spec §4.6). Returns a non-nil error stating how many
// diagnostics were recorded when Errors is non-empty; the diagnostics
// themselves are in Errors.
func (g *Generator) Generate(prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionStatement:
			g.genFunction(s)
		case *ast.ImportStatement:
			g.genImport(s)
		default:
			// parser.ParseProgram already rejects anything else at the top
			// level (spec §9, open question 6); reaching here would be a
			// parser bug, not a user error.
			g.Errors.Add(diag.StageCompile, 0, 0, "unexpected top-level statement %T", stmt)
		}
	}
	if g.Errors.Len() > 0 {
		return fmt.Errorf("code generation reported %d error(s)", g.Errors.Len())
	}
	return nil
}

// pushLoopTargets pushes a new (break, continue) target pair.
func (g *Generator) pushLoopTargets(brk, cont llvm.BasicBlock) {
	g.breakTargets = append(g.breakTargets, brk)
	g.continueTargets = append(g.continueTargets, cont)
}

// popLoopTargets pops the innermost (break, continue) target pair. Callers
// pair every push with a pop after lowering the loop body, with no return
// in between, so the stacks stay balanced on every path (spec §5).
func (g *Generator) popLoopTargets() {
	g.breakTargets = g.breakTargets[:len(g.breakTargets)-1]
	g.continueTargets = g.continueTargets[:len(g.continueTargets)-1]
}
