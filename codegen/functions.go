package codegen

import (
	"tinygo.org/x/go-llvm"

	"github.com/limelang/limec/ast"
	"github.com/limelang/limec/diag"
)

// llvmType maps a lime source type name to its LLVM representation, per
// spec §3's source type table.
func (g *Generator) llvmType(name string) (llvm.Type, bool) {
	switch name {
	case "int":
		return g.intType, true
	case "float":
		return g.floatType, true
	case "bool":
		return g.boolType, true
	case "str":
		return g.strType, true
	case "void":
		return g.ctx.VoidType(), true
	default:
		return llvm.Type{}, false
	}
}

// genFunction lowers one FunctionStatement, following the steps of
// spec §4.5: build the LLVM function, enter its body block, bind
// parameters into a fresh child scope, bind the function's own name for
// recursion, lower the body, then restore the saved builder position and
// scope.
func (g *Generator) genFunction(fn *ast.FunctionStatement) {
	fnVal, retType, ok := g.genFunctionHeader(fn)
	if !ok {
		return
	}

	savedBlock := g.builder.GetInsertBlock()
	savedScope := g.scope

	entry := llvm.AddBasicBlock(fnVal, "entry")
	g.builder.SetInsertPointAtEnd(entry)

	fnScope := NewScope(fn.Name.Value, g.root)

	// Self-recursion binding: the function's own name is visible inside its
	// own body (spec §4.5, step 4).
	fnScope.Define(fn.Name.Value, fnVal, retType)

	for i, param := range fn.Parameters {
		paramType, ok := g.llvmType(param.DeclaredType)
		if !ok {
			g.Errors.Add(diag.StageCompile, 0, 0, "unknown parameter type %q", param.DeclaredType)
			continue
		}
		arg := fnVal.Param(i)
		slot := g.builder.CreateAlloca(paramType, param.Name.Value)
		g.builder.CreateStore(arg, slot)
		fnScope.Define(param.Name.Value, slot, paramType)
	}

	g.scope = fnScope
	savedFunc, savedRet := g.currentFunc, g.currentReturnType
	g.currentFunc, g.currentReturnType = fnVal, retType

	g.genBlock(fn.Body)

	g.currentFunc, g.currentReturnType = savedFunc, savedRet
	g.scope = savedScope
	if savedBlock != (llvm.BasicBlock{}) {
		g.builder.SetInsertPointAtEnd(savedBlock)
	}

	// Re-bind the function's name in the parent (module) scope too, so
	// callers declared later in the file resolve it (spec §4.5,
	// step 4: "after lowering the body, re-bind it in the parent scope").
	g.root.Define(fn.Name.Value, fnVal, retType)
}

// genFunctionHeader builds the llvm.Value for fn's signature and returns
// its LLVM return type, without touching the builder's insertion point.
func (g *Generator) genFunctionHeader(fn *ast.FunctionStatement) (llvm.Value, llvm.Type, bool) {
	for _, reserved := range reservedNames {
		if fn.Name.Value == reserved && reserved != "main" {
			g.Errors.Add(diag.StageCompile, 0, 0, "function name %q is reserved", fn.Name.Value)
			return llvm.Value{}, llvm.Type{}, false
		}
	}

	retType, ok := g.llvmType(fn.ReturnType)
	if !ok {
		g.Errors.Add(diag.StageCompile, 0, 0, "unknown return type %q for function %q", fn.ReturnType, fn.Name.Value)
		return llvm.Value{}, llvm.Type{}, false
	}

	paramTypes := make([]llvm.Type, 0, len(fn.Parameters))
	for _, param := range fn.Parameters {
		pt, ok := g.llvmType(param.DeclaredType)
		if !ok {
			g.Errors.Add(diag.StageCompile, 0, 0, "unknown parameter type %q on function %q", param.DeclaredType, fn.Name.Value)
			return llvm.Value{}, llvm.Type{}, false
		}
		paramTypes = append(paramTypes, pt)
	}

	fnType := llvm.FunctionType(retType, paramTypes, false)
	fnVal := llvm.AddFunction(g.module, fn.Name.Value, fnType)
	return fnVal, retType, true
}
