package codegen

import (
	"fmt"
	"strings"

	"tinygo.org/x/go-llvm"

	"github.com/limelang/limec/ast"
	"github.com/limelang/limec/diag"
)

// genExpression lowers expr to an llvm.Value and reports its LLVM type,
// dispatching on the concrete *ast.Expression kind exactly the way the
// teacher's genExpression switches on ast.Node.Typ (spec §4.7).
func (g *Generator) genExpression(expr ast.Expression) (llvm.Value, llvm.Type) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return llvm.ConstInt(g.intType, uint64(e.Value), true), g.intType
	case *ast.FloatLiteral:
		return llvm.ConstFloat(g.floatType, e.Value), g.floatType
	case *ast.BooleanLiteral:
		if e.Value {
			return llvm.ConstInt(g.boolType, 1, false), g.boolType
		}
		return llvm.ConstInt(g.boolType, 0, false), g.boolType
	case *ast.StringLiteral:
		return g.genStringLiteral(e)
	case *ast.Identifier:
		return g.genIdentifier(e)
	case *ast.PrefixExpression:
		return g.genPrefix(e)
	case *ast.InfixExpression:
		return g.genInfix(e)
	case *ast.PostfixExpression:
		return g.genPostfix(e)
	case *ast.CallExpression:
		return g.genCall(e)
	case *ast.IfStatement:
		// If-as-expression always yields no value (spec §9, open question 2).
		g.genIf(e)
		return llvm.Value{}, llvm.Type{}
	default:
		g.Errors.Add(diag.StageCompile, 0, 0, "unsupported expression type %T", expr)
		return llvm.Value{}, llvm.Type{}
	}
}

// genStringLiteral materializes a string literal per spec §4.7: the
// two-character sequence `\n` (a literal backslash followed by `n` — the
// lexer performs no escape processing, spec §4.1) is substituted with a
// newline followed by a NUL byte, a final NUL terminator is appended, and
// the resulting bytes become the initializer of a fresh internal-linkage
// global named `__str_<n>`, n being a monotonically increasing counter.
// The expression's value is a pointer to the global's first byte.
func (g *Generator) genStringLiteral(lit *ast.StringLiteral) (llvm.Value, llvm.Type) {
	escaped := strings.ReplaceAll(lit.Value, "\\n", "\n\x00")
	data := append([]byte(escaped), 0)

	name := fmt.Sprintf("__str_%d", g.stringCounter)
	g.stringCounter++

	byteType := g.ctx.Int8Type()
	elems := make([]llvm.Value, len(data))
	for i, b := range data {
		elems[i] = llvm.ConstInt(byteType, uint64(b), false)
	}

	global := llvm.AddGlobal(g.module, llvm.ArrayType(byteType, len(data)), name)
	global.SetInitializer(llvm.ConstArray(byteType, elems))
	global.SetLinkage(llvm.InternalLinkage)

	zero := llvm.ConstInt(g.ctx.Int32Type(), 0, false)
	ptr := g.builder.CreateGEP(global, []llvm.Value{zero, zero}, "")
	return ptr, g.strType
}

func (g *Generator) genIdentifier(id *ast.Identifier) (llvm.Value, llvm.Type) {
	b, ok := g.scope.Lookup(id.Value)
	if !ok {
		g.Errors.Add(diag.StageCompile, id.Token.Line, id.Token.Column, "undeclared identifier %q", id.Value)
		return llvm.Value{}, llvm.Type{}
	}
	return g.builder.CreateLoad(b.Storage, ""), b.Type
}

// genPrefix lowers unary `-` and `!`. Negation works uniformly on int and
// float operands; bitwise-not on int flips every bit, but on a float
// operand it is preserved as the constant-false defect of spec §9, open
// question 3, returning g.falseGlobal's loaded value rather than computing
// anything from the operand.
func (g *Generator) genPrefix(expr *ast.PrefixExpression) (llvm.Value, llvm.Type) {
	operand, opType := g.genExpression(expr.Operand)
	if operand.IsNil() {
		return llvm.Value{}, llvm.Type{}
	}

	switch expr.Operator {
	case "-":
		if opType == g.floatType {
			return g.builder.CreateFSub(llvm.ConstFloat(g.floatType, 0), operand, ""), g.floatType
		}
		return g.builder.CreateSub(llvm.ConstInt(g.intType, 0, false), operand, ""), g.intType
	case "!":
		if opType == g.floatType {
			return g.builder.CreateLoad(g.falseGlobal, ""), g.boolType
		}
		allOnes := llvm.ConstInt(opType, ^uint64(0), false)
		return g.builder.CreateXor(allOnes, operand, ""), opType
	default:
		g.Errors.Add(diag.StageCompile, expr.Token.Line, expr.Token.Column, "unsupported prefix operator %q", expr.Operator)
		return llvm.Value{}, llvm.Type{}
	}
}

// genInfix lowers a binary expression. Arithmetic and comparison operators
// each dispatch on whether the operands are both int or both float;
// mixing the two is diagnosed rather than silently promoted (spec §9,
// open question 4), and `^` is diagnosed as unimplemented (spec §9, open
// question 5).
func (g *Generator) genInfix(expr *ast.InfixExpression) (llvm.Value, llvm.Type) {
	left, leftType := g.genExpression(expr.Left)
	if left.IsNil() {
		return llvm.Value{}, llvm.Type{}
	}
	right, rightType := g.genExpression(expr.Right)
	if right.IsNil() {
		return llvm.Value{}, llvm.Type{}
	}

	if expr.Operator == "^" {
		g.Errors.Add(diag.StageCompile, expr.Token.Line, expr.Token.Column, "exponent operator not implemented")
		return llvm.Value{}, llvm.Type{}
	}

	if leftType != rightType {
		g.Errors.Add(diag.StageCompile, expr.Token.Line, expr.Token.Column,
			"mismatched operand types for operator %q", expr.Operator)
		return llvm.Value{}, llvm.Type{}
	}

	isFloat := leftType == g.floatType

	switch expr.Operator {
	case "+":
		if isFloat {
			return g.builder.CreateFAdd(left, right, ""), g.floatType
		}
		return g.builder.CreateAdd(left, right, ""), g.intType
	case "-":
		if isFloat {
			return g.builder.CreateFSub(left, right, ""), g.floatType
		}
		return g.builder.CreateSub(left, right, ""), g.intType
	case "*":
		if isFloat {
			return g.builder.CreateFMul(left, right, ""), g.floatType
		}
		return g.builder.CreateMul(left, right, ""), g.intType
	case "/":
		if isFloat {
			return g.builder.CreateFDiv(left, right, ""), g.floatType
		}
		return g.builder.CreateSDiv(left, right, ""), g.intType
	case "%":
		if isFloat {
			return g.builder.CreateFRem(left, right, ""), g.floatType
		}
		return g.builder.CreateSRem(left, right, ""), g.intType
	case "==":
		if isFloat {
			return g.builder.CreateFCmp(llvm.FloatOEQ, left, right, ""), g.boolType
		}
		return g.builder.CreateICmp(llvm.IntEQ, left, right, ""), g.boolType
	case "!=":
		if isFloat {
			return g.builder.CreateFCmp(llvm.FloatONE, left, right, ""), g.boolType
		}
		return g.builder.CreateICmp(llvm.IntNE, left, right, ""), g.boolType
	case "<":
		if isFloat {
			return g.builder.CreateFCmp(llvm.FloatOLT, left, right, ""), g.boolType
		}
		return g.builder.CreateICmp(llvm.IntSLT, left, right, ""), g.boolType
	case ">":
		if isFloat {
			return g.builder.CreateFCmp(llvm.FloatOGT, left, right, ""), g.boolType
		}
		return g.builder.CreateICmp(llvm.IntSGT, left, right, ""), g.boolType
	case "<=":
		if isFloat {
			return g.builder.CreateFCmp(llvm.FloatOLE, left, right, ""), g.boolType
		}
		return g.builder.CreateICmp(llvm.IntSLE, left, right, ""), g.boolType
	case ">=":
		if isFloat {
			return g.builder.CreateFCmp(llvm.FloatOGE, left, right, ""), g.boolType
		}
		return g.builder.CreateICmp(llvm.IntSGE, left, right, ""), g.boolType
	default:
		g.Errors.Add(diag.StageCompile, expr.Token.Line, expr.Token.Column, "unsupported operator %q", expr.Operator)
		return llvm.Value{}, llvm.Type{}
	}
}

// genPostfix lowers `x++` / `x--`: load the current value, compute the
// incremented/decremented value, store it back, and yield the value the
// variable held *before* the update (spec §4.7).
func (g *Generator) genPostfix(expr *ast.PostfixExpression) (llvm.Value, llvm.Type) {
	b, ok := g.scope.Lookup(expr.Operand.Value)
	if !ok {
		g.Errors.Add(diag.StageCompile, expr.Token.Line, expr.Token.Column, "undeclared identifier %q", expr.Operand.Value)
		return llvm.Value{}, llvm.Type{}
	}

	original := g.builder.CreateLoad(b.Storage, "")

	var updated llvm.Value
	isFloat := b.Type == g.floatType
	one := llvm.ConstInt(g.intType, 1, false)
	oneF := llvm.ConstFloat(g.floatType, 1)

	switch expr.Operator {
	case "++":
		if isFloat {
			updated = g.builder.CreateFAdd(original, oneF, "")
		} else {
			updated = g.builder.CreateAdd(original, one, "")
		}
	case "--":
		if isFloat {
			updated = g.builder.CreateFSub(original, oneF, "")
		} else {
			updated = g.builder.CreateSub(original, one, "")
		}
	default:
		g.Errors.Add(diag.StageCompile, expr.Token.Line, expr.Token.Column, "unsupported postfix operator %q", expr.Operator)
		return llvm.Value{}, llvm.Type{}
	}

	g.builder.CreateStore(updated, b.Storage)
	return original, b.Type
}

// genCall lowers a call expression. Calls to printf accept a variable
// number of arguments forwarded as-is; every other callee must already be
// a declared lime function.
func (g *Generator) genCall(expr *ast.CallExpression) (llvm.Value, llvm.Type) {
	name := expr.Callee.Value

	target := g.module.NamedFunction(name)
	if target.IsAFunction().IsNil() {
		g.Errors.Add(diag.StageCompile, expr.Token.Line, expr.Token.Column, "call to undeclared function %q", name)
		return llvm.Value{}, llvm.Type{}
	}

	args := make([]llvm.Value, 0, len(expr.Args))
	for _, argExpr := range expr.Args {
		val, typ := g.genExpression(argExpr)
		if val.IsNil() && typ == (llvm.Type{}) {
			return llvm.Value{}, llvm.Type{}
		}
		args = append(args, val)
	}

	if name != "printf" && len(args) != len(target.Params()) {
		g.Errors.Add(diag.StageCompile, expr.Token.Line, expr.Token.Column,
			"function %q expects %d argument(s), got %d", name, len(target.Params()), len(args))
		return llvm.Value{}, llvm.Type{}
	}

	retType, ok := g.scope.Lookup(name)
	var resultType llvm.Type
	if ok {
		resultType = retType.Type
	}

	return g.builder.CreateCall(target, args, ""), resultType
}
