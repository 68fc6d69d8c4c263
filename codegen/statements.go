package codegen

import (
	"tinygo.org/x/go-llvm"

	"github.com/limelang/limec/ast"
	"github.com/limelang/limec/diag"
)

// genBlock lowers every statement in block in order, into whatever basic
// block the builder currently points at (spec §4.4: top-level statements
// outside a function are, by construction, never reached here since the
// parser rejects them — see spec §9, open question 6). It reports whether
// the block's last lowered statement already terminated the current basic
// block (return/break/continue): once that happens, lowering further
// statements from the same block would emit unreachable instructions after
// a terminator, which is invalid IR, so it stops early. Mirrors the `ret
// bool` threaded out of the teacher's gen (ir/llvm/transform.go:342-397).
func (g *Generator) genBlock(block *ast.BlockStatement) bool {
	for _, stmt := range block.Statements {
		if g.genStatement(stmt) {
			return true
		}
	}
	return false
}

// genStatement lowers one statement and reports whether it left the
// current basic block terminated.
func (g *Generator) genStatement(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		g.genLet(s)
		return false
	case *ast.AssignStatement:
		g.genAssign(s)
		return false
	case *ast.ExpressionStatement:
		g.genExpression(s.Expression)
		return false
	case *ast.ReturnStatement:
		g.genReturn(s)
		return true
	case *ast.IfStatement:
		return g.genIf(s)
	case *ast.WhileStatement:
		g.genWhile(s)
		return false
	case *ast.ForStatement:
		g.genFor(s)
		return false
	case *ast.BreakStatement:
		g.genBreak(s)
		return true
	case *ast.ContinueStatement:
		g.genContinue(s)
		return true
	case *ast.ImportStatement:
		g.genImport(s)
		return false
	case *ast.FunctionStatement:
		// parseStatement accepts `fn` inside a block; nested function
		// declarations are rejected here.
		g.Errors.Add(diag.StageCompile, 0, 0, "nested function declarations are not supported")
		return false
	default:
		g.Errors.Add(diag.StageCompile, 0, 0, "unsupported statement type %T", stmt)
		return false
	}
}

// genLet lowers a let-statement per spec §4.6: a new name allocates a slot
// and defines it; an existing name with the same IR type reuses (rebinds)
// the existing slot; an existing name with a different IR type allocates a
// fresh slot and overwrites the binding. The declared type annotation is
// parsed but not consulted here — preserved per spec §9, open question 1.
func (g *Generator) genLet(stmt *ast.LetStatement) {
	value, valType := g.genExpression(stmt.Value)
	if value.IsNil() {
		return
	}

	name := stmt.Name.Value
	if existing, ok := g.scope.LookupLocal(name); ok {
		if existing.Type == valType {
			g.builder.CreateStore(value, existing.Storage)
			return
		}
		slot := g.builder.CreateAlloca(valType, name)
		g.builder.CreateStore(value, slot)
		g.scope.Define(name, slot, valType)
		return
	}

	slot := g.builder.CreateAlloca(valType, name)
	g.builder.CreateStore(value, slot)
	g.scope.Define(name, slot, valType)
}

// genAssign lowers an assign-statement per spec §4.6. `=` stores outright;
// compound operators load the current value, promote mixed int/float
// operands (the only implicit conversion this language performs), compute
// the operator, and store the result back.
func (g *Generator) genAssign(stmt *ast.AssignStatement) {
	name := stmt.Name.Value
	b, ok := g.scope.Lookup(name)
	if !ok {
		g.Errors.Add(diag.StageCompile, stmt.Token.Line, stmt.Token.Column,
			"assignment to undeclared identifier %q", name)
		return
	}

	rhs, rhsType := g.genExpression(stmt.Value)
	if rhs.IsNil() {
		return
	}

	if stmt.Op == ast.ASSIGN {
		g.builder.CreateStore(rhs, b.Storage)
		return
	}

	current := g.builder.CreateLoad(b.Storage, "")
	lhsType := b.Type

	lhs := current
	resultIsFloat := lhsType == g.floatType || rhsType == g.floatType
	if resultIsFloat {
		if lhsType == g.intType {
			lhs = g.builder.CreateSIToFP(current, g.floatType, "")
		}
		if rhsType == g.intType {
			rhs = g.builder.CreateSIToFP(rhs, g.floatType, "")
		}
	}

	var result llvm.Value
	if resultIsFloat {
		switch stmt.Op {
		case ast.ASSIGN_ADD:
			result = g.builder.CreateFAdd(lhs, rhs, "")
		case ast.ASSIGN_SUB:
			result = g.builder.CreateFSub(lhs, rhs, "")
		case ast.ASSIGN_MUL:
			result = g.builder.CreateFMul(lhs, rhs, "")
		case ast.ASSIGN_DIV:
			result = g.builder.CreateFDiv(lhs, rhs, "")
		default:
			g.Errors.Add(diag.StageCompile, stmt.Token.Line, stmt.Token.Column,
				"unsupported compound assignment operator %q", stmt.Op)
			return
		}
	} else {
		switch stmt.Op {
		case ast.ASSIGN_ADD:
			result = g.builder.CreateAdd(lhs, rhs, "")
		case ast.ASSIGN_SUB:
			result = g.builder.CreateSub(lhs, rhs, "")
		case ast.ASSIGN_MUL:
			result = g.builder.CreateMul(lhs, rhs, "")
		case ast.ASSIGN_DIV:
			result = g.builder.CreateSDiv(lhs, rhs, "")
		default:
			g.Errors.Add(diag.StageCompile, stmt.Token.Line, stmt.Token.Column,
				"unsupported compound assignment operator %q", stmt.Op)
			return
		}
	}

	if resultIsFloat && lhsType == g.intType {
		// The storage slot is still an integer slot; spec §4.6 only
		// specifies the *value* promotion, not a change of the variable's
		// declared storage type, so truncate back before storing.
		result = g.builder.CreateFPToSI(result, g.intType, "")
	}
	g.builder.CreateStore(result, b.Storage)
}

// genReturn lowers a return-statement by emitting a return of the computed
// expression value, per spec §4.6.
func (g *Generator) genReturn(stmt *ast.ReturnStatement) {
	value, _ := g.genExpression(stmt.Value)
	if value.IsNil() {
		return
	}
	g.builder.CreateRet(value)
}

// genIf lowers an if-statement exactly per spec §4.6: with no else-branch,
// a conditional branch into a then-block that falls through to a merge
// block; with an else-branch, a two-way branch where each arm falls
// through to a common merge block. A fall-through branch is only emitted
// for an arm that did not already end in a terminator (return/break/
// continue) — the teacher guards this identically with the `ret`/`retA`/
// `retB` booleans in genIf (ir/llvm/transform.go:918-977), only calling
// CreateBr(conv) `if !ret`. Reports whether every path through the
// if-statement is terminated, so a caller knows whether control can still
// fall out the bottom.
func (g *Generator) genIf(stmt *ast.IfStatement) bool {
	cond, _ := g.genExpression(stmt.Condition)
	if cond.IsNil() {
		return false
	}

	thenBlock := llvm.AddBasicBlock(g.currentFunc, "if.then")

	if stmt.Alternative == nil {
		mergeBlock := llvm.AddBasicBlock(g.currentFunc, "if.end")
		g.builder.CreateCondBr(cond, thenBlock, mergeBlock)

		g.builder.SetInsertPointAtEnd(thenBlock)
		thenTerminated := g.genBlock(stmt.Consequence)
		if !thenTerminated {
			g.builder.CreateBr(mergeBlock)
		}

		g.builder.SetInsertPointAtEnd(mergeBlock)
		// No else-branch: the merge block is always reachable via the
		// condition's false edge, so the if-statement as a whole never
		// terminates its enclosing block.
		return false
	}

	elseBlock := llvm.AddBasicBlock(g.currentFunc, "if.else")
	g.builder.CreateCondBr(cond, thenBlock, elseBlock)

	g.builder.SetInsertPointAtEnd(thenBlock)
	thenTerminated := g.genBlock(stmt.Consequence)

	var mergeBlock llvm.BasicBlock
	if !thenTerminated {
		mergeBlock = llvm.AddBasicBlock(g.currentFunc, "if.end")
		g.builder.CreateBr(mergeBlock)
	}

	g.builder.SetInsertPointAtEnd(elseBlock)
	elseTerminated := g.genBlock(stmt.Alternative)
	if !elseTerminated {
		if mergeBlock.IsNil() {
			mergeBlock = llvm.AddBasicBlock(g.currentFunc, "if.end")
		}
		g.builder.CreateBr(mergeBlock)
	}

	if !mergeBlock.IsNil() {
		g.builder.SetInsertPointAtEnd(mergeBlock)
	}
	return thenTerminated && elseTerminated
}

// genWhile lowers a while-statement per spec §4.6's three-basic-block
// layout (cond, body, end), pushing the loop's break/continue targets
// before lowering the body and popping them unconditionally afterward.
// The back-edge to condBlock is only emitted if the body did not already
// terminate (e.g. via break/continue/return), matching the teacher's
// genWhile (ir/llvm/transform.go:981-1014).
func (g *Generator) genWhile(stmt *ast.WhileStatement) {
	condBlock := llvm.AddBasicBlock(g.currentFunc, "while.cond")
	bodyBlock := llvm.AddBasicBlock(g.currentFunc, "while.body")
	endBlock := llvm.AddBasicBlock(g.currentFunc, "while.end")

	g.builder.CreateBr(condBlock)

	g.builder.SetInsertPointAtEnd(condBlock)
	cond, _ := g.genExpression(stmt.Condition)
	if cond.IsNil() {
		return
	}
	g.builder.CreateCondBr(cond, bodyBlock, endBlock)

	g.pushLoopTargets(endBlock, condBlock)
	g.builder.SetInsertPointAtEnd(bodyBlock)
	bodyTerminated := g.genBlock(stmt.Body)
	if !bodyTerminated {
		g.builder.CreateBr(condBlock)
	}
	g.popLoopTargets()

	g.builder.SetInsertPointAtEnd(endBlock)
}

// genFor lowers a for-statement per spec §4.6: a fresh child scope holds
// the initializer; four basic blocks (cond, body, step, end); break targets
// end, continue targets step.
func (g *Generator) genFor(stmt *ast.ForStatement) {
	savedScope := g.scope
	g.scope = NewScope("for", savedScope)
	defer func() { g.scope = savedScope }()

	g.genLet(stmt.Init)

	condBlock := llvm.AddBasicBlock(g.currentFunc, "for.cond")
	bodyBlock := llvm.AddBasicBlock(g.currentFunc, "for.body")
	stepBlock := llvm.AddBasicBlock(g.currentFunc, "for.step")
	endBlock := llvm.AddBasicBlock(g.currentFunc, "for.end")

	g.builder.CreateBr(condBlock)

	g.builder.SetInsertPointAtEnd(condBlock)
	cond, _ := g.genExpression(stmt.Condition)
	if cond.IsNil() {
		return
	}
	g.builder.CreateCondBr(cond, bodyBlock, endBlock)

	g.pushLoopTargets(endBlock, stepBlock)
	g.builder.SetInsertPointAtEnd(bodyBlock)
	bodyTerminated := g.genBlock(stmt.Body)
	if !bodyTerminated {
		g.builder.CreateBr(stepBlock)
	}
	g.popLoopTargets()

	g.builder.SetInsertPointAtEnd(stepBlock)
	g.genExpression(stmt.Step) // evaluated for side effect only, value discarded
	g.builder.CreateBr(condBlock)

	g.builder.SetInsertPointAtEnd(endBlock)
}

// genBreak emits an unconditional branch to the innermost break target.
// Using break outside a loop indexes an empty stack; spec §4.6 calls this
// undefined behaviour at the source level, but this generator reports it
// as a compile error instead of panicking (spec §7).
func (g *Generator) genBreak(stmt *ast.BreakStatement) {
	if len(g.breakTargets) == 0 {
		g.Errors.Add(diag.StageCompile, stmt.Token.Line, stmt.Token.Column, "break statement outside of a loop")
		return
	}
	g.builder.CreateBr(g.breakTargets[len(g.breakTargets)-1])
}

// genContinue emits an unconditional branch to the innermost continue
// target.
func (g *Generator) genContinue(stmt *ast.ContinueStatement) {
	if len(g.continueTargets) == 0 {
		g.Errors.Add(diag.StageCompile, stmt.Token.Line, stmt.Token.Column, "continue statement outside of a loop")
		return
	}
	g.builder.CreateBr(g.continueTargets[len(g.continueTargets)-1])
}
