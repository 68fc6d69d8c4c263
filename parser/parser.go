// Package parser implements a Pratt (top-down operator precedence) parser
// that turns a token.Kind stream from lexer.Lexer into an *ast.Program.
// The dispatch-table shape — prefixFns/infixFns maps keyed by token.Kind,
// populated once in New — mirrors the registerUnaryFuncs/registerBinaryFuncs
// style used throughout the go-mix lineage this parser borrows its
// architecture from.
package parser

import (
	"strconv"

	"github.com/limelang/limec/ast"
	"github.com/limelang/limec/diag"
	"github.com/limelang/limec/lexer"
	"github.com/limelang/limec/token"
)

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser consumes tokens from a lexer.Lexer on demand and produces an
// *ast.Program, collecting every syntactic error in Errors instead of
// aborting — parsing always continues to surface as many errors as
// possible, per spec §4.2.
type Parser struct {
	lex *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	Errors *diag.Bag

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn
}

// New returns a Parser reading from lex, primed with two tokens of
// lookahead.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{
		lex:    lex,
		Errors: &diag.Bag{},
	}

	p.prefixFns = make(map[token.Kind]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)

	p.infixFns = make(map[token.Kind]infixParseFn)
	for _, k := range []token.Kind{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.MODULO, token.POWER,
		token.LT, token.GT, token.LT_EQ, token.GT_EQ, token.EQ_EQ, token.NOT_EQ,
	} {
		p.registerInfix(k, p.parseInfixExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.PLUS_PLUS, p.parsePostfixExpression)
	p.registerInfix(token.MINUS_MINUS, p.parsePostfixExpression)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(k token.Kind, fn prefixParseFn) { p.prefixFns[k] = fn }
func (p *Parser) registerInfix(k token.Kind, fn infixParseFn)   { p.infixFns[k] = fn }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lex.NextToken()
}

func (p *Parser) curTokenIs(k token.Kind) bool  { return p.curToken.Kind == k }
func (p *Parser) peekTokenIs(k token.Kind) bool { return p.peekToken.Kind == k }

// expectPeek advances past peekToken if it has kind k, recording a parse
// error and leaving the cursor unmoved otherwise.
func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekTokenIs(k) {
		p.nextToken()
		return true
	}
	p.peekError(k)
	return false
}

func (p *Parser) peekError(want token.Kind) {
	p.Errors.Add(diag.StageParse, p.peekToken.Line, p.peekToken.Column,
		"expected next token to be %s, got %s instead", want, p.peekToken.Kind)
}

func (p *Parser) peekPrecedence() precedence {
	if prec, ok := precedences[p.peekToken.Kind]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() precedence {
	if prec, ok := precedences[p.curToken.Kind]; ok {
		return prec
	}
	return LOWEST
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.EQ:       ast.ASSIGN,
	token.PLUS_EQ:  ast.ASSIGN_ADD,
	token.MINUS_EQ: ast.ASSIGN_SUB,
	token.MUL_EQ:   ast.ASSIGN_MUL,
	token.DIV_EQ:   ast.ASSIGN_DIV,
}

func isAssignOp(k token.Kind) bool {
	_, ok := assignOps[k]
	return ok
}

// ParseProgram parses the whole token stream. Only FunctionStatement and
// ImportStatement are legal at the top level (SPEC_FULL §9, open question
// 6): anything else at file scope is recorded as a parse error rather than
// silently lowered into an invalid insertion point.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Kind {
		case token.FN:
			if stmt := p.parseFunctionStatement(); stmt != nil {
				prog.Statements = append(prog.Statements, stmt)
			}
		case token.IMPORT:
			if stmt := p.parseImportStatement(); stmt != nil {
				prog.Statements = append(prog.Statements, stmt)
			}
		default:
			p.Errors.Add(diag.StageParse, p.curToken.Line, p.curToken.Column,
				"only function and import declarations are allowed at the top level, got %s", p.curToken.Kind)
			p.parseStatement() // consume the offending statement so parsing can continue
		}
		p.nextToken()
	}
	return prog
}

// parseStatement dispatches on the current token, matching spec §4.2's
// statement-dispatch rule exactly, including the identifier-followed-by-
// assignment-operator special case.
func (p *Parser) parseStatement() ast.Statement {
	if p.curTokenIs(token.IDENT) && isAssignOp(p.peekToken.Kind) {
		return p.parseAssignStatement()
	}
	switch p.curToken.Kind {
	case token.LET:
		return p.parseLetStatement()
	case token.FN:
		return p.parseFunctionStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() *ast.LetStatement {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.TYPE) {
		return nil
	}
	declaredType := p.curToken.Literal
	if !p.expectPeek(token.EQ) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.LetStatement{Token: tok, Name: name, DeclaredType: declaredType, Value: value}
}

func (p *Parser) parseAssignStatement() *ast.AssignStatement {
	tok := p.curToken
	name := &ast.Identifier{Token: tok, Value: tok.Literal}
	p.nextToken() // now on the assignment operator
	op := assignOps[p.curToken.Kind]
	p.nextToken() // now on the start of the value expression
	value := p.parseExpression(LOWEST)

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.AssignStatement{Token: tok, Name: name, Op: op, Value: value}
}

func (p *Parser) parseFunctionStatement() *ast.FunctionStatement {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseFunctionParameters()
	if !p.expectPeek(token.ARROW) {
		return nil
	}
	if !p.expectPeek(token.TYPE) {
		return nil
	}
	returnType := p.curToken.Literal
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.FunctionStatement{Token: tok, Name: name, Parameters: params, ReturnType: returnType, Body: body}
}

func (p *Parser) parseFunctionParameters() []*ast.FunctionParameter {
	var params []*ast.FunctionParameter

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	if param := p.parseOneParameter(); param != nil {
		params = append(params, param)
	}

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		if param := p.parseOneParameter(); param != nil {
			params = append(params, param)
		}
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseOneParameter() *ast.FunctionParameter {
	if !p.curTokenIs(token.IDENT) {
		p.Errors.Add(diag.StageParse, p.curToken.Line, p.curToken.Column,
			"expected parameter name, got %s", p.curToken.Kind)
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.TYPE) {
		return nil
	}
	return &ast.FunctionParameter{Name: name, DeclaredType: p.curToken.Literal}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	consequence := p.parseBlockStatement()

	stmt := &ast.IfStatement{Token: tok, Condition: cond, Consequence: consequence}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Alternative = p.parseBlockStatement()
	}
	return stmt
}

// parseIfExpression allows `if` in prefix/expression position, per spec
// §4.2's prefix handler table; the code generator never produces a value
// for it (spec §9, open question 2 — preserved, not fixed).
func (p *Parser) parseIfExpression() ast.Expression {
	return p.parseIfStatement()
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken() // onto LET
	if !p.curTokenIs(token.LET) {
		p.Errors.Add(diag.StageParse, p.curToken.Line, p.curToken.Column,
			"expected let-statement as for-loop initializer, got %s", p.curToken.Kind)
		return nil
	}
	init := p.parseLetStatement()

	p.nextToken() // onto condition start
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken() // onto step expression start
	step := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.ForStatement{Token: tok, Init: init, Condition: cond, Step: step, Body: body}
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	tok := p.curToken
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.BreakStatement{Token: tok}
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	tok := p.curToken
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.ContinueStatement{Token: tok}
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.ReturnStatement{Token: tok, Value: value}
}

func (p *Parser) parseImportStatement() *ast.ImportStatement {
	tok := p.curToken
	if !p.expectPeek(token.STRING) {
		return nil
	}
	module := p.curToken.Literal
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.ImportStatement{Token: tok, Module: module}
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// parseExpression is the Pratt expression-parsing core: obtain `left` from
// the current token's prefix handler, then repeatedly fold in infix
// operators whose precedence exceeds prec, per spec §4.2.
func (p *Parser) parseExpression(prec precedence) ast.Expression {
	prefix := p.prefixFns[p.curToken.Kind]
	if prefix == nil {
		p.Errors.Add(diag.StageParse, p.curToken.Line, p.curToken.Column,
			"no prefix parse function for %s found", p.curToken.Kind)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && prec < p.peekPrecedence() {
		infix := p.infixFns[p.peekToken.Kind]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.Errors.Add(diag.StageParse, tok.Line, tok.Column, "could not parse %q as integer", tok.Literal)
		return nil
	}
	return &ast.IntegerLiteral{Token: tok, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.Errors.Add(diag.StageParse, tok.Line, tok.Column, "could not parse %q as float", tok.Literal)
		return nil
	}
	return &ast.FloatLiteral{Token: tok, Value: v}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	return &ast.PrefixExpression{Token: tok, Operator: tok.Literal, Operand: operand}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.InfixExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.Errors.Add(diag.StageParse, tok.Line, tok.Column,
			"postfix operator %s requires an identifier operand", tok.Literal)
		return nil
	}
	return &ast.PostfixExpression{Token: tok, Operand: ident, Operator: tok.Literal}
}

func (p *Parser) parseCallExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	callee, ok := left.(*ast.Identifier)
	if !ok {
		p.Errors.Add(diag.StageParse, tok.Line, tok.Column, "call expression requires an identifier callee")
		return nil
	}
	args := p.parseCallArguments()
	return &ast.CallExpression{Token: tok, Callee: callee, Args: args}
}

func (p *Parser) parseCallArguments() []ast.Expression {
	var args []ast.Expression

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return args
}
