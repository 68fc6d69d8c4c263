// Package ast defines the Abstract Syntax Tree node types produced by the
// lime parser. Each syntactic form from spec §3 gets its own Go type
// implementing the Statement or Expression marker interface, the tagged-
// union style called for in spec §9 in preference to a single generic
// node-kind-plus-attribute-bag representation.
package ast

import (
	"bytes"
	"strings"

	"github.com/limelang/limec/token"
)

// Node is implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement is implemented by every statement-level AST node.
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by every expression-level AST node.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of the tree: an ordered sequence of top-level
// statements (function and import declarations only — see Parser.ParseProgram).
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Identifier is both a standalone Expression and the name component of
// several statement forms (LetStatement, AssignStatement, FunctionParameter).
type Identifier struct {
	Token token.Token // the IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// FunctionParameter is a single `name: type` pair in a function signature.
type FunctionParameter struct {
	Name         *Identifier
	DeclaredType string
}

func (fp *FunctionParameter) String() string {
	return fp.Name.Value + ": " + fp.DeclaredType
}

func joinParams(params []*FunctionParameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
