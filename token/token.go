// Package token defines the closed set of lexical token kinds recognised by
// the lime compiler's lexer, along with the keyword and type-name lookup
// tables used to classify identifiers.
package token

import "fmt"

// Kind differentiates the lexical category of a Token.
type Kind int

// The complete set of token kinds, see spec §6.
const (
	EOF Kind = iota
	ILLEGAL

	IDENT
	INT
	FLOAT
	STRING
	TYPE

	PLUS
	MINUS
	ASTERISK
	SLASH
	POWER
	MODULO

	EQ
	PLUS_EQ
	MINUS_EQ
	MUL_EQ
	DIV_EQ

	LT
	GT
	EQ_EQ
	NOT_EQ
	LT_EQ
	GT_EQ

	BANG
	PLUS_PLUS
	MINUS_MINUS

	COLON
	COMMA
	SEMICOLON
	ARROW
	LPAREN
	RPAREN
	LBRACE
	RBRACE

	LET
	FN
	RETURN
	IF
	ELSE
	TRUE
	FALSE
	WHILE
	BREAK
	CONTINUE
	FOR
	IMPORT
)

// kindNames gives a print-friendly name for each Kind, used by diagnostics
// and --debug-lexer dumps.
var kindNames = [...]string{
	EOF:         "EOF",
	ILLEGAL:     "ILLEGAL",
	IDENT:       "IDENT",
	INT:         "INT",
	FLOAT:       "FLOAT",
	STRING:      "STRING",
	TYPE:        "TYPE",
	PLUS:        "+",
	MINUS:       "-",
	ASTERISK:    "*",
	SLASH:       "/",
	POWER:       "^",
	MODULO:      "%",
	EQ:          "=",
	PLUS_EQ:     "+=",
	MINUS_EQ:    "-=",
	MUL_EQ:      "*=",
	DIV_EQ:      "/=",
	LT:          "<",
	GT:          ">",
	EQ_EQ:       "==",
	NOT_EQ:      "!=",
	LT_EQ:       "<=",
	GT_EQ:       ">=",
	BANG:        "!",
	PLUS_PLUS:   "++",
	MINUS_MINUS: "--",
	COLON:       ":",
	COMMA:       ",",
	SEMICOLON:   ";",
	ARROW:       "->",
	LPAREN:      "(",
	RPAREN:      ")",
	LBRACE:      "{",
	RBRACE:      "}",
	LET:         "let",
	FN:          "fn",
	RETURN:      "return",
	IF:          "if",
	ELSE:        "else",
	TRUE:        "true",
	FALSE:       "false",
	WHILE:       "while",
	BREAK:       "break",
	CONTINUE:    "continue",
	FOR:         "for",
	IMPORT:      "import",
}

// String returns the print-friendly name of k.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexeme produced by the lexer, with source position.
type Token struct {
	Kind    Kind
	Literal string
	Line    int
	Column  int
}

// String renders t for debug dumps.
func (t Token) String() string {
	if len(t.Literal) > 12 {
		return fmt.Sprintf("%s %.12q... (%d:%d)", t.Kind, t.Literal, t.Line, t.Column)
	}
	return fmt.Sprintf("%s %q (%d:%d)", t.Kind, t.Literal, t.Line, t.Column)
}

// primaryKeywords maps the canonical spelling of each keyword to its Kind.
var primaryKeywords = map[string]Kind{
	"let":      LET,
	"fn":       FN,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"true":     TRUE,
	"false":    FALSE,
	"while":    WHILE,
	"break":    BREAK,
	"continue": CONTINUE,
	"for":      FOR,
	"import":   IMPORT,
}

// altKeywords is a whimsical alias set mapping informal spellings onto
// existing token kinds: keywords, and also `=`, `;` and `->`.
var altKeywords = map[string]Kind{
	"lit":      LET,
	"be":       EQ,
	"rn":       SEMICOLON,
	"bruh":     FN,
	"pause":    RETURN,
	"snek":     ARROW,
	"sus":      IF,
	"imposter": ELSE,
}

// typeNames is the closed set of recognised source type names.
var typeNames = map[string]bool{
	"int":   true,
	"float": true,
	"bool":  true,
	"str":   true,
	"void":  true,
}

// LookupIdent classifies lexeme as a primary keyword, an alternate-keyword
// alias, a declared type name, or a plain identifier, in that order.
func LookupIdent(lexeme string) Kind {
	if k, ok := primaryKeywords[lexeme]; ok {
		return k
	}
	if k, ok := altKeywords[lexeme]; ok {
		return k
	}
	if typeNames[lexeme] {
		return TYPE
	}
	return IDENT
}
