// Package lexer implements the hand-written scanner that turns lime source
// text into a stream of token.Token values. The lexer is a single-pass,
// synchronous scanner: there is no concurrency (see spec §5), so the
// teacher's channel-fed design is replaced by a direct NextToken call the
// parser pulls from on demand, the way akashmaji946/go-mix's lexer does.
package lexer

import (
	"strings"

	"github.com/limelang/limec/token"
)

const eof = 0 // sentinel rune for "no more input", mirrors the teacher's const eof = 0.

// Lexer scans a source string left to right with a one-byte read cursor and
// a one-byte lookahead.
type Lexer struct {
	input  string
	pos    int // current read position in input (points to ch)
	readPos int // next read position
	ch     byte

	line   int // 1-based line counter, incremented on '\n'
	col    int // 1-based column of ch on the current line
}

// New returns a Lexer ready to scan src.
func New(src string) *Lexer {
	l := &Lexer{input: src, line: 1, col: 0}
	l.advance()
	return l
}

// advance consumes one byte of input, updating line/column bookkeeping.
func (l *Lexer) advance() {
	if l.readPos >= len(l.input) {
		l.ch = eof
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peek returns the next byte without consuming it.
func (l *Lexer) peek() byte {
	if l.readPos >= len(l.input) {
		return eof
	}
	return l.input[l.readPos]
}

func isLetter(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// skipWhitespace consumes runs of space, tab, newline and carriage return.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.col = 0
		}
		l.advance()
	}
}

// NextToken returns the next token.Token in the input, or an EOF token once
// the input is exhausted.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line, col := l.line, l.col

	var tok token.Token
	switch {
	case l.ch == eof:
		tok = token.Token{Kind: token.EOF, Literal: "", Line: line, Column: col}
		return tok
	case l.ch == '"':
		lit := l.readString()
		return token.Token{Kind: token.STRING, Literal: lit, Line: line, Column: col}
	case isDigit(l.ch):
		kind, lit := l.readNumber()
		return token.Token{Kind: kind, Literal: lit, Line: line, Column: col}
	case isLetter(l.ch):
		lit := l.readIdentifier()
		return token.Token{Kind: token.LookupIdent(lit), Literal: lit, Line: line, Column: col}
	}

	switch l.ch {
	case '+':
		if l.peek() == '=' {
			l.advance()
			tok = token.Token{Kind: token.PLUS_EQ, Literal: "+=", Line: line, Column: col}
		} else if l.peek() == '+' {
			l.advance()
			tok = token.Token{Kind: token.PLUS_PLUS, Literal: "++", Line: line, Column: col}
		} else {
			tok = token.Token{Kind: token.PLUS, Literal: "+", Line: line, Column: col}
		}
	case '-':
		if l.peek() == '=' {
			l.advance()
			tok = token.Token{Kind: token.MINUS_EQ, Literal: "-=", Line: line, Column: col}
		} else if l.peek() == '-' {
			l.advance()
			tok = token.Token{Kind: token.MINUS_MINUS, Literal: "--", Line: line, Column: col}
		} else if l.peek() == '>' {
			l.advance()
			tok = token.Token{Kind: token.ARROW, Literal: "->", Line: line, Column: col}
		} else {
			tok = token.Token{Kind: token.MINUS, Literal: "-", Line: line, Column: col}
		}
	case '*':
		if l.peek() == '=' {
			l.advance()
			tok = token.Token{Kind: token.MUL_EQ, Literal: "*=", Line: line, Column: col}
		} else {
			tok = token.Token{Kind: token.ASTERISK, Literal: "*", Line: line, Column: col}
		}
	case '/':
		if l.peek() == '=' {
			l.advance()
			tok = token.Token{Kind: token.DIV_EQ, Literal: "/=", Line: line, Column: col}
		} else {
			tok = token.Token{Kind: token.SLASH, Literal: "/", Line: line, Column: col}
		}
	case '^':
		tok = token.Token{Kind: token.POWER, Literal: "^", Line: line, Column: col}
	case '%':
		tok = token.Token{Kind: token.MODULO, Literal: "%", Line: line, Column: col}
	case '=':
		if l.peek() == '=' {
			l.advance()
			tok = token.Token{Kind: token.EQ_EQ, Literal: "==", Line: line, Column: col}
		} else {
			tok = token.Token{Kind: token.EQ, Literal: "=", Line: line, Column: col}
		}
	case '!':
		if l.peek() == '=' {
			l.advance()
			tok = token.Token{Kind: token.NOT_EQ, Literal: "!=", Line: line, Column: col}
		} else {
			tok = token.Token{Kind: token.BANG, Literal: "!", Line: line, Column: col}
		}
	case '<':
		if l.peek() == '=' {
			l.advance()
			tok = token.Token{Kind: token.LT_EQ, Literal: "<=", Line: line, Column: col}
		} else {
			tok = token.Token{Kind: token.LT, Literal: "<", Line: line, Column: col}
		}
	case '>':
		if l.peek() == '=' {
			l.advance()
			tok = token.Token{Kind: token.GT_EQ, Literal: ">=", Line: line, Column: col}
		} else {
			tok = token.Token{Kind: token.GT, Literal: ">", Line: line, Column: col}
		}
	case ':':
		tok = token.Token{Kind: token.COLON, Literal: ":", Line: line, Column: col}
	case ',':
		tok = token.Token{Kind: token.COMMA, Literal: ",", Line: line, Column: col}
	case ';':
		tok = token.Token{Kind: token.SEMICOLON, Literal: ";", Line: line, Column: col}
	case '(':
		tok = token.Token{Kind: token.LPAREN, Literal: "(", Line: line, Column: col}
	case ')':
		tok = token.Token{Kind: token.RPAREN, Literal: ")", Line: line, Column: col}
	case '{':
		tok = token.Token{Kind: token.LBRACE, Literal: "{", Line: line, Column: col}
	case '}':
		tok = token.Token{Kind: token.RBRACE, Literal: "}", Line: line, Column: col}
	default:
		tok = token.Token{Kind: token.ILLEGAL, Literal: string(l.ch), Line: line, Column: col}
	}
	l.advance()
	return tok
}

// readIdentifier consumes a run of [A-Za-z0-9_] starting at a [A-Za-z_].
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.advance()
	}
	return l.input[start:l.pos]
}

// readNumber consumes a run of digits optionally interrupted by a single
// '.'. Two or more '.' characters yield an ILLEGAL token.
func (l *Lexer) readNumber() (token.Kind, string) {
	start := l.pos
	dots := 0
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			dots++
		}
		l.advance()
	}
	lit := l.input[start:l.pos]
	if dots >= 2 {
		return token.ILLEGAL, lit
	}
	if dots == 1 {
		return token.FLOAT, lit
	}
	return token.INT, lit
}

// readString consumes a double-quoted string literal, returning the
// interior text without the surrounding quotes. No escape processing
// happens here; see spec §4.1 and codegen's string materialization.
func (l *Lexer) readString() string {
	var sb strings.Builder
	l.advance() // consume opening '"'
	for l.ch != '"' && l.ch != eof {
		if l.ch == '\n' {
			l.line++
			l.col = 0
		}
		sb.WriteByte(l.ch)
		l.advance()
	}
	if l.ch == '"' {
		l.advance() // consume closing '"'
	}
	return sb.String()
}
