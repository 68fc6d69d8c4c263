package parser

import "github.com/limelang/limec/token"

// precedence is the operator-precedence climbing ladder from spec §4.2,
// lowest to highest.
type precedence int

const (
	LOWEST precedence = iota
	EQUALS            // == !=
	LESSGREATER       // < > <= >=
	SUM               // + -
	PRODUCT           // * / %
	EXPONENT          // ^
	PREFIX            // unary - !
	CALL              // (
	INDEX             // ++ --
)

// precedences maps each infix-capable token kind to its climbing
// precedence. Tokens absent from the map default to LOWEST.
var precedences = map[token.Kind]precedence{
	token.EQ_EQ:       EQUALS,
	token.NOT_EQ:      EQUALS,
	token.LT:          LESSGREATER,
	token.GT:          LESSGREATER,
	token.LT_EQ:       LESSGREATER,
	token.GT_EQ:       LESSGREATER,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.ASTERISK:    PRODUCT,
	token.SLASH:       PRODUCT,
	token.MODULO:      PRODUCT,
	token.POWER:       EXPONENT,
	token.LPAREN:      CALL,
	token.PLUS_PLUS:   INDEX,
	token.MINUS_MINUS: INDEX,
}
