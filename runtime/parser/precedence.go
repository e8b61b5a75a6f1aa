package parser

import "github.com/opal-lang/crux/core/token"

// Power is a binding power. A larger power binds tighter.
type Power uint8

const (
	Default        Power = iota // cannot start or continue an expression
	Ternary                     // ? :
	Additive                    // + -
	Multiplicative              // * / %
	Unary                       // prefix + -
	Primary                     // literals
)

func (p Power) String() string {
	switch p {
	case Default:
		return "default"
	case Ternary:
		return "ternary"
	case Additive:
		return "additive"
	case Multiplicative:
		return "multiplicative"
	case Unary:
		return "unary"
	case Primary:
		return "primary"
	}
	return "unknown"
}

// NudPower returns the power of kind when it starts a subexpression.
func NudPower(kind token.Kind) Power {
	switch kind {
	case token.NUMBER, token.IDENTIFIER:
		return Primary
	case token.PLUS, token.MINUS:
		return Unary
	}
	return Default
}

// LedPower returns the power of kind in infix position. Default means the
// token ends the current expression.
func LedPower(kind token.Kind) Power {
	switch kind {
	case token.PLUS, token.MINUS:
		return Additive
	case token.MULTIPLY, token.DIVIDE, token.MODULO:
		return Multiplicative
	case token.QUESTION, token.COLON:
		return Ternary
	}
	return Default
}

// canStart reports whether kind may begin an expression. An opening
// parenthesis has no binding power of its own but still starts a Block.
func canStart(kind token.Kind) bool {
	return kind == token.LPAREN || NudPower(kind) != Default
}
