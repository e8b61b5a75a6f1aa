package parser

import (
	"github.com/opal-lang/crux/core/ast"
	"github.com/opal-lang/crux/core/token"
)

// expression parses an expression whose operators bind tighter than min.
//
// The result is in postfix order: every operand is written before its
// operator. Comments and line breaks are skipped while looking for a
// continuation operator, so an operator at the start of the next line extends
// the expression; anything else ends it.
func (p *parser) expression(min Power) (*ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.nud()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		power := LedPower(tok.Kind)
		if power <= min {
			return left, nil
		}

		if err := p.led(left, tok, power); err != nil {
			return nil, err
		}
	}
}

// nud parses a token in prefix position
func (p *parser) nud() (*ast.Expression, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.NUMBER, token.IDENTIFIER:
		p.next()
		return ast.ExpressionOf(ast.NewNode(ast.NodeLiteral, tok)), nil

	case token.PLUS, token.MINUS:
		p.next()
		if !canStart(p.peek().Kind) {
			return nil, p.missingOperand(tok, "unary")
		}

		operand, err := p.expression(NudPower(tok.Kind))
		if err != nil {
			return nil, err
		}
		operand.Push(ast.NewNode(ast.NodePrefix, tok))
		return operand, nil

	case token.LPAREN:
		p.next()
		inner, err := p.expression(Default)
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RPAREN, "parenthesized expression"); err != nil {
			return nil, err
		}
		inner.Push(ast.NewNode(ast.NodeBlock, tok))
		return inner, nil
	}

	return nil, p.errorUnexpected(tok, "expression")
}

// led parses a token in infix position, extending left in place
func (p *parser) led(left *ast.Expression, tok token.Token, power Power) error {
	switch tok.Kind {
	case token.PLUS, token.MINUS, token.MULTIPLY, token.DIVIDE, token.MODULO:
		p.next()
		if !canStart(p.peek().Kind) {
			return p.missingOperand(tok, "binary")
		}

		right, err := p.expression(power)
		if err != nil {
			return err
		}

		// [left][right][op]
		left.Concat(right)
		left.Push(ast.NewNode(ast.NodeBinary, tok))
		return nil

	case token.QUESTION:
		p.next()
		middle, err := p.expression(Ternary)
		if err != nil {
			return err
		}
		if _, err := p.eat(token.COLON, "conditional expression"); err != nil {
			return err
		}
		right, err := p.expression(Ternary)
		if err != nil {
			return err
		}

		// left was built first but belongs last: [right][middle][left][?]
		p.logger.Debug("ternary splice",
			"offset", tok.Offset, "left", left.Len(), "middle", middle.Len(), "right", right.Len())
		left.Prepend(middle)
		left.Prepend(right)
		left.Push(ast.NewNode(ast.NodeTernary, tok))
		return nil
	}

	return p.errorUnexpected(tok, "expression")
}

// missingOperand reports an operator with nothing after it, located at the operator.
func (p *parser) missingOperand(op token.Token, arity string) *ParseError {
	err := p.errorAt(op, "missing operand after "+arity+" "+op.Kind.Describe(), "expression")
	err.Expected = []token.Kind{token.NUMBER, token.IDENTIFIER, token.LPAREN}
	err.Got = p.peek().Kind
	err.Text = op.Text
	return err
}
