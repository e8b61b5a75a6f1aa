package parser

import (
	"github.com/opal-lang/crux/core/ast"
	"github.com/opal-lang/crux/core/token"
)

// statement parses one statement and its optional terminator
func (p *parser) statement() (ast.Statement, error) {
	first := p.peek()
	p.logger.Debug("enter statement", "kind", first.Kind, "offset", first.Offset)

	var stmt ast.Statement
	var err error
	switch first.Kind {
	case token.LET, token.CONST:
		stmt, err = p.variable()
	default:
		stmt, err = p.expressionStatement()
	}
	if err != nil {
		return ast.Statement{}, err
	}

	if err := p.terminator(first); err != nil {
		return ast.Statement{}, err
	}

	p.logger.Debug("exit statement", "kind", stmt.Kind, "nodes", stmt.Expr.Len())
	return stmt, nil
}

// expressionStatement parses a bare expression
func (p *parser) expressionStatement() (ast.Statement, error) {
	expr, err := p.expression(Default)
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.NewExpressionStatement(expr), nil
}

// variable parses: (let | const) symbol '=' value
//
// The statement buffer holds the value followed by the symbol.
func (p *parser) variable() (ast.Statement, error) {
	keyword := p.next()

	symbol, err := p.expression(Default)
	if err != nil {
		return ast.Statement{}, err
	}

	if _, err := p.eat(token.EQUALS, "variable declaration"); err != nil {
		return ast.Statement{}, err
	}

	value, err := p.expression(Default)
	if err != nil {
		return ast.Statement{}, err
	}

	return ast.NewVariableStatement(symbol, value, keyword.Kind == token.CONST), nil
}

// terminator consumes an optional ';'. Without one, the next statement must
// start on a new line (shy semicolon) or the input must end.
func (p *parser) terminator(first token.Token) error {
	if p.at(token.SEMICOLON) {
		p.next()
		return nil
	}
	if p.at(token.EOF) || p.lineBreakBefore() {
		return nil
	}

	tok := p.peek()
	err := p.errorAt(tok, "unexpected "+tok.Kind.Describe()+" after statement", "")
	err.Expected = []token.Kind{token.SEMICOLON, token.NEWLINE}

	if first.Kind == token.IDENTIFIER && tok.Kind == token.IDENTIFIER {
		if keyword := suggestKeyword(first.Text, p.keywords()); keyword != "" {
			err.Suggestion = "Did you mean '" + keyword + "'?"
			err.Example = keyword + " " + tok.Text + " = 1"
			return err
		}
	}
	err.Suggestion = "Separate statements with ';' or a line break"
	return err
}
