package parser

import (
	"github.com/opal-lang/crux/core/ast"
	"github.com/opal-lang/crux/core/token"
)

// ParseTree is the result of a successful parse
type ParseTree struct {
	Source     []byte          // Original source
	Tokens     []token.Token   // Tokens from lexer, EOF included
	Statements []ast.Statement // Statements in source order
	Telemetry  *ParseTelemetry // Nil unless telemetry was enabled
}

// NodeCount returns the number of expression nodes over all statements.
func (t *ParseTree) NodeCount() int {
	n := 0
	for _, stmt := range t.Statements {
		n += stmt.Expr.Len()
	}
	return n
}

// Release drops the buffers of every statement.
func (t *ParseTree) Release() {
	for _, stmt := range t.Statements {
		stmt.Release()
	}
	t.Statements = nil
}
