package ast

import "iter"

// StmtKind distinguishes the statement variants
type StmtKind uint8

const (
	StmtExpression StmtKind = iota // [E]
	StmtVariable                   // [E value][E symbol]
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpression:
		return "expression"
	case StmtVariable:
		return "variable"
	}
	return "unknown"
}

// Flags is a bit set of statement modifiers
type Flags uint8

const (
	FlagConst Flags = 1 << iota // declared with const rather than let
)

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Statement is one top-level statement. A variable declaration stores its
// value expression followed by its symbol expression in the same buffer, so
// walking backward yields the symbol tree first and the value tree second.
type Statement struct {
	Kind  StmtKind
	Expr  *Expression
	Flags Flags
}

// NewExpressionStatement wraps a bare expression.
func NewExpressionStatement(expr *Expression) Statement {
	return Statement{Kind: StmtExpression, Expr: expr}
}

// NewVariableStatement concatenates value and symbol into one buffer. Both
// arguments are drained; value becomes the statement's expression.
func NewVariableStatement(symbol, value *Expression, isConst bool) Statement {
	value.Concat(symbol)

	var flags Flags
	if isConst {
		flags |= FlagConst
	}
	return Statement{Kind: StmtVariable, Expr: value, Flags: flags}
}

// IsConst reports whether a variable was declared with const.
func (s Statement) IsConst() bool {
	return s.Kind == StmtVariable && s.Flags.Has(FlagConst)
}

// Roots returns the number of top-level trees in the statement's buffer.
func (s Statement) Roots() int {
	if s.Kind == StmtVariable {
		return 2
	}
	return 1
}

// Walk visits the statement's trees with Expression.Walk.
func (s Statement) Walk() iter.Seq[Step] {
	return s.Expr.Walk(s.Roots())
}

// Check validates the statement's buffer against its kind.
func (s Statement) Check() error {
	return s.Expr.Check(s.Roots())
}

// Symbol returns the [start, end) range of the symbol tree of a variable.
// It is empty for expression statements.
func (s Statement) Symbol() (start, end int) {
	if s.Kind != StmtVariable {
		return 0, 0
	}
	end = s.Expr.Len()
	return s.Expr.SubtreeStart(end - 1), end
}

// Value returns the [start, end) range of the value tree of a variable, or of
// the whole expression for expression statements.
func (s Statement) Value() (start, end int) {
	if s.Kind != StmtVariable {
		return 0, s.Expr.Len()
	}
	symStart, _ := s.Symbol()
	return 0, symStart
}

// Release drops the statement's buffer.
func (s Statement) Release() {
	s.Expr.Release()
}
