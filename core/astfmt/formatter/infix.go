package formatter

import (
	"fmt"
	"io"

	"github.com/opal-lang/crux/core/ast"
)

// operand is a rendered subtree on the value stack. Atoms never need
// parentheses when used as an operand.
type operand struct {
	text string
	atom bool
}

func (o operand) wrapped() string {
	if o.atom {
		return o.text
	}
	return "(" + o.text + ")"
}

// Infix rebuilds source text for a statement. Every compound operand is
// parenthesised, so parsing the result again yields the same nodes apart from
// extra Block nodes.
func Infix(stmt ast.Statement) (string, error) {
	if err := stmt.Check(); err != nil {
		return "", err
	}

	// Forward scan: operands are complete before their operator arrives.
	stack := make([]operand, 0, 16)
	pop := func() operand {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for _, n := range stmt.Expr.All() {
		op := n.Token.Text
		if op == "" {
			op = n.Token.Kind.Symbol()
		}

		switch n.Kind {
		case ast.NodeLiteral:
			stack = append(stack, operand{text: op, atom: true})

		case ast.NodePrefix:
			inner := pop()
			stack = append(stack, operand{text: op + inner.wrapped(), atom: true})

		case ast.NodeBlock:
			inner := pop()
			stack = append(stack, operand{text: "(" + inner.text + ")", atom: true})

		case ast.NodeBinary:
			right := pop()
			left := pop()
			stack = append(stack, operand{text: left.wrapped() + " " + op + " " + right.wrapped()})

		case ast.NodeTernary:
			// [else][then][cond][?]: the condition was pushed last
			cond := pop()
			then := pop()
			els := pop()
			stack = append(stack, operand{text: cond.wrapped() + " ? " + then.wrapped() + " : " + els.wrapped()})
		}
	}

	if stmt.Kind != ast.StmtVariable {
		return stack[0].text, nil
	}

	keyword := "let"
	if stmt.IsConst() {
		keyword = "const"
	}
	// [value][symbol]
	return keyword + " " + stack[1].text + " = " + stack[0].text, nil
}

// FormatInfix writes every statement as source, one per line.
func FormatInfix(w io.Writer, statements []ast.Statement) error {
	for i, stmt := range statements {
		src, err := Infix(stmt)
		if err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
		if _, err := fmt.Fprintln(w, src); err != nil {
			return err
		}
	}
	return nil
}
