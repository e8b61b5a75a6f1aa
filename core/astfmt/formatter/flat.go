package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/opal-lang/crux/core/ast"
)

// FormatFlat writes each statement's buffer front to back on its own line,
// e.g. "[Literal 2][Literal 3][Binary +]".
func FormatFlat(w io.Writer, statements []ast.Statement, useColor bool) {
	for _, stmt := range statements {
		_, _ = fmt.Fprintln(w, Flat(stmt.Expr, useColor))
	}
}

// Flat renders one expression buffer
func Flat(expr *ast.Expression, useColor bool) string {
	if !useColor {
		return expr.String()
	}

	var b strings.Builder
	for _, n := range expr.All() {
		b.WriteByte('[')
		b.WriteString(renderNode(n, true))
		b.WriteByte(']')
	}
	return b.String()
}
