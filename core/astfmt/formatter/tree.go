// Package formatter renders parsed statements for humans: an indented tree,
// the flat postfix buffer, and infix source.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/opal-lang/crux/core/ast"
)

// Tree guides, one column group per ancestor level
const (
	guideOpen   = "  │ "
	guideClosed = "    "
	guideBranch = "  ├─"
	guideLast   = "  └─"
)

// Colors used by the formatters. Each one is forced on so that the useColor
// argument, not the terminal probe, decides whether escapes are written.
var (
	ColorHeader = forced(color.Bold)
	ColorGuide  = forced(color.FgHiBlack)
	ColorError  = forced(color.FgRed, color.Bold)

	kindColors = [...]*color.Color{
		ast.NodeLiteral: forced(color.FgGreen),
		ast.NodePrefix:  forced(color.FgYellow),
		ast.NodeBlock:   forced(color.FgCyan),
		ast.NodeBinary:  forced(color.FgBlue),
		ast.NodeTernary: forced(color.FgMagenta),
	}
)

func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// Colorize wraps text in c's escape codes if color is enabled
func Colorize(text string, c *color.Color, useColor bool) string {
	if !useColor || c == nil {
		return text
	}
	return c.Sprint(text)
}

// Header names a statement the way the tree view introduces it.
func Header(stmt ast.Statement) string {
	if stmt.Kind != ast.StmtVariable {
		return stmt.Kind.String()
	}
	if stmt.IsConst() {
		return "variable (const)"
	}
	return "variable (let)"
}

// FormatTree renders each statement as a header followed by its trees, root
// first and operands nearest-first:
//
//	expression
//	  └─ Binary +
//	      ├─ Binary *
//	      │   ├─ Literal 4
//	      │   └─ Literal 3
//	      └─ Literal 2
func FormatTree(w io.Writer, statements []ast.Statement, useColor bool) {
	if len(statements) == 0 {
		_, _ = fmt.Fprintf(w, "(no statements)\n")
		return
	}

	for _, stmt := range statements {
		_, _ = fmt.Fprintf(w, "%s\n", Colorize(Header(stmt), ColorHeader, useColor))
		renderTree(w, stmt, useColor)
	}
}

// renderTree writes one line per node in walk order
func renderTree(w io.Writer, stmt ast.Statement, useColor bool) {
	var guide strings.Builder
	for step := range stmt.Walk() {
		guide.Reset()
		for _, open := range step.Open {
			if open {
				guide.WriteString(guideOpen)
			} else {
				guide.WriteString(guideClosed)
			}
		}
		if step.Last {
			guide.WriteString(guideLast)
		} else {
			guide.WriteString(guideBranch)
		}

		_, _ = fmt.Fprintf(w, "%s %s\n", Colorize(guide.String(), ColorGuide, useColor), renderNode(step.Node, useColor))
	}
}

// renderNode renders "Kind text" with the kind coloured
func renderNode(n ast.Node, useColor bool) string {
	kind := Colorize(n.Kind.String(), kindColor(n.Kind), useColor)
	if n.Kind == ast.NodeBlock {
		return kind
	}
	return kind + " " + n.Token.Text
}

func kindColor(k ast.NodeKind) *color.Color {
	if int(k) < len(kindColors) {
		return kindColors[k]
	}
	return nil
}
