package formatter_test

import (
	"bytes"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/golden"

	"github.com/opal-lang/crux/core/ast"
	"github.com/opal-lang/crux/core/astfmt/formatter"
	"github.com/opal-lang/crux/core/token"
	"github.com/opal-lang/crux/runtime/parser"
)

const program = "2 + 3 * 4\nlet x = -(a + b)\nconst k = c ? 1 : 2"

func parse(t *testing.T, src string) []ast.Statement {
	t.Helper()
	tree, err := parser.ParseString(src)
	assert.NilError(t, err, "input: %q", src)
	return tree.Statements
}

func TestFormatTree(t *testing.T) {
	var buf bytes.Buffer
	formatter.FormatTree(&buf, parse(t, program), false)
	golden.Assert(t, buf.String(), "tree.golden")
}

func TestFormatFlat(t *testing.T) {
	var buf bytes.Buffer
	formatter.FormatFlat(&buf, parse(t, program), false)
	golden.Assert(t, buf.String(), "flat.golden")
}

func TestFormatInfix(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, formatter.FormatInfix(&buf, parse(t, program)))
	golden.Assert(t, buf.String(), "infix.golden")
}

func TestFormatTreeEmpty(t *testing.T) {
	var buf bytes.Buffer
	formatter.FormatTree(&buf, nil, false)
	assert.Equal(t, buf.String(), "(no statements)\n")
}

func TestTreeGuidesStayOpenAcrossSubtrees(t *testing.T) {
	var buf bytes.Buffer
	formatter.FormatTree(&buf, parse(t, "(a - b) * (c - d)"), false)

	want := strings.Join([]string{
		"expression",
		"  └─ Binary *",
		"      ├─ Block",
		"      │   └─ Binary -",
		"      │       ├─ Literal d",
		"      │       └─ Literal c",
		"      └─ Block",
		"          └─ Binary -",
		"              ├─ Literal b",
		"              └─ Literal a",
		"",
	}, "\n")
	assert.Equal(t, buf.String(), want)
}

func TestColor(t *testing.T) {
	stmts := parse(t, "1 + 2")

	var plain, colored bytes.Buffer
	formatter.FormatTree(&plain, stmts, false)
	formatter.FormatTree(&colored, stmts, true)

	assert.Assert(t, !strings.Contains(plain.String(), "\x1b["))
	assert.Assert(t, is.Contains(colored.String(), "\x1b["))
	assert.Assert(t, is.Contains(colored.String(), "Binary"))

	assert.Equal(t, formatter.Flat(stmts[0].Expr, false), "[Literal 1][Literal 2][Binary +]")
	assert.Assert(t, is.Contains(formatter.Flat(stmts[0].Expr, true), "\x1b["))
	assert.Equal(t, formatter.Colorize("x", formatter.ColorHeader, false), "x")
	assert.Equal(t, formatter.Colorize("x", nil, true), "x")
}

func TestHeader(t *testing.T) {
	stmts := parse(t, "1; let a = 1; const b = 2")
	assert.Equal(t, formatter.Header(stmts[0]), "expression")
	assert.Equal(t, formatter.Header(stmts[1]), "variable (let)")
	assert.Equal(t, formatter.Header(stmts[2]), "variable (const)")
}

func TestInfix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 - 2 - 3", "(1 - 2) - 3"},
		{"1 - (2 - 3)", "1 - (2 - 3)"},
		{"-x * y", "-x * y"},
		{"- -x", "--x"},
		{"a ? b : c ? d : e", "(a ? b : c) ? d : e"},
		{"a ? (b ? c : d) : e", "a ? (b ? c : d) : e"},
		{"a + 1 ? b : c", "(a + 1) ? b : c"},
		{"let s = 8 / 4 % 3", "let s = (8 / 4) % 3"},
		{"((7))", "((7))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatter.Infix(parse(t, tt.input)[0])
			assert.NilError(t, err)
			assert.Equal(t, got, tt.want)
		})
	}
}

// withoutBlocks strips Block nodes and positions so two parses can be
// compared structurally.
func withoutBlocks(e *ast.Expression) []string {
	var out []string
	for _, n := range e.All() {
		if n.Kind != ast.NodeBlock {
			out = append(out, n.String())
		}
	}
	return out
}

func TestInfixReparses(t *testing.T) {
	inputs := []string{
		program,
		"x * y - z / w + -v",
		"a ? b : c ? d : e ? f : g",
		"let total = -(price * qty) + tax % 7",
		"1 - -2 - +3",
		"const q = (a ? b : c) * 2",
	}

	for _, input := range inputs {
		original := parse(t, input)

		var buf bytes.Buffer
		assert.NilError(t, formatter.FormatInfix(&buf, original))
		reparsed := parse(t, buf.String())

		assert.Equal(t, len(reparsed), len(original), "input: %q", input)
		for i := range original {
			assert.Equal(t, reparsed[i].Kind, original[i].Kind)
			assert.Equal(t, reparsed[i].Flags, original[i].Flags)
			assert.DeepEqual(t, withoutBlocks(reparsed[i].Expr), withoutBlocks(original[i].Expr))
		}
	}
}

func TestInfixRejectsMalformed(t *testing.T) {
	plus := ast.NewNode(ast.NodeBinary, token.Token{Kind: token.PLUS, Text: "+"})
	stmt := ast.NewExpressionStatement(ast.ExpressionOf(plus))

	_, err := formatter.Infix(stmt)
	assert.ErrorIs(t, err, ast.ErrMalformed)
}
