package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/crux/core/ast"
	"github.com/opal-lang/crux/core/token"
	"github.com/opal-lang/crux/runtime/lexer"
)

// flat parses input and renders every statement's buffer front to back
func flat(t *testing.T, input string, opts ...ParserOpt) []string {
	t.Helper()

	tree, err := ParseString(input, opts...)
	require.NoError(t, err, "input: %q", input)

	var out []string
	for _, stmt := range tree.Statements {
		out = append(out, stmt.Expr.String())
	}
	return out
}

// parseErr parses input and requires a *ParseError
func parseErr(t *testing.T, input string, opts ...ParserOpt) *ParseError {
	t.Helper()

	tree, err := ParseString(input, opts...)
	require.Error(t, err, "input: %q", input)
	assert.Nil(t, tree)

	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected *ParseError, got %T: %v", err, err)
	return perr
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "multiplication binds tighter",
			input: "2 + 3 * 4",
			want:  []string{"[Literal 2][Literal 3][Literal 4][Binary *][Binary +]"},
		},
		{
			name:  "prefix minus",
			input: "-5",
			want:  []string{"[Literal 5][Prefix -]"},
		},
		{
			name:  "ternary is spliced right to left",
			input: "1 ? 2 : 3",
			want:  []string{"[Literal 3][Literal 2][Literal 1][Ternary ?]"},
		},
		{
			name:  "variable holds value then symbol",
			input: "let x = 1 + 2",
			want:  []string{"[Literal 1][Literal 2][Binary +][Literal x]"},
		},
		{
			name:  "parentheses emit a block",
			input: "(1 + 2) * 3",
			want:  []string{"[Literal 1][Literal 2][Binary +][Block][Literal 3][Binary *]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, flat(t, tt.input)); diff != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOperatorWithoutOperand(t *testing.T) {
	err := parseErr(t, "+")

	assert.Equal(t, 0, err.Offset)
	assert.Equal(t, token.EOF, err.Got)
	assert.Contains(t, err.Message, "missing operand after unary '+'")
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, err.Position)
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"subtraction is left associative", "1 - 2 - 3", "[Literal 1][Literal 2][Binary -][Literal 3][Binary -]"},
		{"division and modulo", "8 / 4 % 3", "[Literal 8][Literal 4][Binary /][Literal 3][Binary %]"},
		{"prefix binds tighter than multiply", "-2 * 3", "[Literal 2][Prefix -][Literal 3][Binary *]"},
		{"double prefix", "- +1", "[Literal 1][Prefix +][Prefix -]"},
		{"prefix on block", "-(a + b)", "[Literal a][Literal b][Binary +][Block][Prefix -]"},
		{"nested blocks", "((7))", "[Literal 7][Block][Block]"},
		{"ternary branches", "a ? b + 1 : c * 2", "[Literal c][Literal 2][Binary *][Literal b][Literal 1][Binary +][Literal a][Ternary ?]"},
		{"ternary condition is a full sum", "a + 1 ? b : c", "[Literal c][Literal b][Literal a][Literal 1][Binary +][Ternary ?]"},
		{"chained ternary groups left", "a ? b : c ? d : e", "[Literal e][Literal d][Literal c][Literal b][Literal a][Ternary ?][Ternary ?]"},
		{"ternary inside parentheses", "x * (a ? b : c)", "[Literal x][Literal c][Literal b][Literal a][Ternary ?][Block][Binary *]"},
		{"decimal and underscores", "1_000 + 2.5", "[Literal 1_000][Literal 2.5][Binary +]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flat(t, tt.input)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"semicolon separated", "1; 2", []string{"[Literal 1]", "[Literal 2]"}},
		{"trailing semicolon", "1;", []string{"[Literal 1]"}},
		{"newline separated", "let a = 1\nlet b = a\na + b", []string{
			"[Literal 1][Literal a]",
			"[Literal a][Literal b]",
			"[Literal a][Literal b][Binary +]",
		}},
		{"operator on next line continues", "1\n- 2", []string{"[Literal 1][Literal 2][Binary -]"}},
		{"operator at end of line continues", "1 +\n2", []string{"[Literal 1][Literal 2][Binary +]"}},
		{"comments are transparent", "1 /* plus */ + // two\n 2", []string{"[Literal 1][Literal 2][Binary +]"}},
		{"blank lines and comments only", "\n// nothing\n\n", nil},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, flat(t, tt.input)); diff != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVariableStatements(t *testing.T) {
	tree, err := ParseString("let x = 1\nconst y = -x")
	require.NoError(t, err)
	require.Len(t, tree.Statements, 2)

	let := tree.Statements[0]
	assert.Equal(t, ast.StmtVariable, let.Kind)
	assert.False(t, let.IsConst())

	c := tree.Statements[1]
	assert.True(t, c.IsConst())
	assert.Equal(t, "[Literal x][Prefix -][Literal y]", c.Expr.String())

	start, end := c.Symbol()
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)
	start, end = c.Value()
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		offset   int
		got      token.Kind
		message  string
		expected []token.Kind
	}{
		{"missing close paren", "(1 + 2", 6, token.EOF, "missing ')'", []token.Kind{token.RPAREN}},
		{"missing equals", "let x 1", 6, token.NUMBER, "missing '='", []token.Kind{token.EQUALS}},
		{"missing colon", "a ? b", 5, token.EOF, "missing ':'", []token.Kind{token.COLON}},
		{"binary without right operand", "1 +", 2, token.EOF, "missing operand after binary '+'", nil},
		{"stray colon", "1 : 2", 2, token.COLON, "unexpected ':'", nil},
		{"string value", `let s = "hi"`, 8, token.STRING, "unexpected string", nil},
		{"close paren first", ")", 0, token.RPAREN, "unexpected ')'", nil},
		{"two values on one line", "1 2", 2, token.NUMBER, "unexpected number after statement", []token.Kind{token.SEMICOLON, token.NEWLINE}},
		{"keyword without symbol", "let = 1", 4, token.EQUALS, "unexpected '='", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.input)

			assert.Equal(t, tt.offset, err.Offset)
			assert.Equal(t, tt.got, err.Got)
			assert.Equal(t, tt.message, err.Message)
			if tt.expected != nil {
				assert.Equal(t, tt.expected, err.Expected)
			}
			assert.Contains(t, err.Error(), "^", "snippet with caret")
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := parseErr(t, "let total = (1 +\n  2")

	want := strings.Join([]string{
		"parse error at 2:4: missing ')' in parenthesized expression (expected ')', got end of file)",
		"  --> 2:4",
		"  |",
		"2 |   2",
		"  |    ^",
		"help: Add ')' to close the parenthesized expression",
	}, "\n")
	assert.Equal(t, want, err.Error())
}

func TestKeywordSuggestions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"lett x = 1", "Did you mean 'let'?"},
		{"cosnt y = 2", "Did you mean 'const'?"},
		{"cnst y = 2", "Did you mean 'const'?"},
		{"total x", "Separate statements with ';' or a line break"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := parseErr(t, tt.input)
			assert.Equal(t, tt.want, err.Suggestion)
		})
	}
}

func TestSuggestKeyword(t *testing.T) {
	keywords := []string{"const", "let"}

	assert.Equal(t, "let", suggestKeyword("le", keywords))
	assert.Equal(t, "let", suggestKeyword("LET", keywords))
	assert.Equal(t, "const", suggestKeyword("cnst", keywords))
	assert.Equal(t, "const", suggestKeyword("konst", keywords))
	assert.Equal(t, "", suggestKeyword("x", keywords))
	assert.Equal(t, "", suggestKeyword("value", keywords))
	assert.Equal(t, "", suggestKeyword("let", nil))
}

func TestMaxDepth(t *testing.T) {
	nested := strings.Repeat("(", 10) + "1" + strings.Repeat(")", 10)

	err := parseErr(t, nested, WithMaxDepth(5))
	assert.Equal(t, "expression nested too deeply", err.Message)

	tree, perr := ParseString(nested, WithTelemetryBasic())
	require.NoError(t, perr)
	assert.Equal(t, 11, tree.Telemetry.MaxDepth)

	deep := strings.Repeat("-", DefaultMaxDepth+10) + "1"
	_, deepErr := ParseString(deep)
	require.Error(t, deepErr)
}

func TestTelemetry(t *testing.T) {
	tree, err := ParseString("let x = 1\n2 + 3", WithTelemetryTiming())
	require.NoError(t, err)
	require.NotNil(t, tree.Telemetry)

	assert.Equal(t, 9, tree.Telemetry.TokenCount)
	assert.Equal(t, 2, tree.Telemetry.StatementCount)
	assert.Equal(t, 5, tree.Telemetry.NodeCount)
	assert.Equal(t, tree.NodeCount(), tree.Telemetry.NodeCount)

	tree, err = ParseString("1")
	require.NoError(t, err)
	assert.Nil(t, tree.Telemetry)
}

func TestParseTokens(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.NUMBER, Offset: 0, Text: "4"},
		{Kind: token.COMMENT, Offset: 2, Text: "/**/"},
		{Kind: token.MULTIPLY, Offset: 7, Text: "*"},
		{Kind: token.NEWLINE, Offset: 8},
		{Kind: token.IDENTIFIER, Offset: 9, Text: "k"},
	}

	tree, err := ParseTokens([]byte("4 /**/ *\nk"), tokens)
	require.NoError(t, err)
	require.Len(t, tree.Statements, 1)
	assert.Equal(t, "[Literal 4][Literal k][Binary *]", tree.Statements[0].Expr.String())
	assert.Equal(t, token.EOF, tree.Tokens[len(tree.Tokens)-1].Kind, "EOF appended")
	assert.Len(t, tokens, 5, "caller slice untouched")
}

func TestLexErrorPropagates(t *testing.T) {
	_, err := ParseString("1 # 2")
	require.Error(t, err)

	var lexErr *lexer.LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, 2, lexErr.Offset)
}

func TestCustomPatterns(t *testing.T) {
	patterns := lexer.NewPatterns(
		[]lexer.Pattern{
			lexer.MustCompile("whitespace", `[ ]+`, token.ILLEGAL, lexer.Skip),
			lexer.MustCompile("number", `[0-9]+`, token.NUMBER, lexer.Emit),
			lexer.MustCompile("word", `[a-z]+`, token.IDENTIFIER, lexer.Emit),
		},
		map[string]token.Kind{"var": token.LET},
		map[byte]token.Kind{'=': token.EQUALS, '+': token.PLUS},
	)

	got := flat(t, "var n = 1 + 2", WithPatterns(patterns))
	assert.Equal(t, []string{"[Literal 1][Literal 2][Binary +][Literal n]"}, got)

	err := parseErr(t, "vra n = 1", WithPatterns(patterns))
	assert.Equal(t, "Did you mean 'var'?", err.Suggestion)
}

// corpus is shared by the property tests below.
var corpus = []string{
	"2 + 3 * 4",
	"-5",
	"1 ? 2 : 3",
	"let x = 1 + 2",
	"(1 + 2) * 3",
	"a ? b ? c : d : e",
	"a ? (b ? c : d) : e",
	"let total = -(price * qty) + tax % 7\nconst k = total ? 1 : -1",
	"x * y - z / w + -v",
	"((((1))))",
	"a ? b : c ? d : e ? f : g",
	"1 - -2 - +3",
}

func TestArityRoundTrip(t *testing.T) {
	for _, input := range corpus {
		tree, err := ParseString(input)
		if err != nil {
			// a ? b ? c : d : e needs parentheses around the inner conditional
			continue
		}

		for _, stmt := range tree.Statements {
			require.NoError(t, stmt.Check(), "input: %q", input)

			visited := 0
			for range stmt.Walk() {
				visited++
			}
			assert.Equal(t, stmt.Expr.Len(), visited, "input: %q", input)
		}
	}
}

func TestPostfixOrdering(t *testing.T) {
	for _, input := range corpus {
		tree, err := ParseString(input)
		if err != nil {
			continue
		}

		for _, stmt := range tree.Statements {
			e := stmt.Expr
			for i, node := range e.All() {
				if node.Kind != ast.NodeBinary {
					continue
				}
				children := e.Children(i)
				require.Len(t, children, 2)
				assert.Equal(t, i-1, children[0], "right operand root precedes %s in %q", node, input)
				assert.Equal(t, e.SubtreeStart(i-1)-1, children[1], "left operand root precedes right subtree in %q", input)
			}
		}
	}
}

func TestParenthesesOnlyAddBlock(t *testing.T) {
	tests := []struct{ bare, wrapped string }{
		{"1", "(1)"},
		{"a + b", "(a + b)"},
		{"-x", "(-x)"},
	}

	for _, tt := range tests {
		bare := flat(t, tt.bare)
		wrapped := flat(t, tt.wrapped)
		require.Len(t, wrapped, 1)
		assert.True(t, strings.HasSuffix(wrapped[0], "[Block]"))
		assert.Equal(t, bare[0], strings.TrimSuffix(wrapped[0], "[Block]"))
	}
}

func TestNestedTernaryInMiddleNeedsParentheses(t *testing.T) {
	err := parseErr(t, "a ? b ? c : d : e")
	assert.Equal(t, "missing ':'", err.Message)
	assert.Equal(t, token.QUESTION, err.Got)

	got := flat(t, "a ? (b ? c : d) : e")
	assert.Equal(t, []string{"[Literal e][Literal d][Literal c][Literal b][Ternary ?][Block][Literal a][Ternary ?]"}, got)
}
