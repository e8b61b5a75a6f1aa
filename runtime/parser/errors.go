package parser

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"

	"github.com/opal-lang/crux/core/token"
)

// ParseError represents a parse error with rich context for user-friendly
// messages. Parsing stops at the first one.
type ParseError struct {
	// Location
	Offset   int            // Byte offset of the offending token
	Position token.Position // Line, column, offset

	// Core error info
	Message string // Clear, specific: "missing closing parenthesis"
	Context string // What we were parsing: "parenthesized expression"

	// What went wrong
	Expected []token.Kind // What tokens would be valid
	Got      token.Kind   // What we found instead
	Text     string       // Source text of the offending token

	// How to fix it
	Suggestion string // Actionable fix: "Add ')' to close the parenthesized expression"
	Example    string // Valid syntax: "(1 + 2) * 3"

	Source []byte // Source the positions refer to, for the snippet
}

// Error returns the formatted message with location and code snippet
func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error at %s: %s", e.Position, e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, " in %s", e.Context)
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected %s, got %s)", ExpectedList(e.Expected), e.Got.Describe())
	}
	if snippet := token.Snippet(e.Source, e.Position); snippet != "" {
		b.WriteString("\n")
		b.WriteString(snippet)
	}
	if e.Suggestion != "" {
		b.WriteString("\nhelp: ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

// ExpectedList renders kinds as "')'", "';' or newline", "'(', number or identifier".
func ExpectedList(kinds []token.Kind) string {
	names := gfn.Map(kinds, func(k token.Kind) string { return k.Describe() })
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// errorAt builds a ParseError located at tok.
func (p *parser) errorAt(tok token.Token, message, context string) *ParseError {
	return &ParseError{
		Offset:   int(tok.Offset),
		Position: token.PositionFor(p.source, int(tok.Offset)),
		Message:  message,
		Context:  context,
		Got:      tok.Kind,
		Text:     tok.Text,
		Source:   p.source,
	}
}

// errorExpected reports a missing token kind at the current token.
func (p *parser) errorExpected(expected token.Kind, context string) *ParseError {
	got := p.peek()
	err := p.errorAt(got, "missing "+expected.Describe(), context)
	err.Expected = []token.Kind{expected}

	switch expected {
	case token.RPAREN:
		err.Suggestion = "Add ')' to close the " + context
		err.Example = "(1 + 2) * 3"
	case token.COLON:
		err.Suggestion = "Add ':' followed by the value used when the condition is zero"
		err.Example = "x ? 1 : 2"
	case token.EQUALS:
		err.Suggestion = "Add '=' and a value after the variable name"
		err.Example = "let x = 1"
	}
	return err
}

// errorUnexpected reports a token that cannot appear at this point.
func (p *parser) errorUnexpected(tok token.Token, context string) *ParseError {
	err := p.errorAt(tok, "unexpected "+tok.Kind.Describe(), context)
	err.Expected = []token.Kind{token.NUMBER, token.IDENTIFIER, token.LPAREN, token.PLUS, token.MINUS}

	switch tok.Kind {
	case token.STRING:
		err.Note("strings are lexed but cannot be used as values yet")
	case token.COLON:
		err.Expected = nil
		err.Suggestion = "':' is only valid after the '?' branch of a conditional"
		err.Example = "x ? 1 : 2"
	}
	return err
}

// Note appends an explanatory sentence to the suggestion.
func (e *ParseError) Note(text string) {
	if e.Suggestion == "" {
		e.Suggestion = text
		return
	}
	e.Suggestion += "; " + text
}
