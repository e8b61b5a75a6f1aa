// Package token defines the lexical vocabulary shared by the lexer, the parser
// and every consumer of parsed expressions.
package token

import (
	"bytes"
	"fmt"
	"strings"
)

// Kind represents lexical token kinds
type Kind uint8

const (
	// Special tokens
	EOF Kind = iota
	ILLEGAL

	// Separators
	NEWLINE   // one or more line breaks (shy semicolon)
	SEMICOLON // ;
	COMMENT   // // line or /* block */

	// Literals
	NUMBER     // 42, 1_000, 3.14
	STRING     // "text"
	IDENTIFIER // x, total_count

	// Keywords
	LET   // let
	CONST // const

	// Punctuation
	LPAREN   // (
	RPAREN   // )
	COLON    // :
	QUESTION // ?
	EQUALS   // =

	// Arithmetic operators
	PLUS     // +
	MINUS    // -
	MULTIPLY // *
	DIVIDE   // /
	MODULO   // %
)

var kindNames = [...]string{
	EOF:        "EOF",
	ILLEGAL:    "ILLEGAL",
	NEWLINE:    "NEWLINE",
	SEMICOLON:  "SEMICOLON",
	COMMENT:    "COMMENT",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	IDENTIFIER: "IDENTIFIER",
	LET:        "LET",
	CONST:      "CONST",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	COLON:      "COLON",
	QUESTION:   "QUESTION",
	EQUALS:     "EQUALS",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	MULTIPLY:   "MULTIPLY",
	DIVIDE:     "DIVIDE",
	MODULO:     "MODULO",
}

// String returns the upper-case name of the kind
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Describe returns a human-readable name for error messages: "'+'", "number", "end of file"
func (k Kind) Describe() string {
	switch k {
	case EOF:
		return "end of file"
	case NEWLINE:
		return "newline"
	case NUMBER:
		return "number"
	case STRING:
		return "string"
	case IDENTIFIER:
		return "identifier"
	case COMMENT:
		return "comment"
	case ILLEGAL:
		return "illegal token"
	}
	if s := k.Symbol(); s != "" {
		return "'" + s + "'"
	}
	return strings.ToLower(k.String())
}

// Symbol returns the fixed source text of punctuation, operator and keyword kinds.
// Kinds with variable text return "".
func (k Kind) Symbol() string {
	switch k {
	case SEMICOLON:
		return ";"
	case LET:
		return "let"
	case CONST:
		return "const"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case COLON:
		return ":"
	case QUESTION:
		return "?"
	case EQUALS:
		return "="
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case MULTIPLY:
		return "*"
	case DIVIDE:
		return "/"
	case MODULO:
		return "%"
	}
	return ""
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// IsTrivia reports whether the parser skips the kind when peeking.
func (k Kind) IsTrivia() bool {
	return k == COMMENT || k == NEWLINE
}

// Token is an immutable lexeme. Offset is the byte offset of the first byte of
// Text in the source; it is only used for diagnostics.
type Token struct {
	Kind   Kind
	Offset uint32
	Text   string
}

// String returns the token text, or the kind name for tokens without text.
func (t Token) String() string {
	if t.Text != "" {
		return t.Text
	}
	return t.Kind.String()
}

// Position represents a position in the source code
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number (bytes)
	Offset int // 0-based byte offset
}

// String returns "line:column"
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// PositionFor converts a byte offset in src into a line/column position.
// Offsets past the end of src are clamped to len(src).
func PositionFor(src []byte, offset int) Position {
	offset = max(0, min(offset, len(src)))

	pos := Position{Line: 1, Column: 1, Offset: offset}
	for _, ch := range src[:offset] {
		if ch == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// LineAt returns the text of the 1-based line, without its line terminator.
func LineAt(src []byte, line int) string {
	if line < 1 {
		return ""
	}
	for n := 1; ; n++ {
		end := bytes.IndexByte(src, '\n')
		if n == line {
			if end >= 0 {
				src = src[:end]
			}
			return string(bytes.TrimSuffix(src, []byte("\r")))
		}
		if end < 0 {
			return ""
		}
		src = src[end+1:]
	}
}
