package lexer

import (
	"fmt"

	"github.com/opal-lang/crux/core/token"
)

// LexError reports a source offset where no pattern matches. Lexing stops at
// the first one.
type LexError struct {
	Offset   int
	Position token.Position
	Char     rune
	Message  string
	Source   []byte
}

func (e *LexError) Error() string {
	msg := fmt.Sprintf("lex error at %s: %s", e.Position, e.Message)
	if snippet := token.Snippet(e.Source, e.Position); snippet != "" {
		msg += "\n" + snippet
	}
	return msg
}
