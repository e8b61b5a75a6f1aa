package token

import (
	"fmt"
	"strings"
)

// Snippet renders the source line holding pos with a caret under the column:
//
//	  --> 3:7
//	   |
//	 3 | let x = + 2
//	   |         ^
//
// It returns "" when pos does not address a line of src.
func Snippet(src []byte, pos Position) string {
	if len(src) == 0 || pos.Line == 0 {
		return ""
	}

	line := LineAt(src, pos.Line)
	if pos.Column > len(line)+1 {
		return ""
	}

	gutter := len(fmt.Sprint(pos.Line))
	pad := strings.Repeat(" ", gutter)

	var b strings.Builder
	fmt.Fprintf(&b, "%s --> %d:%d\n", pad, pos.Line, pos.Column)
	fmt.Fprintf(&b, "%s |\n", pad)
	fmt.Fprintf(&b, "%d | %s\n", pos.Line, line)
	fmt.Fprintf(&b, "%s | %s^", pad, strings.Repeat(" ", pos.Column-1))
	return b.String()
}
