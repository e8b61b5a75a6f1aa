package lexer

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/opal-lang/crux/core/token"
)

// Action tells the lexer what to do with a pattern match
type Action uint8

const (
	Emit    Action = iota // emit a token of the pattern's kind
	Skip                  // drop the match (horizontal whitespace)
	Newline               // emit one NEWLINE unless the previous token was one
)

// Pattern is one entry of a Patterns table. Regexp must be anchored at the
// start of input with \A; Compile does that for you.
type Pattern struct {
	Name   string
	Regexp *regexp.Regexp
	Kind   token.Kind
	Action Action
}

// Patterns is an ordered pattern table plus keyword and single-byte token
// lookups. The first pattern that matches at the current offset wins; single
// bytes are only tried after every pattern failed.
//
// A Patterns value is immutable after construction and can be shared by any
// number of lexers.
type Patterns struct {
	list       []Pattern
	keywords   map[string]token.Kind
	singleChar [128]token.Kind
}

// Compile anchors expr and builds a Pattern from it.
func Compile(name, expr string, kind token.Kind, action Action) (Pattern, error) {
	re, err := regexp.Compile(`\A(?:` + expr + `)`)
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern %s: %w", name, err)
	}
	return Pattern{Name: name, Regexp: re, Kind: kind, Action: action}, nil
}

// MustCompile is Compile for patterns known at init time.
func MustCompile(name, expr string, kind token.Kind, action Action) Pattern {
	p, err := Compile(name, expr, kind, action)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPatterns builds a table from ordered patterns. IDENTIFIER matches are
// looked up in keywords before being emitted. singles maps single ASCII bytes
// to token kinds.
func NewPatterns(list []Pattern, keywords map[string]token.Kind, singles map[byte]token.Kind) *Patterns {
	p := &Patterns{
		list:     append([]Pattern(nil), list...),
		keywords: make(map[string]token.Kind, len(keywords)),
	}
	for word, kind := range keywords {
		p.keywords[word] = kind
	}
	for i := range p.singleChar {
		p.singleChar[i] = token.ILLEGAL
	}
	for ch, kind := range singles {
		if ch < 128 {
			p.singleChar[ch] = kind
		}
	}
	return p
}

// DefaultPatterns returns the table for the crux language.
func DefaultPatterns() *Patterns {
	return NewPatterns(
		[]Pattern{
			MustCompile("whitespace", `[ \t\f\v]+`, token.ILLEGAL, Skip),
			MustCompile("eol", `[\r\n]+`, token.NEWLINE, Newline),
			MustCompile("line comment", `//[^\r\n]*`, token.COMMENT, Emit),
			MustCompile("block comment", `/\*(?s:.*?)\*/`, token.COMMENT, Emit),
			MustCompile("string", `"[^"]*"`, token.STRING, Emit),
			MustCompile("number", `[0-9][0-9_]*(?:\.[0-9]*)?`, token.NUMBER, Emit),
			MustCompile("identifier", `[a-zA-Z_][a-zA-Z0-9_]*`, token.IDENTIFIER, Emit),
		},
		map[string]token.Kind{
			"let":   token.LET,
			"const": token.CONST,
		},
		map[byte]token.Kind{
			'(': token.LPAREN,
			')': token.RPAREN,
			'+': token.PLUS,
			'-': token.MINUS,
			'*': token.MULTIPLY,
			'/': token.DIVIDE,
			'%': token.MODULO,
			';': token.SEMICOLON,
			':': token.COLON,
			'?': token.QUESTION,
			'=': token.EQUALS,
		},
	)
}

// Keywords returns the reserved words of the table in sorted order.
func (p *Patterns) Keywords() []string {
	return slices.Sorted(maps.Keys(p.keywords))
}

// lookupKeyword returns the keyword kind for text, or IDENTIFIER
func (p *Patterns) lookupKeyword(text string) token.Kind {
	if kind, ok := p.keywords[text]; ok {
		return kind
	}
	return token.IDENTIFIER
}

// match returns the first pattern matching at the start of input and the
// length of the match.
func (p *Patterns) match(input []byte) (Pattern, int, bool) {
	for _, pat := range p.list {
		if loc := pat.Regexp.FindIndex(input); loc != nil && loc[1] > 0 {
			return pat, loc[1], true
		}
	}
	return Pattern{}, 0, false
}

// single returns the kind of a one-byte token, or ILLEGAL.
func (p *Patterns) single(ch byte) token.Kind {
	if ch >= 128 {
		return token.ILLEGAL
	}
	return p.singleChar[ch]
}
