// Package lexer turns crux source into a token slice terminated by one EOF.
//
// Matching is table driven: a Patterns value built once by the caller (see
// DefaultPatterns) is tried in order at every offset, then single-byte
// punctuation is looked up. Line breaks become NEWLINE tokens, collapsed so
// that at most one appears between two other tokens and none before the first.
package lexer

import (
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/opal-lang/crux/core/token"
)

// LexerOpt represents a lexer configuration option
type LexerOpt func(*LexerConfig)

// TelemetryMode controls telemetry collection
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Token counts only
	TelemetryTiming                      // Token counts + time per kind
)

// LexerConfig holds lexer configuration
type LexerConfig struct {
	telemetry TelemetryMode
	logger    *slog.Logger
}

// WithTelemetryBasic enables basic telemetry (token counts only)
func WithTelemetryBasic() LexerOpt {
	return func(c *LexerConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + timing per kind)
func WithTelemetryTiming() LexerOpt {
	return func(c *LexerConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithLogger sends one Debug record per emitted token to logger.
func WithLogger(logger *slog.Logger) LexerOpt {
	return func(c *LexerConfig) {
		c.logger = logger
	}
}

// TokenTelemetry holds per-kind counters
type TokenTelemetry struct {
	Kind      token.Kind
	Count     int
	TotalTime time.Duration
}

// Lexer scans one source at a time. It is not safe for concurrent use, but
// the Patterns it reads can be shared.
type Lexer struct {
	patterns *Patterns
	input    []byte
	position int

	// Track if the last emitted token was NEWLINE (to skip consecutive ones).
	// Starts true so that leading line breaks are dropped.
	lastWasNewline bool

	logger *slog.Logger

	telemetryMode  TelemetryMode
	tokenTelemetry map[token.Kind]*TokenTelemetry
}

// New creates a lexer over patterns. A nil table means DefaultPatterns().
func New(patterns *Patterns, opts ...LexerOpt) *Lexer {
	config := &LexerConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	if config.logger == nil {
		config.logger = slog.New(slog.DiscardHandler)
	}

	l := &Lexer{
		patterns:      patterns,
		logger:        config.logger,
		telemetryMode: config.telemetry,
	}
	if config.telemetry > TelemetryOff {
		l.tokenTelemetry = make(map[token.Kind]*TokenTelemetry)
	}
	return l
}

// Tokenize is a convenience wrapper using the default patterns.
func Tokenize(src []byte, opts ...LexerOpt) ([]token.Token, error) {
	return New(nil, opts...).Tokenize(src)
}

// Tokenize scans src completely. On success the last token is EOF. The first
// position no pattern matches aborts the scan with a *LexError.
func (l *Lexer) Tokenize(src []byte) ([]token.Token, error) {
	l.init(src)

	// Heuristic: roughly one token per four bytes of source
	tokens := make([]token.Token, 0, len(src)/4+1)
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// Telemetry returns a copy of the per-kind counters, or nil when disabled.
func (l *Lexer) Telemetry() map[token.Kind]*TokenTelemetry {
	if l.telemetryMode == TelemetryOff {
		return nil
	}

	result := make(map[token.Kind]*TokenTelemetry, len(l.tokenTelemetry))
	for k, v := range l.tokenTelemetry {
		telemetryCopy := *v
		result[k] = &telemetryCopy
	}
	return result
}

func (l *Lexer) init(src []byte) {
	l.input = src
	l.position = 0
	l.lastWasNewline = true
	clear(l.tokenTelemetry)
}

// next returns the next significant token, recording telemetry and logging it.
func (l *Lexer) next() (token.Token, error) {
	var start time.Time
	if l.telemetryMode >= TelemetryTiming {
		start = time.Now()
	}

	tok, err := l.lexToken()
	if err != nil {
		return tok, err
	}

	if l.telemetryMode > TelemetryOff {
		var elapsed time.Duration
		if l.telemetryMode >= TelemetryTiming {
			elapsed = time.Since(start)
		}
		l.recordTokenTelemetry(tok.Kind, elapsed)
	}

	l.logger.Debug("token", "kind", tok.Kind, "offset", tok.Offset, "text", tok.Text)
	return tok, nil
}

func (l *Lexer) recordTokenTelemetry(kind token.Kind, elapsed time.Duration) {
	telemetry, exists := l.tokenTelemetry[kind]
	if !exists {
		telemetry = &TokenTelemetry{Kind: kind}
		l.tokenTelemetry[kind] = telemetry
	}
	telemetry.Count++
	telemetry.TotalTime += elapsed
}

// lexToken performs the actual tokenization work
func (l *Lexer) lexToken() (token.Token, error) {
	for l.position < len(l.input) {
		offset := l.position
		rest := l.input[offset:]

		if pat, n, ok := l.patterns.match(rest); ok {
			l.position += n

			switch pat.Action {
			case Skip:
				continue
			case Newline:
				if l.lastWasNewline {
					continue
				}
				l.lastWasNewline = true
				return l.emit(token.NEWLINE, offset, ""), nil
			}

			kind := pat.Kind
			text := string(rest[:n])
			if kind == token.IDENTIFIER {
				kind = l.patterns.lookupKeyword(text)
			}
			l.lastWasNewline = false
			return l.emit(kind, offset, text), nil
		}

		if kind := l.patterns.single(rest[0]); kind != token.ILLEGAL && !unterminatedComment(rest) {
			l.position++
			l.lastWasNewline = false
			return l.emit(kind, offset, string(rest[:1])), nil
		}

		return token.Token{}, l.errorAt(offset)
	}

	return l.emit(token.EOF, len(l.input), ""), nil
}

func (l *Lexer) emit(kind token.Kind, offset int, text string) token.Token {
	return token.Token{Kind: kind, Offset: uint32(offset), Text: text}
}

// errorAt builds the error for an offset no pattern matches.
func (l *Lexer) errorAt(offset int) *LexError {
	ch, _ := utf8.DecodeRune(l.input[offset:])

	message := "unexpected character " + strconv.QuoteRune(ch)
	switch {
	case ch == '"':
		message = "unterminated string literal"
	case unterminatedComment(l.input[offset:]):
		message = "unterminated block comment"
	}

	return &LexError{
		Offset:   offset,
		Position: token.PositionFor(l.input, offset),
		Char:     ch,
		Message:  message,
		Source:   l.input,
	}
}

// unterminatedComment reports whether input opens a block comment that no
// pattern matched.
func unterminatedComment(input []byte) bool {
	return len(input) > 1 && input[0] == '/' && input[1] == '*'
}
