// Package parser builds postfix-encoded statements from crux tokens with a
// precedence-climbing algorithm.
//
// Parsing is fail-fast: the first error aborts the run and no partial
// statements are returned.
package parser

import (
	"log/slog"
	"time"

	"github.com/opal-lang/crux/core/ast"
	"github.com/opal-lang/crux/core/token"
	"github.com/opal-lang/crux/runtime/lexer"
)

// Parse lexes and parses source.
func Parse(source []byte, opts ...ParserOpt) (*ParseTree, error) {
	config := newConfig(opts)

	var telemetry *ParseTelemetry
	var startTotal time.Time
	if config.telemetry >= TelemetryBasic {
		telemetry = &ParseTelemetry{}
		if config.telemetry >= TelemetryTiming {
			startTotal = time.Now()
		}
	}

	// Lex the input first
	var startLex time.Time
	if config.telemetry >= TelemetryTiming {
		startLex = time.Now()
	}

	lex := lexer.New(config.patterns, lexer.WithLogger(config.logger))
	tokens, err := lex.Tokenize(source)
	if err != nil {
		return nil, err
	}

	if config.telemetry >= TelemetryTiming {
		telemetry.LexTime = time.Since(startLex)
	}

	tree, err := parseTokens(source, tokens, config, telemetry)
	if err != nil {
		return nil, err
	}

	if config.telemetry >= TelemetryTiming {
		telemetry.TotalTime = time.Since(startTotal)
	}
	return tree, nil
}

// ParseString is a convenience wrapper for tests
func ParseString(input string, opts ...ParserOpt) (*ParseTree, error) {
	return Parse([]byte(input), opts...)
}

// ParseTokens parses pre-lexed tokens. tokens must end with EOF; source is
// only used for diagnostics.
func ParseTokens(source []byte, tokens []token.Token, opts ...ParserOpt) (*ParseTree, error) {
	config := newConfig(opts)

	var telemetry *ParseTelemetry
	if config.telemetry >= TelemetryBasic {
		telemetry = &ParseTelemetry{}
	}
	return parseTokens(source, tokens, config, telemetry)
}

func parseTokens(source []byte, tokens []token.Token, config *ParserConfig, telemetry *ParseTelemetry) (*ParseTree, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		tokens = append(tokens[:len(tokens):len(tokens)], token.Token{Kind: token.EOF, Offset: uint32(len(source))})
	}

	p := &parser{
		source: source,
		tokens: tokens,
		config: config,
		logger: config.logger,
	}

	var startParse time.Time
	if config.telemetry >= TelemetryTiming {
		startParse = time.Now()
	}

	statements, err := p.file()
	if err != nil {
		return nil, err
	}

	tree := &ParseTree{
		Source:     source,
		Tokens:     tokens,
		Statements: statements,
		Telemetry:  telemetry,
	}

	if telemetry != nil {
		telemetry.TokenCount = len(tokens)
		telemetry.StatementCount = len(statements)
		telemetry.NodeCount = tree.NodeCount()
		telemetry.MaxDepth = p.maxDepth
		if config.telemetry >= TelemetryTiming {
			telemetry.ParseTime = time.Since(startParse)
		}
	}
	return tree, nil
}

// parser is the internal parser state
type parser struct {
	source []byte
	tokens []token.Token
	pos    int // index of the next unconsumed token, trivia included
	config *ParserConfig
	logger *slog.Logger

	depth    int // current expression nesting
	maxDepth int // deepest nesting seen
}

// significant returns the index of the first non-trivia token at or after pos.
func (p *parser) significant() int {
	i := p.pos
	for i < len(p.tokens)-1 && p.tokens[i].Kind.IsTrivia() {
		i++
	}
	return i
}

// peek returns the current token, skipping comments and newlines
func (p *parser) peek() token.Token {
	return p.tokens[p.significant()]
}

// at checks if the current token is of the given kind
func (p *parser) at(kind token.Kind) bool {
	return p.peek().Kind == kind
}

// next consumes and returns the current token. EOF is never consumed.
func (p *parser) next() token.Token {
	i := p.significant()
	tok := p.tokens[i]
	if tok.Kind != token.EOF {
		i++
	}
	p.pos = i
	return tok
}

// eat consumes the current token if it has the expected kind
func (p *parser) eat(expected token.Kind, context string) (token.Token, error) {
	if !p.at(expected) {
		return token.Token{}, p.errorExpected(expected, context)
	}
	return p.next(), nil
}

// lineBreakBefore reports whether a NEWLINE lies between the last consumed
// token and the current one.
func (p *parser) lineBreakBefore() bool {
	for i := p.pos; i < p.significant(); i++ {
		if p.tokens[i].Kind == token.NEWLINE {
			return true
		}
	}
	return false
}

// enter tracks expression nesting against the configured limit
func (p *parser) enter() error {
	p.depth++
	p.maxDepth = max(p.maxDepth, p.depth)
	if p.depth > p.config.maxDepth {
		err := p.errorAt(p.peek(), "expression nested too deeply", "expression")
		err.Suggestion = "Split the expression into several variables"
		return err
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// file parses statements until EOF
func (p *parser) file() ([]ast.Statement, error) {
	var statements []ast.Statement

	for !p.at(token.EOF) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	return statements, nil
}
