package parser

import (
	"log/slog"
	"time"

	"github.com/opal-lang/crux/runtime/lexer"
)

// DefaultMaxDepth bounds expression nesting unless WithMaxDepth says otherwise.
const DefaultMaxDepth = 512

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Counts only
	TelemetryTiming                      // Counts + timing per phase
)

// ParserConfig holds parser configuration
type ParserConfig struct {
	telemetry TelemetryMode
	logger    *slog.Logger
	maxDepth  int
	patterns  *lexer.Patterns
}

// WithTelemetryBasic enables basic telemetry (counts only)
func WithTelemetryBasic() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + timing per phase)
func WithTelemetryTiming() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithLogger routes debug records of the lexer and parser to logger.
func WithLogger(logger *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		c.logger = logger
	}
}

// WithMaxDepth limits how deeply expressions may nest. Values below 1 are ignored.
func WithMaxDepth(depth int) ParserOpt {
	return func(c *ParserConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithPatterns lexes with a caller-built pattern table instead of the default one.
func WithPatterns(patterns *lexer.Patterns) ParserOpt {
	return func(c *ParserConfig) {
		c.patterns = patterns
	}
}

func newConfig(opts []ParserOpt) *ParserConfig {
	config := &ParserConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = slog.New(slog.DiscardHandler)
	}
	return config
}

// ParseTelemetry holds parser performance metrics (production-safe)
type ParseTelemetry struct {
	LexTime        time.Duration // Time spent lexing
	ParseTime      time.Duration // Time spent parsing
	TotalTime      time.Duration // Total parse time
	TokenCount     int           // Number of tokens, EOF included
	StatementCount int           // Number of statements
	NodeCount      int           // Number of expression nodes over all statements
	MaxDepth       int           // Deepest expression nesting reached
}
