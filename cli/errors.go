package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opal-lang/crux/core/token"
	"github.com/opal-lang/crux/runtime/lexer"
	"github.com/opal-lang/crux/runtime/parser"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "config", "input", "dump"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
	Err     error  // Underlying cause, if any
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var parseErr *parser.ParseError
	var lexErr *lexer.LexError
	var cliErr *CLIError

	switch {
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	case errors.As(err, &parseErr):
		formatParseError(w, parseErr, useColor)
	case errors.As(err, &lexErr):
		formatLexError(w, lexErr, useColor)
	default:
		// Generic error
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatParseError formats parser errors with the source snippet and suggestions
func formatParseError(w io.Writer, err *parser.ParseError, useColor bool) {
	header := err.Message
	if err.Context != "" {
		header += " in " + err.Context
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), header)

	formatSnippet(w, err.Source, err.Position, useColor)

	if len(err.Expected) > 0 {
		_, _ = fmt.Fprintf(w, "%s%s, got %s\n",
			Colorize("  Expected: ", ColorGray, useColor), parser.ExpectedList(err.Expected), err.Got.Describe())
	}

	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Suggestion)
	}

	if err.Example != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("  Example: ", ColorGray, useColor), err.Example)
	}
}

// formatLexError formats scanner errors
func formatLexError(w io.Writer, err *lexer.LexError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)
	formatSnippet(w, err.Source, err.Position, useColor)
}

// formatSnippet writes the caret snippet, dimming the gutter lines
func formatSnippet(w io.Writer, src []byte, pos token.Position, useColor bool) {
	snippet := token.Snippet(src, pos)
	if snippet == "" {
		return
	}
	for _, line := range strings.Split(snippet, "\n") {
		if strings.HasSuffix(line, "^") {
			_, _ = fmt.Fprintln(w, Colorize(line, ColorRed, useColor))
			continue
		}
		_, _ = fmt.Fprintln(w, Colorize(line, ColorGray, useColor))
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
