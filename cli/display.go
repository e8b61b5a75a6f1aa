package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/opal-lang/crux/core/ast"
	"github.com/opal-lang/crux/core/astfmt"
	"github.com/opal-lang/crux/core/astfmt/formatter"
	"github.com/opal-lang/crux/core/token"
	"github.com/opal-lang/crux/runtime/lexer"
	"github.com/opal-lang/crux/runtime/parser"
)

// DisplayStatements renders statements in the selected format
func DisplayStatements(w io.Writer, statements []ast.Statement, format string, useColor bool) error {
	switch format {
	case FormatFlat:
		formatter.FormatFlat(w, statements, useColor)
	case FormatInfix:
		return formatter.FormatInfix(w, statements)
	default:
		formatter.FormatTree(w, statements, useColor)
	}
	return nil
}

// runParse parses src and prints the statements
func runParse(opts *options, src []byte) error {
	tree, err := parser.Parse(src, opts.parserOpts()...)
	if err != nil {
		return err
	}
	defer tree.Release()

	if err := DisplayStatements(opts.stdout, tree.Statements, opts.format, opts.useColor()); err != nil {
		return err
	}
	if tree.Telemetry != nil {
		printTelemetry(opts.stderr, tree.Telemetry)
	}
	return nil
}

// parseFile reads path and runs runParse on it
func parseFile(opts *options, path string) error {
	src, _, err := readInput(opts, []string{path})
	if err != nil {
		return err
	}
	return runParse(opts, src)
}

func printTelemetry(w io.Writer, t *parser.ParseTelemetry) {
	_, _ = fmt.Fprintf(w, "tokens: %d  statements: %d  nodes: %d  max depth: %d\n",
		t.TokenCount, t.StatementCount, t.NodeCount, t.MaxDepth)
	_, _ = fmt.Fprintf(w, "lex: %s  parse: %s  total: %s\n", t.LexTime, t.ParseTime, t.TotalTime)
}

// runTokens prints one token per line: position, kind and quoted text
func runTokens(opts *options, src []byte) error {
	tokens, err := lexer.New(nil, lexer.WithLogger(opts.logger)).Tokenize(src)
	if err != nil {
		return err
	}

	useColor := opts.useColor()
	for _, tok := range tokens {
		pos := token.PositionFor(src, int(tok.Offset))
		line := fmt.Sprintf("%-7s %-10s", pos, tok.Kind)
		if tok.Text != "" {
			line += " " + strconv.Quote(tok.Text)
		}
		if tok.Kind.IsTrivia() {
			line = Colorize(line, ColorGray, useColor)
		}
		_, _ = fmt.Fprintln(opts.stdout, line)
	}
	return nil
}

// runDump prints the digest of the canonical encoding, writing the encoding
// itself when out is set
func runDump(opts *options, src []byte, out string) error {
	tree, err := parser.Parse(src, opts.parserOpts()...)
	if err != nil {
		return err
	}
	defer tree.Release()

	if out == "" {
		digest, err := astfmt.Canonicalize(tree.Statements).Digest()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(opts.stdout, digest)
		return nil
	}

	digestOut := opts.stdout
	var w io.Writer = opts.stdout
	if out == "-" {
		digestOut = opts.stderr
	} else {
		f, err := os.Create(out)
		if err != nil {
			return &CLIError{Type: "dump", Message: fmt.Sprintf("cannot create %s", out), Details: err.Error(), Err: err}
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	hash, err := astfmt.Write(w, tree.Statements)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	_, _ = fmt.Fprintf(digestOut, "blake2b:%x\n", hash)
	return nil
}

// runDecode validates an encoding and prints its digest and tree
func runDecode(opts *options, data []byte, name string) error {
	statements, hash, err := astfmt.Read(bytes.NewReader(data))
	if err != nil {
		return &CLIError{
			Type:    "dump",
			Message: fmt.Sprintf("%s is not a valid crux encoding", name),
			Details: err.Error(),
			Err:     err,
		}
	}

	_, _ = fmt.Fprintf(opts.stdout, "blake2b:%x\n", hash)
	return DisplayStatements(opts.stdout, statements, opts.format, opts.useColor())
}
