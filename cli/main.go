package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opal-lang/crux/runtime/parser"
)

// Output formats of the parse command
const (
	FormatTree  = "tree"
	FormatFlat  = "flat"
	FormatInfix = "infix"
)

// options holds the resolved flag and config values for one invocation
type options struct {
	configPath string
	format     string
	noColor    bool
	forceColor bool
	debug      bool
	maxDepth   int
	telemetry  bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func main() {
	opts := &options{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}

	if err := newRootCmd(opts).Execute(); err != nil {
		FormatError(os.Stderr, err, opts.useColor())
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "crux",
		Short:         "Parse crux expressions into flat postfix statements",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}
	rootCmd.SetIn(opts.stdin)
	rootCmd.SetOut(opts.stdout)
	rootCmd.SetErr(opts.stderr)

	// Add flags
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", DefaultConfigFile, "Path to project configuration")
	flags.StringVar(&opts.format, "format", FormatTree, "Output format: tree, flat or infix")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&opts.debug, "debug", false, "Log lexer and parser decisions to stderr")
	flags.IntVar(&opts.maxDepth, "max-depth", parser.DefaultMaxDepth, "Maximum expression nesting")
	flags.BoolVar(&opts.telemetry, "telemetry", false, "Print token, node and timing counts to stderr")

	rootCmd.AddCommand(newParseCmd(opts), newTokensCmd(opts), newDumpCmd(opts))
	return rootCmd
}

// setup layers crux.json under the flags the user set explicitly
func (o *options) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	cfg, err := LoadConfig(o.configPath, flags.Changed("config"))
	if err != nil {
		return err
	}

	if cfg.Format != "" && !flags.Changed("format") {
		o.format = cfg.Format
	}
	if cfg.MaxDepth > 0 && !flags.Changed("max-depth") {
		o.maxDepth = cfg.MaxDepth
	}
	if cfg.Telemetry && !flags.Changed("telemetry") {
		o.telemetry = true
	}
	if cfg.Color != nil && !flags.Changed("no-color") {
		o.noColor = !*cfg.Color
		o.forceColor = *cfg.Color
	}

	switch o.format {
	case FormatTree, FormatFlat, FormatInfix:
	default:
		return &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("unknown format %q", o.format),
			Hint:    "Use one of: tree, flat, infix",
		}
	}
	if o.maxDepth < 1 {
		return &CLIError{Type: "config", Message: fmt.Sprintf("--max-depth must be positive, got %d", o.maxDepth)}
	}

	o.logger = newLogger(o.stderr, o.debug || os.Getenv("CRUX_DEBUG") != "")
	return nil
}

// useColor resolves --no-color, crux.json and NO_COLOR
func (o *options) useColor() bool {
	if o.noColor {
		return false
	}
	if o.forceColor && os.Getenv("NO_COLOR") == "" {
		return true
	}
	return ShouldUseColor(false)
}

func (o *options) parserOpts() []parser.ParserOpt {
	opts := []parser.ParserOpt{
		parser.WithLogger(o.logger),
		parser.WithMaxDepth(o.maxDepth),
	}
	if o.telemetry {
		opts = append(opts, parser.WithTelemetryTiming())
	}
	return opts
}

// newLogger creates a terminal-friendly handler without time or level
func newLogger(w io.Writer, debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func newParseCmd(opts *options) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a file (or stdin) and print its statements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				src, _, err := readInput(opts, args)
				if err != nil {
					return err
				}
				return runParse(opts, src)
			}

			if len(args) == 0 || args[0] == "-" {
				return &CLIError{Type: "input", Message: "--watch needs a file argument"}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchAndParse(ctx, opts, args[0])
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-parse the file whenever it changes")
	return cmd
}

func newTokensCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a file (or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _, err := readInput(opts, args)
			if err != nil {
				return err
			}
			return runTokens(opts, src)
		},
	}
}

func newDumpCmd(opts *options) *cobra.Command {
	var (
		out    string
		decode bool
	)

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Write the canonical binary encoding of a file and print its digest",
		Long: `dump parses the input and prints the BLAKE2b-256 digest of its canonical
CBOR encoding. With --out the encoding is also written to a file ("-" for stdout,
in which case the digest goes to stderr). With --decode the input is an encoding
produced earlier; it is validated and printed as a tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name, err := readInput(opts, args)
			if err != nil {
				return err
			}
			if decode {
				return runDecode(opts, src, name)
			}
			return runDump(opts, src, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the CBOR encoding to this file")
	cmd.Flags().BoolVar(&decode, "decode", false, "Read a CBOR encoding instead of source")
	return cmd
}

// readInput reads the named file, or stdin when no file (or "-") is given
func readInput(opts *options, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(opts.stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "<stdin>", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", &CLIError{
			Type:    "input",
			Message: fmt.Sprintf("error opening file %s", args[0]),
			Details: err.Error(),
			Err:     err,
		}
	}
	return data, args[0], nil
}
