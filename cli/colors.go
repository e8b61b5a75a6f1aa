package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/opal-lang/crux/core/astfmt/formatter"
)

// Colors shared with the formatter package
var (
	ColorRed    = formatter.ColorError
	ColorYellow = forced(color.FgYellow)
	ColorGray   = formatter.ColorGuide
	ColorCyan   = forced(color.FgCyan)
)

func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// Colorize wraps text in ANSI color codes if color is enabled
// This is a convenience wrapper around formatter.Colorize
func Colorize(text string, c *color.Color, useColor bool) string {
	return formatter.Colorize(text, c, useColor)
}

// ShouldUseColor determines if color output should be used
// Respects --no-color flag and NO_COLOR environment variable
func ShouldUseColor(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	// Check if stdout is a terminal
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
