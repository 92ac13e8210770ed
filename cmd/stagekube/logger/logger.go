// Package logger adapts the teacher's cmd/knit/subcommands/logger, adding
// TTY-aware colorization per SPEC_FULL's ambient stack section.
package logger

import (
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

func Null() *log.Logger {
	return log.New(io.Discard, "", log.LstdFlags)
}

func Default() *log.Logger {
	return log.Default()
}

// ColorizeError paints a fatal message red when stderr is a terminal and
// leaves it plain otherwise, so redirected/CI output stays clean.
func ColorizeError(msg string) string {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return msg
	}
	return color.RedString(msg)
}

// ColorizeWarning paints a non-fatal message (e.g. a config version
// mismatch) yellow on a terminal.
func ColorizeWarning(msg string) string {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return msg
	}
	return color.YellowString(msg)
}
