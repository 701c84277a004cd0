package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger writes leveled diagnostics for one command tree.
type Logger struct {
	Verbose bool
	Debug   bool
}

var (
	infoTag  = color.New(color.FgGreen).Sprint("[info] ")
	debugTag = color.New(color.FgCyan).Sprint("[debug] ")
	warnTag  = color.New(color.FgYellow).Sprint("[warn] ")
	errorTag = color.New(color.FgRed).Sprint("[error] ")
)

func emit(w io.Writer, tag, msg string, args ...any) {
	fmt.Fprintf(w, tag+msg+"\n", args...)
}

func (l Logger) chatty() bool {
	return l.Verbose || l.Debug
}

func (l Logger) Infof(msg string, args ...any) {
	if l.chatty() {
		emit(os.Stdout, infoTag, msg, args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		emit(os.Stdout, debugTag, msg, args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	if l.chatty() {
		emit(os.Stderr, warnTag, msg, args...)
	}
}

// WarnfAlways prints a warning regardless of verbosity.
func (l Logger) WarnfAlways(msg string, args ...any) {
	emit(os.Stderr, warnTag, msg, args...)
}

// Errorf only prints with --debug; user-facing failures are rendered by the commands.
func (l Logger) Errorf(msg string, args ...any) {
	if l.Debug {
		emit(os.Stderr, errorTag, msg, args...)
	}
}

// ErrorfAndReturn logs like Errorf and returns the formatted error, so %w wraps.
func (l Logger) ErrorfAndReturn(msg string, args ...any) error {
	err := fmt.Errorf(msg, args...)
	if l.Debug {
		emit(os.Stderr, errorTag, "%v", err)
	}
	return err
}
