package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders one kind of value. Without color the value is wrapped in
// prefix and suffix so it stays recognisable in logs and piped output.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// Sprint formats the arguments like fmt.Sprint.
func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats like fmt.Sprintf.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

// EnsureNewline appends a newline unless s already ends with one.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// Size renders a byte count as muted secondary text, e.g. "(12 bytes)".
// A non-empty qualifier is appended, as in "(48 bytes stored)".
func Size(n int, qualifier string) string {
	label := fmt.Sprintf("%d bytes", n)
	if n == 1 {
		label = "1 byte"
	}
	if qualifier != "" {
		label += " " + qualifier
	}
	return Muted.Sprint(label)
}

// noColor reports whether output must be plain text.
// NO_COLOR (https://no-color.org/) wins over fatih/color's terminal detection.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Code is for commands the user can run: `nova secrets clone`.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path is for secret paths, snippet filenames and settings files.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag is for flags such as --force or --raw.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	Success = Formatter{color.New(color.FgGreen), "", ""}
	Error   = Formatter{color.New(color.FgRed), "", ""}
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info is for hints and section headers.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight is for user values: project names, shorthands, schemes.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted is for secondary detail such as sizes and check names.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)
