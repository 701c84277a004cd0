// Package ui provides semantic text formatting for CLI output.
//
// This package defines formatters for different types of content (code,
// paths, errors, etc.) that render appropriately based on terminal
// capabilities. When colors are available, content is colorized. When
// NO_COLOR is set or the terminal doesn't support colors, text-based
// decorations (backticks, quotes) are used instead.
//
// # Semantic Formatters
//
// Use the appropriate formatter for the content type:
//
//	ui.Code.Sprint("nova secrets clone")   // Commands and code
//	ui.Path.Sprint("local/.env")           // File paths
//	ui.Success.Sprint("✓")                 // Success indicators
//	ui.Error.Sprint("✗")                   // Error indicators
//	ui.Warning.Sprint("⚠")                 // Warnings
//	ui.Info.Sprint("→")                    // Informational hints
//	ui.Highlight.Sprint("acme")            // User values such as project names
//	ui.Muted.Sprint("raw")                 // De-emphasized text
//	ui.Size(12, "")                        // Byte counts, "(12 bytes)" without color
//
// # Outcome Lines
//
// Batch commands print one line per item. SuccessLine, FailureLine,
// WarningLine and HintLine build those lines from a message and a subject:
//
//	fmt.Println(ui.SuccessLine("Wrote to file", "local/.env"))
//
// # Color Behavior
//
// Colors are disabled when:
//   - NO_COLOR environment variable is set (any value)
//   - Terminal doesn't support colors (TERM=dumb, not a TTY)
//
// When colors are disabled, formatters apply text decorations:
//   - Code: `backticks`
//   - Highlight: 'single quotes'
//   - Muted: (parentheses)
//   - Others: no decoration (self-evident from context)
package ui
