package ui

import "fmt"

// Outcome markers printed at the start of each per-item result line.
const (
	markSuccess = "✓"
	markFailure = "✗"
	markWarning = "⚠"
	markHint    = "→"
)

// SuccessLine renders `✓ message subject`.
func SuccessLine(message, subject string) string {
	return Success.Sprint(markSuccess) + " " + withSubject(message, subject)
}

// FailureLine renders `✗ message subject`, followed by the error on its own line when err is non-nil.
func FailureLine(message, subject string, err error) string {
	line := Error.Sprint(markFailure) + " " + withSubject(message, subject)
	if err != nil {
		line += "\n" + Error.Sprint("Error: ") + err.Error()
	}
	return line
}

// WarningLine renders `⚠ message subject`.
func WarningLine(message, subject string) string {
	return Warning.Sprint(markWarning) + " " + withSubject(message, subject)
}

// HintLine renders `→ message`.
func HintLine(message string) string {
	return Info.Sprint(markHint) + " " + message
}

func withSubject(message, subject string) string {
	if subject == "" {
		return message
	}
	return fmt.Sprintf("%s %s", message, Path.Sprint(subject))
}
