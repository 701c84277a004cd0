package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadLine reads a single line from r, without the trailing newline.
// Returns an error if r is empty.
func ReadLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if line == "" && err == io.EOF {
		return "", fmt.Errorf("no input provided")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// IsStdinPiped reports whether stdin is a pipe or file rather than a terminal.
func IsStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// If ModeCharDevice is set, stdin is connected to a terminal.
	return (stat.Mode() & os.ModeCharDevice) == 0
}
