package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetUsername(t *testing.T) {
	username, err := GetUsername()
	if err != nil {
		t.Skipf("no current user: %v", err)
	}
	if username == "" {
		t.Error("GetUsername returned empty string")
	}
}

func TestGetUsernameFallsBackToEnvironment(t *testing.T) {
	t.Setenv("USER", "nova-test")
	username, err := GetUsername()
	if err != nil {
		t.Fatalf("GetUsername failed: %v", err)
	}
	if username == "" {
		t.Error("GetUsername returned empty string")
	}
}

func TestIsValidShorthand(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"prettier", true},
		{"eslint-base", true},
		{"ts_config.v2", true},
		{"", false},
		{"-leading", false},
		{"has space", false},
		{"slash/name", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := IsValidShorthand(tc.input); got != tc.expected {
				t.Errorf("IsValidShorthand(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"NoNewline", "pw", "pw"},
		{"TrailingNewline", "pw\n", "pw"},
		{"CRLF", "pw\r\n", "pw"},
		{"OnlyFirstLine", "pw\nsecond\n", "pw"},
		{"EmptyLine", "\n", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadLine(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("ReadLine failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("ReadLine(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}

	if _, err := ReadLine(strings.NewReader("")); err == nil {
		t.Error("Expected error for empty input")
	}
}

func TestWriteFileWithParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", ".env")

	if err := WriteFileWithParents(path, []byte("X=1"), 0600); err != nil {
		t.Fatalf("WriteFileWithParents failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestFileMatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("X=1"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	exists, identical, err := FileMatches(path, []byte("X=1"))
	if err != nil || !exists || !identical {
		t.Errorf("expected identical, got exists=%v identical=%v err=%v", exists, identical, err)
	}

	exists, identical, err = FileMatches(path, []byte("X=2"))
	if err != nil || !exists || identical {
		t.Errorf("expected non-identical, got exists=%v identical=%v err=%v", exists, identical, err)
	}

	exists, _, err = FileMatches(filepath.Join(dir, "missing"), []byte("X=1"))
	if err != nil || exists {
		t.Errorf("expected non-existent, got exists=%v err=%v", exists, err)
	}
}
