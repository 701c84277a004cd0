package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileWithParents writes data to path with the given permissions,
// creating missing parent directories with 0700.
func WriteFileWithParents(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// FileMatches reports whether the file at path exists and holds exactly want.
// exists is false when the file is missing; any other read error is returned.
func FileMatches(path string, want []byte) (exists bool, identical bool, err error) {
	got, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, bytes.Equal(got, want), nil
}
