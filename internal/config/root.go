package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootError is the fatal error for a scan root that cannot be used.
type RootError struct {
	Path string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid root %s: %v", e.Path, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// CheckRoot verifies root exists and is a directory, following a symlinked
// root.
func CheckRoot(root string) error {
	if root == "" {
		return &RootError{Path: root, Err: fmt.Errorf("path is empty")}
	}
	info, err := os.Stat(root)
	if err != nil {
		return &RootError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &RootError{Path: root, Err: fmt.Errorf("not a directory")}
	}
	if _, err := os.ReadDir(root); err != nil {
		return &RootError{Path: root, Err: err}
	}
	return nil
}

func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
