// Package ioutils provides file system utilities for callrail-exporter.
package ioutils

import (
	"errors"
	"io/fs"
	"os"
)

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/calls/recordings")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists reports whether a regular file exists at path.
//
// A directory at the path does not count as an existing file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
