package util

import (
	"io"
	"os"
	"path/filepath"

	"github.com/openshift-eng/ci-monitor/internal/errors"
)

// FileExists returns true if the given file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile returns true if the path points to a file.
func IsFile(path string) bool {
	fileInfo, err := os.Stat(path)
	return err == nil && !fileInfo.IsDir()
}

// EnsureDirectory creates a directory at this path if it does not exist, or errors if the path exists and is a file.
func EnsureDirectory(path string) error {
	if FileExists(path) && IsFile(path) {
		return errors.Errorf("path %s is a file, not a directory", path)
	} else if !FileExists(path) {
		return errors.New(os.MkdirAll(path, 0700))
	}

	return nil
}

// ReadFileAsString returns the contents of the file at the given path as a string.
func ReadFileAsString(path string) (string, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("error reading file at path %s: %w", path, err)
	}

	return string(bytes), nil
}

// CanonicalPath returns the canonical version of the given path, relative to the given base path. That is, if the given path is a
// relative path, assume it is relative to the given base path. A canonical path is an absolute path with all relative
// components (e.g. "../") fully resolved, which makes it safe to compare paths as strings.
func CanonicalPath(path string, basePath string) (string, error) {
	if !filepath.IsAbs(path) {
		path = JoinPath(basePath, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", errors.New(err)
	}

	return CleanPath(absPath), nil
}

// JoinPath always joins with the / separator, regardless of the platform.
func JoinPath(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}

// CleanPath cleans the path and converts it to use the / separator, regardless of the platform.
func CleanPath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// CopyFile copies the contents and permissions of the source file to the destination file.
func CopyFile(source string, destination string) error {
	src, err := os.Open(source)
	if err != nil {
		return errors.New(err)
	}
	defer src.Close() //nolint:errcheck

	info, err := src.Stat()
	if err != nil {
		return errors.New(err)
	}

	dst, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return errors.New(err)
	}
	defer dst.Close() //nolint:errcheck

	if _, err := io.Copy(dst, src); err != nil {
		return errors.New(err)
	}

	return errors.New(dst.Sync())
}

// MoveFile moves the file from source to destination, falling back to copy and
// remove when rename crosses filesystems.
func MoveFile(source string, destination string) error {
	if err := os.Rename(source, destination); err == nil {
		return nil
	}

	if err := CopyFile(source, destination); err != nil {
		return err
	}

	return errors.New(os.Remove(source))
}
