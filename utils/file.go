package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteTempFile copies src into a new temporary file in dir (os.TempDir when empty)
// with the given suffix. The caller owns the returned path and must call cleanup.
func WriteTempFile(src io.Reader, dir, suffix string) (path string, cleanup func(), err error) {
	tmp, err := os.CreateTemp(dir, "upload-*"+suffix)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path = tmp.Name()
	cleanup = func() { os.Remove(path) }

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}
	return path, cleanup, nil
}

// GetFileNameWithoutExt extracts filename without extension from a file path
func GetFileNameWithoutExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
