package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveSource turns relPath into an absolute, cleaned path and checks
// that it names a regular file.
func ResolveSource(relPath string) (string, error) {
	fullPath, err := filepath.Abs(relPath)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", fullPath)
	}

	return fullPath, nil
}
