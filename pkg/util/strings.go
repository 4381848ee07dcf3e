package util

import (
	"path/filepath"
	"strings"
)

// MaxLogBodySize is the default maximum body size for logging (10KB).
const MaxLogBodySize = 10 * 1024

// TruncateBody truncates a string to maxSize bytes, appending "...(truncated)" if truncated.
// If maxSize <= 0, uses MaxLogBodySize.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) > maxSize {
		return data[:maxSize] + "...(truncated)"
	}
	return data
}

// SafeFilePath cleans a relative path and rejects absolute paths and paths
// that escape the current directory.
func SafeFilePath(p string) (string, bool) {
	if p == "" || filepath.IsAbs(p) {
		return "", false
	}
	return cleanRelative(p)
}

// SafeFilePathAllowAbsolute is SafeFilePath but accepts absolute paths.
func SafeFilePathAllowAbsolute(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), true
	}
	return cleanRelative(p)
}

func cleanRelative(p string) (string, bool) {
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", false
	}
	return cleaned, true
}
