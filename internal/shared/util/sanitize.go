package util

import (
	"errors"
	"strings"
)

// SanitizeFileName replaces path separators so a user-supplied name stays a single
// path segment. The rest of the original name is preserved.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" || s == "." || s == ".." {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
