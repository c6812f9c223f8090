package validator

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// Filename validation errors
var (
	ErrFilenameEmpty   = errors.New("filename cannot be empty")
	ErrFilenameTooLong = errors.New("filename is too long")
)

// Compile regex patterns once at package level for performance
var (
	filenameReplaceRegex  = regexp.MustCompile(`[^a-z0-9-]+`)
	filenameCollapseRegex = regexp.MustCompile(`-+`)
)

// SanitizeFilename normalizes a user-supplied filename into a safe storage
// name: the base name is lowercased and reduced to [a-z0-9-], the extension
// is preserved. Path separators and traversal sequences never survive.
func SanitizeFilename(name string, maxLength int) string {
	// Strip any directory components the client may have sent.
	name = filepath.Base(name)

	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))

	base = strings.ToLower(base)
	base = filenameReplaceRegex.ReplaceAllString(base, "-")
	base = filenameCollapseRegex.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "file"
	}

	sanitized := base + ext
	if maxLength > 0 && len(sanitized) > maxLength {
		keep := maxLength - len(ext)
		if keep < 1 {
			keep = 1
		}
		sanitized = strings.Trim(base[:keep], "-") + ext
	}

	return sanitized
}

// ValidateFilename checks that a storage name is non-empty and within bounds.
func ValidateFilename(name string, maxLength int) error {
	if name == "" {
		return ErrFilenameEmpty
	}
	if maxLength > 0 && len(name) > maxLength {
		return ErrFilenameTooLong
	}
	return nil
}
