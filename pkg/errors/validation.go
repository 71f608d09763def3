package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateLevelID checks a user-supplied level identifier. IDs end up in file
// names and cache keys, so path separators and control characters are
// rejected.
func ValidateLevelID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "level id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "level id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "level id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "level id contains invalid characters: %q", id)
	}
	return nil
}

// ValidateNodeRange checks a requested node-count range against a hard limit.
func ValidateNodeRange(lo, hi, limit int) error {
	switch {
	case lo < 2:
		return New(ErrCodeInvalidInput, "node minimum must be at least 2, got %d", lo)
	case hi < lo:
		return New(ErrCodeInvalidInput, "node range [%d,%d] is empty", lo, hi)
	case limit > 0 && hi > limit:
		return &NodeLimitError{Nodes: hi, Limit: limit}
	}
	return nil
}

// ValidateOutputPath checks an output file path and its extension.
// exts lists accepted extensions including the dot; an empty list accepts any.
func ValidateOutputPath(path string, exts ...string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	if len(exts) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported file extension %q (want one of %s)", ext, strings.Join(exts, ", "))
}
