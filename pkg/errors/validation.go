package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateJobID checks that id is a canonical UUID as issued by the job
// store. Anything else is rejected before it reaches a database query.
func ValidateJobID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidJobID, "job id cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return New(ErrCodeInvalidJobID, "invalid job id: %q", id)
	}
	return nil
}

// ValidatePath validates a relative output path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateLayerIndex checks that index addresses one of count layers.
func ValidateLayerIndex(index, count int) error {
	if index < 0 || index >= count {
		return New(ErrCodeInvalidLayer, "layer %d out of range (have %d layers)", index, count)
	}
	return nil
}
