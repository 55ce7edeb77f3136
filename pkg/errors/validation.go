package errors

import (
	"strings"
	"unicode"
)

// ValidateRegionName validates a user-supplied region name before it is
// used as a lookup key or embedded in output.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
//
// Resolution against the actual boundary dataset is done separately by
// the region index; this only rejects obviously hostile input.
func ValidateRegionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidRegion, "region name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidRegion, "region name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRegion, "region name contains invalid control characters")
		}
	}

	return nil
}

// ValidateDataPath validates a dataset file path from CLI flags or config.
// It ensures the path has no null bytes and is not absurdly long; existence
// is checked at open time so the caller gets a FILE_NOT_FOUND with context.
func ValidateDataPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "data path cannot be empty")
	}
	if len(path) > 4096 {
		return New(ErrCodeInvalidInput, "data path too long")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "data path contains null byte")
	}
	return nil
}
