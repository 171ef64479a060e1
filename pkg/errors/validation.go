package errors

import (
	"strings"
	"unicode"
)

// ValidateSessionID validates a caller-supplied session id for safety.
// Session ids travel in URL paths and storage keys, so the rules are
// intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "session id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "session id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "session id contains invalid characters: %q", pattern)
		}
	}

	return nil
}
