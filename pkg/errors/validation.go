package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// projectIDRegex matches ids that are safe as file names, redis keys and
// sqlite/mongo primary keys.
var projectIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateProjectID rejects ids that could escape a store's namespace:
//   - empty or longer than 128 characters
//   - control characters
//   - path separators or traversal sequences
func ValidateProjectID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "project id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "project id too long (max 128 characters)")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "project id cannot contain %q", "..")
	}
	if !projectIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid project id %q (use letters, digits, '.', '_' or '-')", id)
	}
	return nil
}

// ValidateName checks a user-supplied display name for screens and elements.
// Empty names are allowed; they fall back to the element type.
func ValidateName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains control characters")
		}
	}
	return nil
}

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor accepts #rgb, #rgba, #rrggbb, #rrggbbaa and "transparent".
// An empty string clears a background and is valid.
func ValidateColor(c string) error {
	if c == "" || c == "transparent" || hexColorRegex.MatchString(c) {
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid color %q (want #rrggbb)", c)
}
