package errors

import (
	"strings"
	"unicode"
)

// ValidateUserID validates a user identifier before it reaches a graph query.
// It rejects ids that could only come from corrupted input.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
//
// Existence of the user in a particular graph is checked separately by the
// query functions.
func ValidateUserID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidUserID, "user id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidUserID, "user id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidUserID, "user id contains invalid control characters")
		}
	}

	return nil
}

// ValidateTagName validates an element or attribute name from a schema file.
// Names must start with a letter or underscore and contain only letters,
// digits, hyphens, underscores, and dots, mirroring what the tokenizer accepts.
func ValidateTagName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSchema, "tag name cannot be empty")
	}

	for i, r := range name {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return New(ErrCodeInvalidSchema, "tag name %q must start with a letter or underscore", name)
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("-_.", r) {
			return New(ErrCodeInvalidSchema, "tag name %q contains invalid character %q", name, r)
		}
	}

	return nil
}
