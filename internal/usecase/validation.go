package usecase

import (
	"net/mail"
	"regexp"
	"strings"
)

var xHandleRegex = regexp.MustCompile(`^@[A-Za-z0-9_]{1,15}$`)

func IsValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// NormalizeXHandle prefixes @ if absent. Empty input stays empty (field is optional).
func NormalizeXHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ""
	}
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	return handle
}

// ValidateXHandle checks a normalized handle. Empty is valid: the field stays unset.
func ValidateXHandle(handle string) error {
	if handle == "" {
		return nil
	}
	if !xHandleRegex.MatchString(handle) {
		return &DomainError{
			Code:    CodeValidationError,
			Message: "x handle must match @ followed by 1-15 letters, digits or underscores",
		}
	}
	return nil
}
