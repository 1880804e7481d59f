package middleware

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

const maxSessionIDLength = 256

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:\-]+$`)

// ValidateSessionID validates a conversation session ID.
func ValidateSessionID(id string) error {
	if len(id) == 0 {
		return errors.New("session ID cannot be empty")
	}
	if len(id) > maxSessionIDLength {
		return errors.New("session ID exceeds maximum length")
	}
	if !utf8.ValidString(id) || !sessionIDPattern.MatchString(id) {
		return errors.New("invalid session ID format")
	}
	return nil
}
