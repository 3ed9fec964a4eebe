package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"mini_one/internal/common"

	"github.com/google/uuid"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
	PasswordMinLen = 6
	PasswordMaxLen = 128
	MessageMaxLen  = 1000
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func invalid(message string) error {
	return common.NewError(common.ErrValidation, message)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLen {
		return invalid("Password must be at least 6 characters")
	}
	if n > PasswordMaxLen {
		return invalid("Password must be less than 128 characters")
	}
	return nil
}

// validateRegistration returns the trimmed username and normalized email, or
// the first rule the input breaks.
func validateRegistration(req RegisterRequest) (string, string, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return "", "", invalid("Username, email and password are required")
	}

	username := strings.TrimSpace(req.Username)
	switch n := utf8.RuneCountInString(username); {
	case n < UsernameMinLen:
		return "", "", invalid("Username must be at least 3 characters")
	case n > UsernameMaxLen:
		return "", "", invalid("Username must be less than 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return "", "", invalid("Username can only contain letters, numbers, and underscores")
	}

	email := normalizeEmail(req.Email)
	if !emailPattern.MatchString(email) || hasNUL(email) {
		return "", "", invalid("Please enter a valid email address")
	}

	if err := validatePassword(req.Password); err != nil {
		return "", "", err
	}
	return username, email, nil
}

// validateMessageText returns the trimmed text.
func validateMessageText(text string) (string, error) {
	if text == "" {
		return "", invalid("Message text is required")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", invalid("Message cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MessageMaxLen {
		return "", invalid("Message must be less than 1000 characters")
	}
	if hasNUL(trimmed) {
		return "", invalid("Message cannot contain null characters")
	}
	return trimmed, nil
}

// hasNUL reports a 0x00 byte, which Postgres text columns reject.
func hasNUL(s string) bool {
	return strings.IndexByte(s, 0) >= 0
}

// validateMessageID accepts only the canonical 36-character UUID form.
func validateMessageID(id string) error {
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		return invalid("Invalid message ID")
	}
	return nil
}
