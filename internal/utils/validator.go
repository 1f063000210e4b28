package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// minPasswordLength is the only password requirement. Composition rules
// (mandatory cases, digits) push users toward predictable patterns without
// adding real entropy.
const minPasswordLength = 6

// ValidatePassword validates a password.
func ValidatePassword(password string) bool {
	return len(password) >= minPasswordLength
}

// ValidatePhone validates an optional phone number in E.164-ish form.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// NormalizeEmail lowercases and trims an email address. Uniqueness is
// enforced against the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
