package utils

import (
	"strings"
	"unicode"
)

// HasLetter returns true if s contains at least one letter.
func HasLetter(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLetter)
}

// HasNumber returns true if s contains at least one decimal digit.
func HasNumber(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

// StrongPassword requires at least 6 characters with a letter and a number.
func StrongPassword(s string) bool {
	return len(s) >= 6 && HasLetter(s) && HasNumber(s)
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
