// Package validate holds the local format checks performed before any
// store or token call is made.
package validate

import (
	"regexp"
	"strings"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[A-Za-z]{2,6}$`)

const passwordSymbols = "!@#$%^&*"

// Email reports whether the address matches the accepted format.
func Email(email string) bool {
	return emailRe.MatchString(email)
}

// Password reports whether the password satisfies the strength policy:
// at least 6 characters, at least one uppercase letter, one digit and one
// symbol from a fixed set, with no characters outside letters, digits and
// that set.
func Password(password string) bool {
	if len(password) < 6 {
		return false
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		case unicode.IsLower(r):
		default:
			return false
		}
	}

	return hasUpper && hasDigit && hasSymbol
}
