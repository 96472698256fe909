package utils

import (
	"strings"
	"unicode"
)

// Substrings that disqualify a password outright.
var commonPasswordParts = []string{
	"password",
	"123456",
	"qwerty",
	"letmein",
	"welcome",
	"abc123",
}

// ValidatePassword checks a candidate password against the account password
// policy and returns every violated rule, so clients can show all failures
// at once instead of one per attempt. An empty slice means the password is
// acceptable. fullName and email identify the account the password is for.
func ValidatePassword(password, fullName, email string) []string {
	var violations []string

	if len(password) < 8 {
		violations = append(violations, "Password must be at least 8 characters long!")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		violations = append(violations, "Password must contain an uppercase letter!")
	}
	if !hasLower {
		violations = append(violations, "Password must contain a lowercase letter!")
	}
	if !hasDigit {
		violations = append(violations, "Password must contain a digit!")
	}
	if !hasSpecial {
		violations = append(violations, "Password must contain a special character!")
	}

	lower := strings.ToLower(password)
	for _, part := range commonPasswordParts {
		if strings.Contains(lower, part) {
			violations = append(violations, "Password contains a commonly used sequence!")
			break
		}
	}

	// Reject passwords built from the user's own identity
	if fullName != "" && strings.Contains(lower, strings.ToLower(strings.TrimSpace(fullName))) {
		violations = append(violations, "Password must not contain your name!")
	}
	if email != "" {
		local := strings.ToLower(strings.SplitN(email, "@", 2)[0])
		if local != "" && strings.Contains(lower, local) {
			violations = append(violations, "Password must not contain your email address!")
		}
	}

	return violations
}
