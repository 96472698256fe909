package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordAccepts(t *testing.T) {
	violations := ValidatePassword("Str0ng&Secure!", "Jane Roe", "jane@example.com")
	assert.Empty(t, violations)
}

func TestValidatePasswordLength(t *testing.T) {
	violations := ValidatePassword("Ab1!", "", "")
	assert.Contains(t, violations, "Password must be at least 8 characters long!")
}

func TestValidatePasswordCharacterClasses(t *testing.T) {
	// 12 chars, all lowercase: three class rules must fire at once
	violations := ValidatePassword("justlettersz", "", "")
	assert.Contains(t, violations, "Password must contain an uppercase letter!")
	assert.Contains(t, violations, "Password must contain a digit!")
	assert.Contains(t, violations, "Password must contain a special character!")
	assert.NotContains(t, violations, "Password must contain a lowercase letter!")
}

func TestValidatePasswordCommonSequences(t *testing.T) {
	violations := ValidatePassword("MyPassword9!", "", "")
	assert.Contains(t, violations, "Password contains a commonly used sequence!")

	violations = ValidatePassword("Qwerty123!x", "", "")
	assert.Contains(t, violations, "Password contains a commonly used sequence!")
}

func TestValidatePasswordRejectsIdentity(t *testing.T) {
	violations := ValidatePassword("Janedoe42!", "janedoe", "someone@example.com")
	assert.Contains(t, violations, "Password must not contain your name!")

	violations = ValidatePassword("Xk9!teacher7", "Someone Else", "teacher7@example.com")
	assert.Contains(t, violations, "Password must not contain your email address!")
}

func TestValidatePasswordReportsAllViolations(t *testing.T) {
	// A short lowercase password should report every broken rule together
	violations := ValidatePassword("abc", "", "")
	assert.GreaterOrEqual(t, len(violations), 4)
}
