package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation constants.
const (
	MinUsernameLength       = 3
	MaxUsernameLength       = 30
	MinPasswordLength       = 8
	MaxDisplayNameLength    = 100
	MinQuestionTextLength   = 5
	MaxQuestionTextLength   = 1000
	MaxOptionTextLength     = 300
	MinOptionsPerQuestion   = 2
	MaxOptionsPerQuestion   = 6
	MaxPaymentDetailsLength = 500
	MaxCategoryNameLength   = 100
)

// ValidateLength checks the rune length of a string field.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateEmail checks the basic shape of an email address.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid email format")
	}
	if !strings.Contains(parts[1], ".") {
		return fmt.Errorf("invalid email domain")
	}
	return nil
}

// ValidateUsername checks username length and allowed characters.
func ValidateUsername(username string) error {
	if err := ValidateLength("username", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}
	for _, r := range username {
		if !isUsernameRune(r) {
			return fmt.Errorf("username may only contain letters, digits, dots, dashes and underscores")
		}
	}
	return nil
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.' || r == '-' || r == '_':
		return true
	}
	return false
}

// ValidatePaymentDetails checks the free-form payout destination.
// Whitespace-only details are treated as empty.
func ValidatePaymentDetails(details string) error {
	trimmed := strings.TrimSpace(details)
	if trimmed == "" {
		return fmt.Errorf("payment details are required")
	}
	if err := ValidateLength("payment details", trimmed, 0, MaxPaymentDetailsLength); err != nil {
		return err
	}
	return nil
}

// ValidateQuestionText checks the prompt of a question.
func ValidateQuestionText(text string) error {
	return ValidateLength("question text", strings.TrimSpace(text), MinQuestionTextLength, MaxQuestionTextLength)
}

// ValidateOptions checks the answer choices of a question: bounded count,
// non-empty texts and exactly one correct option.
func ValidateOptions(texts []string, correctIndex int) error {
	if len(texts) < MinOptionsPerQuestion || len(texts) > MaxOptionsPerQuestion {
		return fmt.Errorf("a question needs between %d and %d options", MinOptionsPerQuestion, MaxOptionsPerQuestion)
	}
	if correctIndex < 0 || correctIndex >= len(texts) {
		return fmt.Errorf("correct option index is out of range")
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("option %d is empty", i+1)
		}
		if err := ValidateLength("option text", text, 1, MaxOptionTextLength); err != nil {
			return err
		}
	}
	return nil
}
