package auth

import (
	"regexp"
	"strings"
)

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidationError is a form field error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

func ValidateEmail(email string) *ValidationError {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "Email is required")
	}
	if !emailPattern.MatchString(email) {
		return invalid("email", "Please enter a valid email address")
	}
	return nil
}

func ValidatePassword(password string) *ValidationError {
	if password == "" {
		return invalid("password", "Password is required")
	}
	if len(password) < MinPasswordLength {
		return invalid("password", "Password must be at least 6 characters")
	}
	return nil
}

func ValidateConfirmation(password, confirm string) *ValidationError {
	if confirm == "" {
		return invalid("confirm_password", "Please confirm your password")
	}
	if password != confirm {
		return invalid("confirm_password", "Passwords do not match")
	}
	return nil
}

func ValidateAnswer(answer string) *ValidationError {
	if strings.TrimSpace(answer) == "" {
		return invalid("answer", "Security answer is required")
	}
	return nil
}
