package auth

import "errors"

// Flow errors. The error text is a stable code; Message gives the text shown
// to the admin.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNoAccount          = errors.New("no_account")
	ErrNoSecurityQuestion = errors.New("no_security_question")
	ErrIncorrectAnswer    = errors.New("incorrect_answer")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrBusy               = errors.New("operation_in_progress")
)

const genericMessage = "An error occurred. Please try again."

var messages = map[error]string{
	ErrInvalidCredentials: "Invalid email or password",
	ErrNoAccount:          "No account found with that email address.",
	ErrNoSecurityQuestion: "This account does not have a security question set.",
	ErrIncorrectAnswer:    "Incorrect security answer. Please try again.",
	ErrInvalidToken:       "Invalid or expired token. Please try resetting your password again.",
	ErrBusy:               "Another request is still in progress. Please wait.",
}

// Success messages.
const (
	MsgResetRequested = "Please answer your security question to continue."
	MsgAnswerVerified = "Security answer verified. You may now reset your password."
	MsgPasswordReset  = "Password reset successfully. You can now log in with your new password."
)

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return genericMessage
}

// Code returns a stable machine-readable code for err.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return "invalid_" + ve.Field
	}
	for target := range messages {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "internal"
}
