package user

import "fmt"

// AuthError is a user-facing authentication failure.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAuthError(msg string) error {
	return &AuthError{
		Code:    "authError",
		Message: msg,
	}
}
