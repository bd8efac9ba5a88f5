package flow

import "fmt"

// BlockedError is a guarded transition violation carrying the user-facing
// message surfaced next to the blocked action.
type BlockedError struct {
	Code    string
	Message string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewBlockedError(msg string) error {
	return &BlockedError{
		Code:    "stepBlocked",
		Message: msg,
	}
}
