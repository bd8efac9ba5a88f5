package booking

import (
	"fmt"

	"github.com/google/uuid"
)

// SlotError is a user-facing slot selection failure.
type SlotError struct {
	Code    string
	Message string
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewSlotError(msg string) error {
	return &SlotError{
		Code:    "slotError",
		Message: msg,
	}
}

func newAppointmentID() string {
	return uuid.New().String()
}
