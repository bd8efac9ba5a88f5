package scheduleRepo

import (
	"errors"

	"pharmabook/models"
)

// ErrScheduleNotFound is returned when no schedule matches the lookup.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepository defines read access to service schedules. The booking
// flow never mutates schedules.
type ScheduleRepository interface {
	// GetByID retrieves a schedule by its unique ID.
	GetByID(id string) (*models.Schedule, error)
	// GetByServiceSlug retrieves the schedule attached to a service.
	GetByServiceSlug(slug string) (*models.Schedule, error)
}
