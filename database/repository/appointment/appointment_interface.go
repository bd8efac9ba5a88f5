package appointmentRepo

import (
	"errors"
	"time"

	"pharmabook/models"
)

// ErrAppointmentNotFound is returned when no appointment matches the lookup.
var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentRepository defines methods for appointment data access.
type AppointmentRepository interface {
	// Create inserts a new appointment record.
	Create(appt *models.Appointment) error
	// GetByOrder retrieves the appointment attached to an order.
	GetByOrder(orderID string) (*models.Appointment, error)
	// CountByStart returns booked-appointment counts per start time for a
	// schedule within [dayStart, dayEnd), keyed by "HH:MM" in local time.
	// Feeds slot capacity tracking.
	CountByStart(scheduleID string, dayStart, dayEnd time.Time) (map[string]int, error)
}
