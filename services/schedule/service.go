package schedule

import (
	"fmt"
	"time"

	appointmentRepo "pharmabook/database/repository/appointment"
	scheduleRepo "pharmabook/database/repository/schedule"
	"pharmabook/models"
)

// AvailabilityService resolves a service's schedule and computes day
// availability with live booked counts.
type AvailabilityService interface {
	// DayAvailability returns the slots and metadata for a service's date.
	DayAvailability(slug string, date time.Time) (*models.DayAvailability, error)
}

// DefaultAvailabilityService implements AvailabilityService on the schedule
// and appointment repositories.
type DefaultAvailabilityService struct {
	Schedules    scheduleRepo.ScheduleRepository
	Appointments appointmentRepo.AppointmentRepository
	Clock        Clock
}

// DayAvailability returns the slots and metadata for a service's date.
func (s *DefaultAvailabilityService) DayAvailability(slug string, date time.Time) (*models.DayAvailability, error) {
	sched, err := s.Schedules.GetByServiceSlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schedule: %w", err)
	}

	var booked map[string]int
	if sched.SlotCapacity > 0 {
		// The date names a calendar day in the schedule's zone, whatever
		// location it was parsed in.
		from := dayStart(date, location(sched.Timezone))
		to := from.AddDate(0, 0, 1)

		booked, err = s.Appointments.CountByStart(sched.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to count booked slots: %w", err)
		}
	}

	day := DaySlots(*sched, date, s.Clock.Now(), booked)
	return &day, nil
}
