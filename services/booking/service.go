package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appointmentRepo "pharmabook/database/repository/appointment"
	scheduleRepo "pharmabook/database/repository/schedule"
	"pharmabook/models"
	"pharmabook/services/order"
	"pharmabook/services/schedule"
	"pharmabook/services/session"

	"go.uber.org/zap"
)

// AppointmentInput is the calendar step's slot selection.
type AppointmentInput struct {
	Slug        string
	UserID      string
	ServiceID   string
	Items       []models.CartItem
	DeliveryFee int64
	Variant     models.FlowVariant
	Start       time.Time
}

// BookingService attaches an appointment selection to the booking's draft order.
type BookingService interface {
	// ScheduleAppointment validates the chosen slot, syncs the draft order
	// with the selection and records it in the session.
	ScheduleAppointment(ctx context.Context, scope *session.Scope, in AppointmentInput) (orderID string, err error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Coordinator  order.Coordinator
	Schedules    scheduleRepo.ScheduleRepository
	Appointments appointmentRepo.AppointmentRepository
	Availability schedule.AvailabilityService
	Logger       *zap.Logger
}

// ScheduleAppointment validates the chosen slot against live availability,
// then folds the selection into the draft order via the coordinator.
func (s *DefaultBookingService) ScheduleAppointment(ctx context.Context, scope *session.Scope, in AppointmentInput) (string, error) {
	sched, err := s.Schedules.GetByServiceSlug(in.Slug)
	if err != nil {
		return "", fmt.Errorf("failed to resolve schedule: %w", err)
	}

	day, err := s.Availability.DayAvailability(in.Slug, in.Start)
	if err != nil {
		return "", fmt.Errorf("failed to compute availability: %w", err)
	}
	if !day.Open {
		return "", NewSlotError(fmt.Sprintf("no appointments on %s: %s", day.Date, day.Reason))
	}
	if !slotBookable(day.Slots, in.Start) {
		return "", NewSlotError("the selected time is no longer available")
	}

	end := in.Start.Add(time.Duration(sched.SlotMinutes) * time.Minute)
	ref := &order.ScheduleRef{
		ScheduleID: sched.ID,
		Start:      &in.Start,
		End:        &end,
	}

	orderID, err := s.Coordinator.EnsureDraftOrder(ctx, scope, order.EnsureInput{
		Slug:        in.Slug,
		UserID:      in.UserID,
		ServiceID:   in.ServiceID,
		Items:       in.Items,
		DeliveryFee: in.DeliveryFee,
		Schedule:    ref,
		Variant:     in.Variant,
	})
	if err != nil {
		return "", err
	}

	selection, _ := json.Marshal(map[string]string{
		"scheduleId": sched.ID,
		"start":      in.Start.Format(time.RFC3339),
		"end":        end.Format(time.RFC3339),
	})
	scope.SetAppointment(ctx, in.Slug, string(selection))

	s.Logger.Info("appointment selection stored",
		zap.String("slug", in.Slug),
		zap.String("orderId", orderID),
		zap.Time("start", in.Start))
	return orderID, nil
}

func slotBookable(slots []models.Slot, start time.Time) bool {
	for _, sl := range slots {
		if sl.Start.Equal(start) {
			return sl.Available
		}
	}
	return false
}

// ConfirmAppointment persists the appointment record once payment succeeds.
// Idempotent per order: an existing record is returned untouched.
func (s *DefaultBookingService) ConfirmAppointment(ord *models.Order) (*models.Appointment, error) {
	if ord.StartTime == nil || ord.ScheduleID == "" {
		return nil, nil
	}

	if existing, err := s.Appointments.GetByOrder(ord.ID); err == nil {
		return existing, nil
	}

	end := ord.StartTime.Add(30 * time.Minute)
	if ord.EndTime != nil {
		end = *ord.EndTime
	}
	appt := &models.Appointment{
		ID:         newAppointmentID(),
		OrderID:    ord.ID,
		UserID:     ord.UserID,
		ScheduleID: ord.ScheduleID,
		Start:      *ord.StartTime,
		End:        end,
		Status:     "booked",
	}
	if err := s.Appointments.Create(appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appt, nil
}
