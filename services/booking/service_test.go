package booking

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	appointmentRepo "pharmabook/database/repository/appointment"
	scheduleRepo "pharmabook/database/repository/schedule"
	"pharmabook/models"
	"pharmabook/services/order"
	"pharmabook/services/schedule"
	"pharmabook/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubScheduleRepo struct{ sched *models.Schedule }

func (r *stubScheduleRepo) GetByID(string) (*models.Schedule, error) {
	if r.sched == nil {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return r.sched, nil
}
func (r *stubScheduleRepo) GetByServiceSlug(string) (*models.Schedule, error) {
	return r.GetByID("")
}

type stubAppointmentRepo struct {
	byOrder map[string]*models.Appointment
	booked  map[string]int
	creates int
}

func (r *stubAppointmentRepo) Create(appt *models.Appointment) error {
	if r.byOrder == nil {
		r.byOrder = map[string]*models.Appointment{}
	}
	r.creates++
	r.byOrder[appt.OrderID] = appt
	return nil
}
func (r *stubAppointmentRepo) GetByOrder(orderID string) (*models.Appointment, error) {
	if appt, ok := r.byOrder[orderID]; ok {
		return appt, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}
func (r *stubAppointmentRepo) CountByStart(string, time.Time, time.Time) (map[string]int, error) {
	return r.booked, nil
}

type stubCoordinator struct {
	lastInput order.EnsureInput
	calls     int
}

func (c *stubCoordinator) EnsureDraftOrder(_ context.Context, _ *session.Scope, in order.EnsureInput) (string, error) {
	c.calls++
	c.lastInput = in
	return "o1", nil
}

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func testSchedule() *models.Schedule {
	return &models.Schedule{
		ID:          "sched1",
		ServiceSlug: "travel-clinic",
		Timezone:    "UTC",
		SlotMinutes: 30,
		Weekly: map[string]models.DayWindow{
			"monday": {Start: "09:00", End: "12:00"},
		},
	}
}

func fixture() (*DefaultBookingService, *stubCoordinator, *stubAppointmentRepo) {
	schedules := &stubScheduleRepo{sched: testSchedule()}
	appts := &stubAppointmentRepo{}
	coord := &stubCoordinator{}
	svc := &DefaultBookingService{
		Coordinator: coord,
		Schedules:   schedules,
		Appointments: appts,
		Availability: &schedule.DefaultAvailabilityService{
			Schedules:    schedules,
			Appointments: appts,
			Clock:        schedule.FixedClock(monday.Add(-time.Hour)),
		},
		Logger: zap.NewNop(),
	}
	return svc, coord, appts
}

func testScope() *session.Scope {
	return session.NewScope(session.NewMirror(zap.NewNop(), session.NewMemoryStore()), "sess-1")
}

func apptInput(start time.Time) AppointmentInput {
	return AppointmentInput{
		Slug:      "travel-clinic",
		UserID:    "u1",
		ServiceID: "svc1",
		Items: []models.CartItem{
			{SKU: "TYP1", Name: "Typhoid vaccine", Quantity: 1, UnitPrice: 3500},
		},
		DeliveryFee: 0,
		Start:       start,
	}
}

func TestScheduleAppointmentSyncsDraftOrder(t *testing.T) {
	svc, coord, _ := fixture()
	scope := testScope()
	ctx := context.Background()

	start := monday.Add(9*time.Hour + 30*time.Minute)
	orderID, err := svc.ScheduleAppointment(ctx, scope, apptInput(start))
	require.NoError(t, err)
	assert.Equal(t, "o1", orderID)

	require.Equal(t, 1, coord.calls)
	require.NotNil(t, coord.lastInput.Schedule)
	assert.Equal(t, "sched1", coord.lastInput.Schedule.ScheduleID)
	assert.Equal(t, start, *coord.lastInput.Schedule.Start)
	assert.Equal(t, start.Add(30*time.Minute), *coord.lastInput.Schedule.End)

	var selection map[string]string
	require.NoError(t, json.Unmarshal([]byte(scope.Appointment(ctx, "travel-clinic")), &selection))
	assert.Equal(t, "sched1", selection["scheduleId"])
	assert.Equal(t, start.Format(time.RFC3339), selection["start"])
}

func TestScheduleAppointmentRejectsClosedDay(t *testing.T) {
	svc, coord, _ := fixture()
	scope := testScope()

	sunday := monday.AddDate(0, 0, -1).Add(10 * time.Hour)
	_, err := svc.ScheduleAppointment(context.Background(), scope, apptInput(sunday))

	var slotErr *SlotError
	require.ErrorAs(t, err, &slotErr)
	assert.Zero(t, coord.calls, "a rejected slot must not touch the draft order")
}

func TestScheduleAppointmentRejectsOffGridSlot(t *testing.T) {
	svc, _, _ := fixture()
	scope := testScope()

	// 09:10 is not on the 30-minute grid.
	start := monday.Add(9*time.Hour + 10*time.Minute)
	_, err := svc.ScheduleAppointment(context.Background(), scope, apptInput(start))

	var slotErr *SlotError
	assert.ErrorAs(t, err, &slotErr)
}

func TestScheduleAppointmentRejectsFullSlot(t *testing.T) {
	svc, _, appts := fixture()
	svc.Schedules.(*stubScheduleRepo).sched.SlotCapacity = 1
	appts.booked = map[string]int{"09:30": 1}
	scope := testScope()

	start := monday.Add(9*time.Hour + 30*time.Minute)
	_, err := svc.ScheduleAppointment(context.Background(), scope, apptInput(start))

	var slotErr *SlotError
	require.ErrorAs(t, err, &slotErr)

	// The neighbouring slot is still bookable.
	_, err = svc.ScheduleAppointment(context.Background(), scope, apptInput(monday.Add(10*time.Hour)))
	assert.NoError(t, err)
}

func TestConfirmAppointmentIdempotent(t *testing.T) {
	svc, _, appts := fixture()

	start := monday.Add(10 * time.Hour)
	end := start.Add(30 * time.Minute)
	ord := &models.Order{
		ID:         "o1",
		UserID:     "u1",
		ScheduleID: "sched1",
		StartTime:  &start,
		EndTime:    &end,
	}

	first, err := svc.ConfirmAppointment(ord)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "booked", first.Status)
	assert.Equal(t, end, first.End)

	second, err := svc.ConfirmAppointment(ord)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "a second confirmation must reuse the record")
	assert.Equal(t, 1, appts.creates)
}

func TestConfirmAppointmentSkipsOrdersWithoutSlot(t *testing.T) {
	svc, _, appts := fixture()

	appt, err := svc.ConfirmAppointment(&models.Order{ID: "o2", UserID: "u1"})
	require.NoError(t, err)
	assert.Nil(t, appt, "orders without an appointment selection have nothing to confirm")
	assert.Zero(t, appts.creates)
}
