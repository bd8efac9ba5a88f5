package schedule

import (
	"testing"
	"time"

	"pharmabook/models"
)

func weeklySchedule() models.Schedule {
	return models.Schedule{
		ID:          "sched1",
		ServiceSlug: "travel-clinic",
		Timezone:    "UTC",
		SlotMinutes: 15,
		Weekly: map[string]models.DayWindow{
			"monday":    {Start: "09:00", End: "17:00"},
			"tuesday":   {Start: "09:00", End: "17:00"},
			"wednesday": {Start: "09:00", End: "12:30"},
		},
	}
}

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func TestDaySlotsPartitionsWindow(t *testing.T) {
	now := monday.Add(-24 * time.Hour)
	day := DaySlots(weeklySchedule(), monday, now, nil)

	if !day.Open {
		t.Fatalf("expected open day, got closed with reason %q", day.Reason)
	}
	// 09:00-17:00 at 15 minutes is 32 slots, 09:00 through 16:45.
	if len(day.Slots) != 32 {
		t.Fatalf("expected 32 slots, got %d", len(day.Slots))
	}
	if got := day.Slots[0].Label; got != "09:00" {
		t.Errorf("first slot = %s, want 09:00", got)
	}
	if got := day.Slots[len(day.Slots)-1].Label; got != "16:45" {
		t.Errorf("last slot = %s, want 16:45", got)
	}
	for _, sl := range day.Slots {
		if !sl.Available {
			t.Errorf("slot %s unexpectedly unavailable", sl.Label)
		}
		if sl.Remaining != UnlimitedCapacity {
			t.Errorf("slot %s remaining = %d, want unlimited", sl.Label, sl.Remaining)
		}
	}
}

func TestDaySlotsKeepsCalendarDayBehindUTC(t *testing.T) {
	sched := weeklySchedule()
	sched.Timezone = "America/New_York"
	now := monday.Add(-24 * time.Hour)

	// The query date arrives parsed as UTC midnight. New York is behind UTC,
	// so naive conversion would land on Sunday the 6th and read closed.
	day := DaySlots(sched, monday, now, nil)

	if day.Date != "2026-09-07" {
		t.Fatalf("date = %s, want 2026-09-07", day.Date)
	}
	if !day.Open {
		t.Fatalf("expected open Monday, got closed with reason %q", day.Reason)
	}
	if got := day.Slots[0].Label; got != "09:00" {
		t.Errorf("first slot = %s, want 09:00", got)
	}
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 9, 7, 9, 0, 0, 0, loc)
	if !day.Slots[0].Start.Equal(want) {
		t.Errorf("first slot start = %v, want %v", day.Slots[0].Start, want)
	}
}

func TestDaySlotsClosedWeekday(t *testing.T) {
	sunday := monday.AddDate(0, 0, -1)
	day := DaySlots(weeklySchedule(), sunday, monday, nil)

	if day.Open {
		t.Fatal("expected closed day")
	}
	if day.Reason != "no working hours" {
		t.Errorf("reason = %q, want %q", day.Reason, "no working hours")
	}
	if len(day.Slots) != 0 {
		t.Errorf("expected no slots, got %d", len(day.Slots))
	}
}

func TestDaySlotsClosedOverrideWins(t *testing.T) {
	sched := weeklySchedule()
	sched.Overrides = []models.DateOverride{
		{Date: "2026-09-07", Closed: true, Reason: "bank holiday"},
	}

	day := DaySlots(sched, monday, monday.Add(-time.Hour), nil)
	if day.Open {
		t.Fatal("closed override must win over the weekly template")
	}
	if day.Reason != "bank holiday" {
		t.Errorf("reason = %q, want %q", day.Reason, "bank holiday")
	}
}

func TestDaySlotsOverrideWindow(t *testing.T) {
	sched := weeklySchedule()
	sched.Overrides = []models.DateOverride{
		{Date: "2026-09-07", Window: &models.DayWindow{Start: "10:00", End: "11:00"}, Note: "reduced staff"},
	}

	day := DaySlots(sched, monday, monday.Add(-time.Hour), nil)
	if !day.Open {
		t.Fatalf("expected open day, got %q", day.Reason)
	}
	if len(day.Slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(day.Slots))
	}
	if day.Slots[0].Label != "10:00" || day.Slots[3].Label != "10:45" {
		t.Errorf("override window not applied: first %s last %s", day.Slots[0].Label, day.Slots[3].Label)
	}
	if day.Note != "reduced staff" {
		t.Errorf("note = %q, want %q", day.Note, "reduced staff")
	}
}

func TestDaySlotsPastCutoff(t *testing.T) {
	now := monday.Add(11*time.Hour + 10*time.Minute) // 11:10 on the day
	day := DaySlots(weeklySchedule(), monday, now, nil)

	for _, sl := range day.Slots {
		started := sl.Start.Before(now)
		if started && sl.Available {
			t.Errorf("slot %s already started but still available", sl.Label)
		}
		if !started && !sl.Available {
			t.Errorf("future slot %s unexpectedly unavailable", sl.Label)
		}
	}
}

func TestDaySlotsCapacity(t *testing.T) {
	sched := weeklySchedule()
	sched.SlotCapacity = 2
	booked := map[string]int{
		"09:00": 2,
		"09:15": 1,
		"09:30": 5, // overbooked upstream; clamp, don't go negative
	}

	day := DaySlots(sched, monday, monday.Add(-time.Hour), booked)

	checks := []struct {
		label     string
		remaining int
		available bool
	}{
		{"09:00", 0, false},
		{"09:15", 1, true},
		{"09:30", 0, false},
		{"09:45", 2, true},
	}
	for i, want := range checks {
		got := day.Slots[i]
		if got.Label != want.label {
			t.Fatalf("slot %d label = %s, want %s", i, got.Label, want.label)
		}
		if got.Remaining != want.remaining {
			t.Errorf("slot %s remaining = %d, want %d", got.Label, got.Remaining, want.remaining)
		}
		if got.Available != want.available {
			t.Errorf("slot %s available = %v, want %v", got.Label, got.Available, want.available)
		}
	}
}

func TestDaySlotsInvalidWindow(t *testing.T) {
	sched := weeklySchedule()
	sched.Weekly["monday"] = models.DayWindow{Start: "17:00", End: "09:00"}

	day := DaySlots(sched, monday, monday, nil)
	if day.Open {
		t.Fatal("inverted window must close the day")
	}
	if day.Reason != "invalid working hours" {
		t.Errorf("reason = %q", day.Reason)
	}
}

func TestDaySlotsDefaultsSlotLength(t *testing.T) {
	sched := weeklySchedule()
	sched.SlotMinutes = 0

	day := DaySlots(sched, monday, monday.Add(-time.Hour), nil)
	if len(day.Slots) != 32 {
		t.Fatalf("expected the 15-minute default, got %d slots", len(day.Slots))
	}
}
