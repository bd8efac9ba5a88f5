package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pharmabook/models"
)

// UnlimitedCapacity marks a slot with no remaining-capacity bound.
const UnlimitedCapacity = -1

// DaySlots computes the bookable slots and day metadata for one calendar date
// in the schedule's timezone. The date argument names a calendar day; its own
// location is ignored so a UTC-parsed "2026-09-07" still means September 7th
// in the schedule's zone. Stateless: every call recomputes from the schedule
// definition, so no cross-date memoization is needed.
//
// Resolution order: an explicit per-date override wins over the weekly
// template. A closed override or a weekday with no template hours yields an
// empty slot list with open=false and a reason.
func DaySlots(sched models.Schedule, date time.Time, now time.Time, booked map[string]int) models.DayAvailability {
	loc := location(sched.Timezone)
	midnight := dayStart(date, loc)
	day := models.DayAvailability{
		Date:  midnight.Format("2006-01-02"),
		Slots: []models.Slot{},
	}

	window, note, reason := resolveWindow(sched, day.Date, midnight.Weekday())
	day.Note = note
	if window == nil {
		day.Open = false
		day.Reason = reason
		return day
	}

	startMin, err1 := parseClock(window.Start)
	endMin, err2 := parseClock(window.End)
	if err1 != nil || err2 != nil || endMin <= startMin {
		day.Open = false
		day.Reason = "invalid working hours"
		return day
	}

	slotMin := sched.SlotMinutes
	if slotMin <= 0 {
		slotMin = 15
	}

	day.Open = true

	for m := startMin; m+slotMin <= endMin; m += slotMin {
		start := midnight.Add(time.Duration(m) * time.Minute)
		label := start.Format("15:04")

		slot := models.Slot{
			Start:     start,
			Label:     label,
			Available: true,
			Remaining: UnlimitedCapacity,
		}

		if sched.SlotCapacity > 0 {
			remaining := sched.SlotCapacity - booked[label]
			if remaining < 0 {
				remaining = 0
			}
			slot.Remaining = remaining
			if remaining == 0 {
				slot.Available = false
			}
		}

		// Same-day slots that already started are not bookable.
		if start.Before(now) {
			slot.Available = false
		}

		day.Slots = append(day.Slots, slot)
	}

	return day
}

// resolveWindow picks the working-hours window for a date. Returns a nil
// window with a reason when the day is closed.
func resolveWindow(sched models.Schedule, date string, weekday time.Weekday) (win *models.DayWindow, note, reason string) {
	if ov := sched.OverrideFor(date); ov != nil {
		if ov.Closed {
			reason = ov.Reason
			if reason == "" {
				reason = "closed"
			}
			return nil, ov.Note, reason
		}
		if ov.Window != nil {
			return ov.Window, ov.Note, ""
		}
		// Override present but neither closed nor re-windowed: keep the
		// weekly template, carry the note through.
		note = ov.Note
	}

	w, ok := sched.Weekly[strings.ToLower(weekday.String())]
	if !ok {
		return nil, note, "no working hours"
	}
	return &w, note, ""
}

// parseClock converts "HH:MM" to minutes from midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

// dayStart re-anchors a date's calendar day at midnight in loc.
func dayStart(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
