package models

// DayWindow is a working-hours window expressed as "HH:MM" strings in the
// schedule's timezone.
type DayWindow struct {
	Start string `bson:"start" json:"start"` // e.g. "09:00"
	End   string `bson:"end" json:"end"`     // e.g. "17:00"
}

// DateOverride adjusts or closes a specific calendar date, taking precedence
// over the weekly template.
type DateOverride struct {
	Date   string     `bson:"date" json:"date"` // "YYYY-MM-DD"
	Closed bool       `bson:"closed" json:"closed"`
	Reason string     `bson:"reason,omitempty" json:"reason,omitempty"` // shown when closed
	Window *DayWindow `bson:"window,omitempty" json:"window,omitempty"` // replacement hours when open
	Note   string     `bson:"note,omitempty" json:"note,omitempty"`     // day-level note, e.g. "reduced staff"
}

// Schedule defines bookable hours for a service. Read-only from the booking
// flow's perspective.
type Schedule struct {
	ID           string               `bson:"id" json:"id"`
	Name         string               `bson:"name" json:"name"`
	ServiceSlug  string               `bson:"service_slug" json:"service_slug"`
	Timezone     string               `bson:"timezone" json:"timezone"`           // IANA name, e.g. "Europe/London"
	SlotMinutes  int                  `bson:"slot_minutes" json:"slot_minutes"`   // slot duration
	SlotCapacity int                  `bson:"slot_capacity" json:"slot_capacity"` // per slot; 0 = unlimited
	Weekly       map[string]DayWindow `bson:"weekly" json:"weekly"`               // keyed by lowercase weekday name
	Overrides    []DateOverride       `bson:"overrides,omitempty" json:"overrides,omitempty"`
}

// OverrideFor returns the override applying to date ("YYYY-MM-DD"), if any.
func (s Schedule) OverrideFor(date string) *DateOverride {
	for i := range s.Overrides {
		if s.Overrides[i].Date == date {
			return &s.Overrides[i]
		}
	}
	return nil
}
