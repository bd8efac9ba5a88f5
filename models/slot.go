package models

import "time"

// Slot is a single bookable increment derived from a schedule for one date.
// Derived, never persisted.
type Slot struct {
	Start     time.Time `json:"start"`
	Label     string    `json:"label"` // display label, e.g. "09:15"
	Available bool      `json:"available"`
	Remaining int       `json:"remaining"` // -1 = unlimited capacity
}

// DayAvailability is the slot list plus day-level metadata for one date.
type DayAvailability struct {
	Date   string `json:"date"` // "YYYY-MM-DD"
	Open   bool   `json:"open"`
	Reason string `json:"reason,omitempty"` // why the day is closed
	Note   string `json:"note,omitempty"`   // override note when one applies
	Slots  []Slot `json:"slots"`
}
