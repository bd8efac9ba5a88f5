package order

import (
	"context"
	"time"

	"pharmabook/models"
	"pharmabook/services/session"
)

// ScheduleRef carries the optional appointment selection attached to a draft.
type ScheduleRef struct {
	ScheduleID string
	Start      *time.Time
	End        *time.Time
}

// EnsureInput is the (service, user, cart) tuple the coordinator keeps a
// single draft order in sync for.
type EnsureInput struct {
	Slug        string
	UserID      string
	ServiceID   string
	Items       []models.CartItem
	DeliveryFee int64 // minor units, from the service definition
	Schedule    *ScheduleRef
	Variant     models.FlowVariant
}

// Coordinator guarantees at most one backend order per (service slug, user)
// pair during an active booking session.
type Coordinator interface {
	// EnsureDraftOrder creates or updates the single draft order for the
	// input tuple and returns its id. Concurrent calls for the same
	// (slug, user) collapse onto one execution.
	EnsureDraftOrder(ctx context.Context, scope *session.Scope, in EnsureInput) (string, error)
}
