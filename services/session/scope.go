package session

import (
	"context"
	"strings"
)

// Global (non-slug-scoped) keys.
const (
	KeyAuthToken = "auth_token"
	KeyUserID    = "user_id"
	KeyServiceID = "service_id"
)

// Slug-scoped key stems. The full key is "<stem>.<slug>".
const (
	stemOrderID        = "order_id"
	stemOrderRef       = "order_ref"
	stemOrderFinalized = "order_finalized"
	stemBookingStep    = "booking_step"
	stemAnswers        = "raf_answers"
	stemAppointment    = "appointment"
)

// bookingStems lists every slug-scoped stem purged on booking completion.
var bookingStems = []string{
	stemOrderID,
	stemOrderRef,
	stemOrderFinalized,
	stemBookingStep,
	stemAnswers,
	stemAppointment,
}

// Scope namespaces a Mirror under one session ID and owns the booking key
// set. All per-booking transient state flows through a Scope so cleanup can
// enumerate exactly what it may remove.
type Scope struct {
	mirror    *Mirror
	sessionID string
}

// NewScope binds a Mirror to a session ID.
func NewScope(mirror *Mirror, sessionID string) *Scope {
	return &Scope{mirror: mirror, sessionID: sessionID}
}

// SessionID returns the bound session identifier.
func (s *Scope) SessionID() string {
	return s.sessionID
}

func (s *Scope) key(name string) string {
	return "bk:" + s.sessionID + ":" + name
}

func slugKey(stem, slug string) string {
	return stem + "." + slug
}

// Get reads a namespaced key through the mirror.
func (s *Scope) Get(ctx context.Context, name string) string {
	val, _ := s.mirror.Get(ctx, s.key(name))
	return val
}

// Set dual-writes a namespaced key through the mirror.
func (s *Scope) Set(ctx context.Context, name, value string) {
	_ = s.mirror.Set(ctx, s.key(name), value)
}

// Del removes namespaced keys through the mirror.
func (s *Scope) Del(ctx context.Context, names ...string) {
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = s.key(n)
	}
	_ = s.mirror.Del(ctx, keys...)
}

// Slug-scoped accessors used across the wizard steps.

func (s *Scope) OrderID(ctx context.Context, slug string) string {
	return s.Get(ctx, slugKey(stemOrderID, slug))
}

func (s *Scope) SetOrderID(ctx context.Context, slug, id string) {
	s.Set(ctx, slugKey(stemOrderID, slug), id)
}

func (s *Scope) OrderRef(ctx context.Context, slug string) string {
	return s.Get(ctx, slugKey(stemOrderRef, slug))
}

func (s *Scope) SetOrderRef(ctx context.Context, slug, ref string) {
	s.Set(ctx, slugKey(stemOrderRef, slug), ref)
}

func (s *Scope) ClearOrder(ctx context.Context, slug string) {
	s.Del(ctx, slugKey(stemOrderID, slug), slugKey(stemOrderRef, slug))
}

// Finalized reports whether the slug's order is finalized: payment succeeded
// and the order id must never be implicitly mutated again.
func (s *Scope) Finalized(ctx context.Context, slug string) bool {
	return s.Get(ctx, slugKey(stemOrderFinalized, slug)) == "1"
}

// SetFinalized marks the slug's order immutable.
func (s *Scope) SetFinalized(ctx context.Context, slug string) {
	s.Set(ctx, slugKey(stemOrderFinalized, slug), "1")
}

func (s *Scope) Step(ctx context.Context, slug string) string {
	return s.Get(ctx, slugKey(stemBookingStep, slug))
}

func (s *Scope) SetStep(ctx context.Context, slug, step string) {
	s.Set(ctx, slugKey(stemBookingStep, slug), step)
}

func (s *Scope) Answers(ctx context.Context, slug string) string {
	return s.Get(ctx, slugKey(stemAnswers, slug))
}

func (s *Scope) SetAnswers(ctx context.Context, slug, answersJSON string) {
	s.Set(ctx, slugKey(stemAnswers, slug), answersJSON)
}

func (s *Scope) Appointment(ctx context.Context, slug string) string {
	return s.Get(ctx, slugKey(stemAppointment, slug))
}

func (s *Scope) SetAppointment(ctx context.Context, slug, apptJSON string) {
	s.Set(ctx, slugKey(stemAppointment, slug), apptJSON)
}

// PurgeBooking removes every slug-scoped transient key plus the global
// service_id handoff key. Authentication keys are explicitly preserved.
func (s *Scope) PurgeBooking(ctx context.Context, slug string) {
	names := make([]string, 0, len(bookingStems)+1)
	for _, stem := range bookingStems {
		names = append(names, slugKey(stem, slug))
	}
	names = append(names, KeyServiceID)
	s.Del(ctx, names...)
}

// IsAuthKey reports whether a key name must survive booking cleanup.
func IsAuthKey(name string) bool {
	return name == KeyAuthToken || name == KeyUserID ||
		strings.HasPrefix(name, KeyAuthToken+".")
}
