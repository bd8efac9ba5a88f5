package flow

import (
	"context"

	"pharmabook/services/session"

	"go.uber.org/zap"
)

// Step is a named stage of the booking wizard.
type Step string

const (
	StepTreatments    Step = "treatments"
	StepLogin         Step = "login"
	StepQuestionnaire Step = "questionnaire"
	StepCalendar      Step = "calendar"
	StepPayment       Step = "payment"
	StepSuccess       Step = "success"
)

// baseSequence is the full ordered step list, login included.
var baseSequence = []Step{
	StepTreatments,
	StepLogin,
	StepQuestionnaire,
	StepCalendar,
	StepPayment,
	StepSuccess,
}

// Sequence returns the ordered steps for a session. The login step is
// structurally removed when already authenticated; it is never visited,
// not skipped at runtime.
func Sequence(authenticated bool) []Step {
	if !authenticated {
		return baseSequence
	}
	seq := make([]Step, 0, len(baseSequence)-1)
	for _, s := range baseSequence {
		if s != StepLogin {
			seq = append(seq, s)
		}
	}
	return seq
}

// afterLogin is the step the machine force-advances to when authentication
// completes while sitting on the login step.
func afterLogin() Step {
	for i, s := range baseSequence {
		if s == StepLogin {
			return baseSequence[i+1]
		}
	}
	return baseSequence[0]
}

func indexOf(seq []Step, step Step) int {
	for i, s := range seq {
		if s == step {
			return i
		}
	}
	return -1
}

// State is the guard context for a transition attempt.
type State struct {
	Authenticated bool
	CartEmpty     bool
}

// Machine sequences the wizard steps for one session, persisting the current
// step per service slug after every transition.
type Machine struct {
	Logger *zap.Logger
}

// NewMachine builds a booking flow machine.
func NewMachine(logger *zap.Logger) *Machine {
	return &Machine{Logger: logger}
}

// Current restores the persisted step for a slug, repairing auth drift:
// a restored login step while authenticated advances; a restored
// non-initial, non-login step while unauthenticated falls back to login.
func (m *Machine) Current(ctx context.Context, scope *session.Scope, slug string, st State) Step {
	seq := Sequence(st.Authenticated)
	stored := Step(scope.Step(ctx, slug))

	if stored == "" {
		return seq[0]
	}

	if st.Authenticated && stored == StepLogin {
		repaired := afterLogin()
		scope.SetStep(ctx, slug, string(repaired))
		return repaired
	}

	if !st.Authenticated && stored != StepTreatments && stored != StepLogin {
		scope.SetStep(ctx, slug, string(StepLogin))
		return StepLogin
	}

	if indexOf(seq, stored) < 0 {
		// Unknown or structurally removed step: restart the wizard.
		scope.SetStep(ctx, slug, string(seq[0]))
		return seq[0]
	}
	return stored
}

// Advance moves forward one step, enforcing the origin step's guard. A
// blocked transition returns a BlockedError and leaves state unchanged.
// Entering success triggers the one-time purge of slug-scoped transient keys.
func (m *Machine) Advance(ctx context.Context, scope *session.Scope, slug string, st State) (Step, error) {
	current := m.Current(ctx, scope, slug, st)
	seq := Sequence(st.Authenticated)

	if err := guard(current, st); err != nil {
		return current, err
	}

	idx := indexOf(seq, current)
	if idx < 0 || idx == len(seq)-1 {
		return current, nil
	}

	next := seq[idx+1]
	m.enter(ctx, scope, slug, next)
	return next, nil
}

// Back moves one step backward. No guard applies while not on the first step.
func (m *Machine) Back(ctx context.Context, scope *session.Scope, slug string, st State) Step {
	current := m.Current(ctx, scope, slug, st)
	seq := Sequence(st.Authenticated)

	idx := indexOf(seq, current)
	if idx <= 0 {
		return current
	}

	prev := seq[idx-1]
	scope.SetStep(ctx, slug, string(prev))
	return prev
}

// OnAuthenticated handles the external login-completed event: if the current
// step is login, force-transition to the step following login in the base
// sequence without a separate user action.
func (m *Machine) OnAuthenticated(ctx context.Context, scope *session.Scope, slug string) Step {
	stored := Step(scope.Step(ctx, slug))
	if stored != StepLogin {
		return stored
	}
	next := afterLogin()
	m.enter(ctx, scope, slug, next)
	return next
}

// enter persists the new step and runs entry side effects.
func (m *Machine) enter(ctx context.Context, scope *session.Scope, slug string, step Step) {
	scope.SetStep(ctx, slug, string(step))
	if step == StepSuccess {
		// Purge transient booking state; auth keys survive. The step key is
		// part of the purge set, which also makes the side effect one-shot.
		scope.PurgeBooking(ctx, slug)
		m.Logger.Info("booking completed, transient state purged", zap.String("slug", slug))
	}
}

// guard enforces the per-origin-step forward preconditions.
func guard(from Step, st State) error {
	switch from {
	case StepTreatments:
		if st.CartEmpty {
			return NewBlockedError("add at least one treatment to continue")
		}
	case StepLogin:
		if !st.Authenticated {
			return NewBlockedError("sign in to continue")
		}
	}
	return nil
}
