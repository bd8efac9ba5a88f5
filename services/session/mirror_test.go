package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// faultyStore fails every operation, standing in for an unreachable backend.
type faultyStore struct{}

var errDown = errors.New("backend unavailable")

func (faultyStore) Get(context.Context, string) (string, error)    { return "", errDown }
func (faultyStore) Set(context.Context, string, string) error      { return errDown }
func (faultyStore) Del(context.Context, ...string) error           { return errDown }
func (faultyStore) Keys(context.Context, string) ([]string, error) { return nil, errDown }

func TestMirrorDualWrite(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	fallback := NewMemoryStore()
	m := NewMirror(zap.NewNop(), primary, fallback)

	require.NoError(t, m.Set(ctx, "k", "v"))

	got, err := primary.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	got, err = fallback.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got, "writes must reach every backend")
}

func TestMirrorFallbackRead(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	fallback := NewMemoryStore()
	m := NewMirror(zap.NewNop(), primary, fallback)

	// Only the fallback holds the value, e.g. after the primary was flushed.
	require.NoError(t, fallback.Set(ctx, "k", "v"))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMirrorPrimaryWinsWhenBothHold(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	fallback := NewMemoryStore()
	m := NewMirror(zap.NewNop(), primary, fallback)

	require.NoError(t, primary.Set(ctx, "k", "new"))
	require.NoError(t, fallback.Set(ctx, "k", "stale"))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestMirrorSurvivesBackendFailure(t *testing.T) {
	ctx := context.Background()
	healthy := NewMemoryStore()
	m := NewMirror(zap.NewNop(), faultyStore{}, healthy)

	require.NoError(t, m.Set(ctx, "k", "v"), "a failing backend must not surface")

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got, "the healthy backend still serves reads")

	require.NoError(t, m.Del(ctx, "k"))
	got, _ = m.Get(ctx, "k")
	assert.Empty(t, got)
}

func TestMirrorKeysMerged(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	fallback := NewMemoryStore()
	m := NewMirror(zap.NewNop(), primary, fallback)

	require.NoError(t, primary.Set(ctx, "bk:s1:a", "1"))
	require.NoError(t, fallback.Set(ctx, "bk:s1:b", "2"))
	require.NoError(t, fallback.Set(ctx, "bk:s1:a", "1")) // duplicated across backends
	require.NoError(t, primary.Set(ctx, "other:s1:c", "3"))

	keys, err := m.Keys(ctx, "bk:s1:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bk:s1:a", "bk:s1:b"}, keys)
}

func TestScopeNamespacesBySession(t *testing.T) {
	ctx := context.Background()
	m := NewMirror(zap.NewNop(), NewMemoryStore())

	a := NewScope(m, "sess-a")
	b := NewScope(m, "sess-b")

	a.SetOrderID(ctx, "hair-loss", "o1")
	assert.Equal(t, "o1", a.OrderID(ctx, "hair-loss"))
	assert.Empty(t, b.OrderID(ctx, "hair-loss"), "sessions must not see each other's state")
}

func TestScopeSlugIsolation(t *testing.T) {
	ctx := context.Background()
	scope := NewScope(NewMirror(zap.NewNop(), NewMemoryStore()), "sess-1")

	scope.SetOrderID(ctx, "hair-loss", "o1")
	scope.SetOrderID(ctx, "acid-reflux", "o2")
	scope.SetFinalized(ctx, "hair-loss")

	assert.Equal(t, "o1", scope.OrderID(ctx, "hair-loss"))
	assert.Equal(t, "o2", scope.OrderID(ctx, "acid-reflux"))
	assert.True(t, scope.Finalized(ctx, "hair-loss"))
	assert.False(t, scope.Finalized(ctx, "acid-reflux"), "finalization is per service slug")

	// Purging one slug leaves the other booking untouched.
	scope.PurgeBooking(ctx, "hair-loss")
	assert.Empty(t, scope.OrderID(ctx, "hair-loss"))
	assert.False(t, scope.Finalized(ctx, "hair-loss"))
	assert.Equal(t, "o2", scope.OrderID(ctx, "acid-reflux"))
}

func TestIsAuthKey(t *testing.T) {
	assert.True(t, IsAuthKey(KeyAuthToken))
	assert.True(t, IsAuthKey(KeyUserID))
	assert.False(t, IsAuthKey(KeyServiceID))
	assert.False(t, IsAuthKey("booking_step.hair-loss"))
}
