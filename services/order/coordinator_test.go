package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	orderRepo "pharmabook/database/repository/order"
	"pharmabook/models"
	"pharmabook/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockOrderRepo struct {
	m      sync.Mutex
	orders map[string]*models.Order

	creates     int
	updates     int
	createDelay time.Duration
	updateErr   error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: map[string]*models.Order{}}
}

func (r *mockOrderRepo) Create(ord *models.Order) error {
	if r.createDelay > 0 {
		time.Sleep(r.createDelay)
	}
	r.m.Lock()
	defer r.m.Unlock()
	r.creates++
	cp := *ord
	r.orders[ord.ID] = &cp
	return nil
}

func (r *mockOrderRepo) Update(id string, upd models.OrderUpdate) error {
	r.m.Lock()
	defer r.m.Unlock()
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	ord, ok := r.orders[id]
	if !ok {
		return orderRepo.ErrOrderNotFound
	}
	ord.Meta = upd.Meta
	return nil
}

func (r *mockOrderRepo) GetByID(id string) (*models.Order, error) {
	r.m.Lock()
	defer r.m.Unlock()
	ord, ok := r.orders[id]
	if !ok {
		return nil, orderRepo.ErrOrderNotFound
	}
	cp := *ord
	return &cp, nil
}

func (r *mockOrderRepo) GetByReference(ref string) (*models.Order, error) {
	r.m.Lock()
	defer r.m.Unlock()
	for _, ord := range r.orders {
		if ord.Reference == ref {
			cp := *ord
			return &cp, nil
		}
	}
	return nil, orderRepo.ErrOrderNotFound
}

func (r *mockOrderRepo) MarkPaid(id string) error {
	r.m.Lock()
	defer r.m.Unlock()
	ord, ok := r.orders[id]
	if !ok {
		return orderRepo.ErrOrderNotFound
	}
	ord.PaymentStatus = models.PaymentStatusPaid
	ord.Status = models.OrderStatusConfirmed
	return nil
}

func (r *mockOrderRepo) ListByUser(userID string) ([]models.Order, error) {
	r.m.Lock()
	defer r.m.Unlock()
	var out []models.Order
	for _, ord := range r.orders {
		if ord.UserID == userID {
			out = append(out, *ord)
		}
	}
	return out, nil
}

type mockUserRepo struct {
	user *models.User
}

func (r *mockUserRepo) GetByID(string) (*models.User, error) {
	if r.user == nil {
		return nil, errors.New("user lookup unavailable")
	}
	return r.user, nil
}
func (r *mockUserRepo) GetByEmail(string) (*models.User, error)     { return r.user, nil }
func (r *mockUserRepo) GetByTokenHash(string) (*models.User, error) { return r.user, nil }
func (r *mockUserRepo) Create(*models.User) error                   { return nil }
func (r *mockUserRepo) Update(*models.User) error                   { return nil }
func (r *mockUserRepo) SetTokenHash(string, string) error           { return nil }

func testScope(t *testing.T) *session.Scope {
	t.Helper()
	mirror := session.NewMirror(zap.NewNop(), session.NewMemoryStore())
	return session.NewScope(mirror, "sess-1")
}

func testInput() EnsureInput {
	return EnsureInput{
		Slug:      "acid-reflux",
		UserID:    "u1",
		ServiceID: "svc1",
		Items: []models.CartItem{
			{SKU: "OME20", Name: "Omeprazole", Variation: "20mg", Quantity: 2, UnitPrice: 500},
		},
		DeliveryFee: 299,
	}
}

func newTestCoordinator(repo *mockOrderRepo) *DefaultCoordinator {
	return NewCoordinator(repo, &mockUserRepo{}, zap.NewNop())
}

func TestEnsureDraftOrderCreatesOnce(t *testing.T) {
	repo := newMockOrderRepo()
	repo.createDelay = 20 * time.Millisecond
	coord := newTestCoordinator(repo)
	scope := testScope(t)
	ctx := context.Background()

	const callers = 8
	ids := make([]string, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = coord.EnsureDraftOrder(ctx, scope, testInput())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 1, repo.creates, "concurrent calls must collapse onto one create")
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, ids[0], scope.OrderID(ctx, "acid-reflux"))
	assert.NotEmpty(t, scope.OrderRef(ctx, "acid-reflux"))
}

func TestEnsureDraftOrderUpdatesExisting(t *testing.T) {
	repo := newMockOrderRepo()
	coord := newTestCoordinator(repo)
	scope := testScope(t)
	ctx := context.Background()

	first, err := coord.EnsureDraftOrder(ctx, scope, testInput())
	require.NoError(t, err)

	in := testInput()
	in.Items = append(in.Items, models.CartItem{SKU: "RAN150", Name: "Ranitidine", Quantity: 1, UnitPrice: 750})
	second, err := coord.EnsureDraftOrder(ctx, scope, in)
	require.NoError(t, err)

	assert.Equal(t, first, second, "a second ensure must reuse the draft")
	assert.Equal(t, 1, repo.creates)

	ord, err := repo.GetByID(first)
	require.NoError(t, err)
	assert.Len(t, ord.Meta.Lines, 2)
	assert.Equal(t, int64(2*500+750+299), ord.Meta.Total)
}

func TestEnsureDraftOrderFinalizedIsImmutable(t *testing.T) {
	repo := newMockOrderRepo()
	coord := newTestCoordinator(repo)
	scope := testScope(t)
	ctx := context.Background()

	id, err := coord.EnsureDraftOrder(ctx, scope, testInput())
	require.NoError(t, err)
	scope.SetFinalized(ctx, "acid-reflux")

	updatesBefore := repo.updates
	in := testInput()
	in.Items[0].Quantity = 99
	got, err := coord.EnsureDraftOrder(ctx, scope, in)
	require.NoError(t, err)

	assert.Equal(t, id, got)
	assert.Equal(t, updatesBefore, repo.updates, "finalized orders must never be touched")
	assert.Equal(t, 1, repo.creates)
}

func TestEnsureDraftOrderFinalizedWithoutID(t *testing.T) {
	repo := newMockOrderRepo()
	coord := newTestCoordinator(repo)
	scope := testScope(t)
	ctx := context.Background()

	scope.SetFinalized(ctx, "acid-reflux")

	_, err := coord.EnsureDraftOrder(ctx, scope, testInput())
	assert.ErrorIs(t, err, ErrFinalizedIDMissing)
	assert.Equal(t, 0, repo.creates)
}

func TestEnsureDraftOrderRecreatesWhenVanished(t *testing.T) {
	repo := newMockOrderRepo()
	coord := newTestCoordinator(repo)
	scope := testScope(t)
	ctx := context.Background()

	first, err := coord.EnsureDraftOrder(ctx, scope, testInput())
	require.NoError(t, err)

	// The order disappears upstream, together with its reference.
	repo.m.Lock()
	delete(repo.orders, first)
	repo.m.Unlock()

	second, err := coord.EnsureDraftOrder(ctx, scope, testInput())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, repo.creates)
	assert.Equal(t, second, scope.OrderID(ctx, "acid-reflux"))
}

func TestEnsureDraftOrderPropagatesAmbiguousUpdateFailure(t *testing.T) {
	repo := newMockOrderRepo()
	coord := newTestCoordinator(repo)
	scope := testScope(t)
	ctx := context.Background()

	_, err := coord.EnsureDraftOrder(ctx, scope, testInput())
	require.NoError(t, err)

	repo.updateErr = errors.New("backend timeout")
	_, err = coord.EnsureDraftOrder(ctx, scope, testInput())
	require.Error(t, err)
	assert.Equal(t, 1, repo.creates, "an ambiguous update failure must not spawn a new order")
	assert.NotEmpty(t, scope.OrderID(ctx, "acid-reflux"), "the cached id survives an ambiguous failure")
}

func TestEnsureDraftOrderRecoversByReference(t *testing.T) {
	repo := newMockOrderRepo()
	coord := newTestCoordinator(repo)
	scope := testScope(t)
	ctx := context.Background()

	first, err := coord.EnsureDraftOrder(ctx, scope, testInput())
	require.NoError(t, err)
	ref := scope.OrderRef(ctx, "acid-reflux")
	require.NotEmpty(t, ref)

	// The id is lost client-side but the reference survives.
	scope.SetOrderID(ctx, "acid-reflux", "")

	second, err := coord.EnsureDraftOrder(ctx, scope, testInput())
	require.NoError(t, err)

	assert.Equal(t, first, second, "the draft must be re-adopted via its reference")
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, first, scope.OrderID(ctx, "acid-reflux"))
}

func TestEnsureDraftOrderValidation(t *testing.T) {
	repo := newMockOrderRepo()
	coord := newTestCoordinator(repo)
	scope := testScope(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*EnsureInput)
	}{
		{"missing slug", func(in *EnsureInput) { in.Slug = "" }},
		{"missing user", func(in *EnsureInput) { in.UserID = "" }},
		{"missing service", func(in *EnsureInput) { in.ServiceID = "" }},
		{"empty cart", func(in *EnsureInput) { in.Items = nil }},
		{"bad variant", func(in *EnsureInput) { in.Variant = "subscription" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := testInput()
			tc.mutate(&in)
			_, err := coord.EnsureDraftOrder(ctx, scope, in)
			assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
		})
	}
	assert.Equal(t, 0, repo.creates, "validation failures must never reach the repository")
}

func TestAwaitPaid(t *testing.T) {
	repo := newMockOrderRepo()
	coord := newTestCoordinator(repo)
	scope := testScope(t)
	ctx := context.Background()

	id, err := coord.EnsureDraftOrder(ctx, scope, testInput())
	require.NoError(t, err)

	paid, err := coord.AwaitPaid(ctx, id, time.Millisecond, 3)
	require.NoError(t, err)
	assert.False(t, paid, "a pending order must exhaust the attempt budget")

	require.NoError(t, repo.MarkPaid(id))
	paid, err = coord.AwaitPaid(ctx, id, time.Millisecond, 3)
	require.NoError(t, err)
	assert.True(t, paid)
}

func TestAwaitPaidReturnsWithoutFinalSleep(t *testing.T) {
	repo := newMockOrderRepo()
	coord := newTestCoordinator(repo)
	scope := testScope(t)
	ctx := context.Background()

	id, err := coord.EnsureDraftOrder(ctx, scope, testInput())
	require.NoError(t, err)

	start := time.Now()
	paid, err := coord.AwaitPaid(ctx, id, 500*time.Millisecond, 1)
	require.NoError(t, err)
	assert.False(t, paid)
	assert.Less(t, time.Since(start), 250*time.Millisecond,
		"the attempt budget is exhausted by the check itself, not a trailing wait")
}
