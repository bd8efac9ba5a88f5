package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"pharmabook/models"
	"pharmabook/services/cart"
	"pharmabook/services/flow"
	"pharmabook/services/session"
	"pharmabook/services/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The wizard's anonymous path: a guest fills the cart under the session id,
// then signs in. The sign-in hook must hand the cart to the user id and move
// a persisted login step forward, or the cart reads empty from then on and
// the draft-order sync rejects the booking.
func TestOnSignedInCarriesGuestCartAndAdvances(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const (
		sid  = "11111111-2222-3333-4444-555555555555"
		slug = "acid-reflux"
	)

	mr := miniredis.RunT(t)
	cartSvc := cart.NewRedisCartService(redis.NewClient(&redis.Options{Addr: mr.Addr()}), zap.NewNop())
	mirror := session.NewMirror(zap.NewNop(), session.NewMemoryStore())

	h := &UserHandler{
		Sessions: mirror,
		Cart:     cartSvc,
		Flow:     flow.NewMachine(zap.NewNop()),
	}

	ctx := context.Background()
	_, err := cartSvc.AddItem(ctx, sid, models.CartItem{
		SKU: "OME20", Name: "Omeprazole", Quantity: 2, UnitPrice: 500,
	})
	require.NoError(t, err)

	scope := session.NewScope(mirror, sid)
	scope.SetStep(ctx, slug, string(flow.StepLogin))

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("sessionID", sid)

	res := &user.AuthResult{User: &models.User{ID: "u1"}, Token: "tok-1"}
	step := h.onSignedIn(c, res, slug)

	assert.Equal(t, string(flow.StepQuestionnaire), step)
	assert.Equal(t, "u1", scope.Get(ctx, session.KeyUserID))
	assert.Equal(t, "tok-1", scope.Get(ctx, session.KeyAuthToken))

	crt, err := cartSvc.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, crt.Items, 1, "the guest cart must be visible under the user id after sign-in")
	assert.Equal(t, 2, crt.Items[0].Quantity)
}
