package order

import (
	"context"
	"testing"

	"pharmabook/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBuildMetaTotals(t *testing.T) {
	scope := testScope(t)
	in := EnsureInput{
		Slug: "acid-reflux",
		Items: []models.CartItem{
			{SKU: "OME20", Name: "Omeprazole", Variation: "20mg", Quantity: 2, UnitPrice: 500},
			{SKU: "GAV1", Name: "Gaviscon", Quantity: 1, UnitPrice: 749},
		},
		DeliveryFee: 299,
	}

	meta := buildMeta(context.Background(), scope, in, nil, zap.NewNop())

	assert.Equal(t, int64(1749), meta.Subtotal)
	assert.Equal(t, int64(2048), meta.Total)
	assert.Equal(t, "17.49", meta.SubtotalMajor)
	assert.Equal(t, "20.48", meta.TotalMajor)

	assert.Len(t, meta.Lines, 2)
	assert.Equal(t, "OME20", meta.Lines[0].Key)
	assert.Equal(t, int64(1000), meta.Lines[0].LineTotal)
	assert.Nil(t, meta.Shipping)
}

func TestBuildMetaShippingResolution(t *testing.T) {
	scope := testScope(t)
	in := testInput()

	primary := &models.Address{Line1: "1 Home St", City: "Leeds", Postcode: "LS1 1AA", Country: "GB"}
	override := &models.Address{Line1: "2 Work Rd", City: "York", Postcode: "YO1 1BB", Country: "GB"}

	t.Run("override wins", func(t *testing.T) {
		user := &models.User{Name: "Pat", Address: primary, ShippingAddress: override}
		meta := buildMeta(context.Background(), scope, in, user, zap.NewNop())
		assert.Equal(t, "2 Work Rd", meta.Shipping.Line1)
		assert.Equal(t, "Pat", meta.Shipping.Name)
	})

	t.Run("falls back to primary", func(t *testing.T) {
		user := &models.User{Name: "Pat", Address: primary}
		meta := buildMeta(context.Background(), scope, in, user, zap.NewNop())
		assert.Equal(t, "1 Home St", meta.Shipping.Line1)
	})

	t.Run("no address at all", func(t *testing.T) {
		meta := buildMeta(context.Background(), scope, in, &models.User{Name: "Pat"}, zap.NewNop())
		assert.Nil(t, meta.Shipping)
	})
}

func TestBuildMetaAnswers(t *testing.T) {
	ctx := context.Background()
	in := testInput()

	t.Run("carried from session", func(t *testing.T) {
		scope := testScope(t)
		scope.SetAnswers(ctx, in.Slug, `{"pregnant":"no","allergies":"penicillin"}`)

		meta := buildMeta(ctx, scope, in, nil, zap.NewNop())
		assert.Equal(t, "no", meta.Answers["pregnant"])
		assert.Equal(t, "penicillin", meta.Answers["allergies"])
	})

	t.Run("unparseable answers discarded", func(t *testing.T) {
		scope := testScope(t)
		scope.SetAnswers(ctx, in.Slug, `{"pregnant":`)

		meta := buildMeta(ctx, scope, in, nil, zap.NewNop())
		assert.Nil(t, meta.Answers)
	})
}
