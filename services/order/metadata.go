package order

import (
	"context"
	"encoding/json"

	"pharmabook/models"
	"pharmabook/services/session"
	"pharmabook/utils"

	"go.uber.org/zap"
)

// buildMeta assembles the typed order metadata snapshot from the cart, the
// user profile and the slug-scoped questionnaire answers.
//
// Shipping resolution rule: use the shipping override when present, else
// fall back to the primary address.
func buildMeta(ctx context.Context, scope *session.Scope, in EnsureInput, user *models.User, logger *zap.Logger) models.OrderMeta {
	lines := make([]models.OrderLine, 0, len(in.Items))
	var subtotal int64
	for _, it := range in.Items {
		line := models.OrderLine{
			Key:       it.Key(),
			Name:      it.Name,
			Variation: it.Variation,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal(),
		}
		subtotal += line.LineTotal
		lines = append(lines, line)
	}
	total := subtotal + in.DeliveryFee

	meta := models.OrderMeta{
		Variant:       in.Variant,
		Lines:         lines,
		Subtotal:      subtotal,
		DeliveryFee:   in.DeliveryFee,
		Total:         total,
		SubtotalMajor: utils.MinorToMajor(subtotal),
		TotalMajor:    utils.MinorToMajor(total),
	}

	if user != nil {
		if addr := shippingAddress(user); addr != nil {
			meta.Shipping = &models.ShippingSnapshot{
				Name:     user.Name,
				Line1:    addr.Line1,
				Line2:    addr.Line2,
				City:     addr.City,
				Postcode: addr.Postcode,
				Country:  addr.Country,
			}
		}
	}

	if raw := scope.Answers(ctx, in.Slug); raw != "" {
		var answers map[string]string
		if err := json.Unmarshal([]byte(raw), &answers); err != nil {
			logger.Warn("discarding unparseable questionnaire answers",
				zap.String("slug", in.Slug), zap.Error(err))
		} else {
			meta.Answers = answers
		}
	}

	return meta
}

func shippingAddress(user *models.User) *models.Address {
	if user.ShippingAddress != nil {
		return user.ShippingAddress
	}
	return user.Address
}
