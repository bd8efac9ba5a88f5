package cart

import (
	"context"

	"pharmabook/models"
)

// CartService manages the per-user transient cart.
type CartService interface {
	// Get returns the user's cart, empty when none exists.
	Get(ctx context.Context, userID string) (*models.Cart, error)
	// AddItem merges an item into the cart, clamping quantity to stock.
	AddItem(ctx context.Context, userID string, item models.CartItem) (*models.Cart, error)
	// UpdateQuantity sets a line's quantity; 0 or less removes the line.
	UpdateQuantity(ctx context.Context, userID, key string, quantity int) (*models.Cart, error)
	// RemoveItem deletes a line by its identity key.
	RemoveItem(ctx context.Context, userID, key string) (*models.Cart, error)
	// Merge folds the cart stored under fromID into the one under toID and
	// deletes the source. A sign-in hands the guest's session-keyed cart
	// over to the user this way.
	Merge(ctx context.Context, fromID, toID string) (*models.Cart, error)
	// Clear deletes the whole cart.
	Clear(ctx context.Context, userID string) error
}
