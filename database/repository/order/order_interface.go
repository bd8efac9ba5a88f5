package orderRepo

import (
	"errors"

	"pharmabook/models"
)

// ErrOrderNotFound is returned when no order matches the lookup. The draft
// order coordinator treats it as the only recoverable update failure.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines methods for order data access.
type OrderRepository interface {
	// Create inserts a new order record.
	Create(order *models.Order) error
	// Update applies the mutable draft fields to an existing order.
	// Returns ErrOrderNotFound when the order does not exist.
	Update(id string, upd models.OrderUpdate) error
	// GetByID retrieves an order by its unique ID.
	GetByID(id string) (*models.Order, error)
	// GetByReference retrieves an order by its human-readable reference.
	GetByReference(ref string) (*models.Order, error)
	// MarkPaid sets payment_status to paid and status to confirmed.
	// Idempotent: marking an already-paid order is a no-op.
	MarkPaid(id string) error
	// ListByUser returns the user's orders, newest first.
	ListByUser(userID string) ([]models.Order, error)
}
