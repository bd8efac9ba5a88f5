package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	orderRepo "pharmabook/database/repository/order"
	userRepo "pharmabook/database/repository/user"
	"pharmabook/models"
	"pharmabook/services/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCoordinator implements Coordinator. The singleflight group is the
// explicit per-instance registry collapsing duplicate in-flight work for the
// same (slug, user) key.
type DefaultCoordinator struct {
	Orders orderRepo.OrderRepository
	Users  userRepo.UserRepository
	Logger *zap.Logger

	sfg singleflight.Group
}

// NewCoordinator builds a draft order coordinator.
func NewCoordinator(orders orderRepo.OrderRepository, users userRepo.UserRepository, logger *zap.Logger) *DefaultCoordinator {
	return &DefaultCoordinator{Orders: orders, Users: users, Logger: logger}
}

// EnsureDraftOrder ensures exactly one backend order exists for the
// (slug, user) pair and returns its id.
//
// Once a slug is finalized the stored id is returned immediately and no
// mutation of any kind is attempted: a paid order must never be silently
// altered by a stray re-entry into the wizard.
func (c *DefaultCoordinator) EnsureDraftOrder(ctx context.Context, scope *session.Scope, in EnsureInput) (string, error) {
	if err := validate(in); err != nil {
		return "", err
	}

	if scope.Finalized(ctx, in.Slug) {
		id := scope.OrderID(ctx, in.Slug)
		if id == "" {
			return "", ErrFinalizedIDMissing
		}
		return id, nil
	}

	key := in.Slug + "|" + in.UserID
	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		return c.ensure(ctx, scope, in)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func validate(in EnsureInput) error {
	if strings.TrimSpace(in.Slug) == "" {
		return newValidationError("slug", "service slug is required")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return newValidationError("userId", "user id is required")
	}
	if strings.TrimSpace(in.ServiceID) == "" {
		return newValidationError("serviceId", "service id is required")
	}
	if len(in.Items) == 0 {
		return newValidationError("items", "cart is empty")
	}
	if in.Variant != "" && !in.Variant.Valid() {
		return newValidationError("variant", fmt.Sprintf("unknown flow variant %q", in.Variant))
	}
	return nil
}

func (c *DefaultCoordinator) ensure(ctx context.Context, scope *session.Scope, in EnsureInput) (string, error) {
	if in.Variant == "" {
		in.Variant = models.FlowNew
	}

	user, err := c.Users.GetByID(in.UserID)
	if err != nil {
		// The profile only feeds the shipping snapshot; a draft without it
		// is still valid and gets repaired on the next update.
		c.Logger.Warn("could not load user profile for order snapshot",
			zap.String("userId", in.UserID), zap.Error(err))
		user = nil
	}
	meta := buildMeta(ctx, scope, in, user, c.Logger)
	upd := updateFrom(meta, in.Schedule)

	// 1. Cached id: update mutable fields only.
	if cached := scope.OrderID(ctx, in.Slug); cached != "" {
		err := c.Orders.Update(cached, upd)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, orderRepo.ErrOrderNotFound) {
			// Ambiguous failure. Propagate without creating: anything else
			// risks silently multiplying orders.
			return "", fmt.Errorf("draft order update failed: %w", err)
		}
		c.Logger.Info("cached order id vanished upstream, recreating",
			zap.String("slug", in.Slug), zap.String("orderId", cached))
		scope.ClearOrder(ctx, in.Slug)
	}

	// 2. Recover by stored human-readable reference before creating anew.
	if ref := scope.OrderRef(ctx, in.Slug); ref != "" {
		existing, err := c.Orders.GetByReference(ref)
		switch {
		case err == nil && existing.UserID == in.UserID && existing.PaymentStatus == models.PaymentStatusPending:
			scope.SetOrderID(ctx, in.Slug, existing.ID)
			if err := c.Orders.Update(existing.ID, upd); err != nil {
				return "", fmt.Errorf("recovered order update failed: %w", err)
			}
			return existing.ID, nil
		case err != nil && !errors.Is(err, orderRepo.ErrOrderNotFound):
			return "", fmt.Errorf("order recovery by reference failed: %w", err)
		}
	}

	// 3. Create a fresh draft.
	ord := &models.Order{
		ID:            uuid.New().String(),
		Reference:     newReference(),
		UserID:        in.UserID,
		ServiceID:     in.ServiceID,
		ServiceSlug:   in.Slug,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Meta:          meta,
	}
	applySchedule(ord, in.Schedule)

	if err := c.Orders.Create(ord); err != nil {
		return "", fmt.Errorf("draft order create failed: %w", err)
	}

	scope.SetOrderID(ctx, in.Slug, ord.ID)
	scope.SetOrderRef(ctx, in.Slug, ord.Reference)
	c.Logger.Info("draft order created",
		zap.String("slug", in.Slug),
		zap.String("orderId", ord.ID),
		zap.String("reference", ord.Reference))
	return ord.ID, nil
}

func updateFrom(meta models.OrderMeta, ref *ScheduleRef) models.OrderUpdate {
	upd := models.OrderUpdate{Meta: meta}
	if ref != nil {
		upd.ScheduleID = ref.ScheduleID
		upd.StartTime = ref.Start
		upd.EndTime = ref.End
	}
	return upd
}

func applySchedule(ord *models.Order, ref *ScheduleRef) {
	if ref == nil {
		return
	}
	ord.ScheduleID = ref.ScheduleID
	ord.StartTime = ref.Start
	ord.EndTime = ref.End
}

// newReference mints a short human-readable order reference, e.g. "PB-3F9A2C".
func newReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "PB-" + id[:6]
}

// AwaitPaid polls the order until its payment status is paid, bounded by a
// fixed interval and attempt budget. Used when the gateway confirms
// asynchronously.
func (c *DefaultCoordinator) AwaitPaid(ctx context.Context, orderID string, interval time.Duration, maxAttempts int) (bool, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ord, err := c.Orders.GetByID(orderID)
		if err != nil {
			return false, err
		}
		if ord.PaymentStatus == models.PaymentStatusPaid {
			return true, nil
		}
		if attempt == maxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(interval):
		}
	}
	return false, nil
}
