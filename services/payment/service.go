package payment

import (
	"context"
	"fmt"
	"time"

	orderRepo "pharmabook/database/repository/order"
	userRepo "pharmabook/database/repository/user"
	"pharmabook/models"
	"pharmabook/services/cart"
	"pharmabook/services/notification"
	"pharmabook/services/session"
	"pharmabook/services/tasks"
	"pharmabook/utils"

	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// GatewayStatus is the payment provider's reported outcome.
type GatewayStatus string

const (
	StatusApproved GatewayStatus = "Approved"
	StatusCaptured GatewayStatus = "Captured"
	StatusDeclined GatewayStatus = "Declined"
	StatusError    GatewayStatus = "Error"
)

// Succeeded reports whether the gateway considers the payment taken.
func (s GatewayStatus) Succeeded() bool {
	return s == StatusApproved || s == StatusCaptured
}

// Enqueuer is the slice of asynq.Client the coordinator needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AppointmentConfirmer persists the appointment record for a paid order.
type AppointmentConfirmer interface {
	ConfirmAppointment(ord *models.Order) (*models.Appointment, error)
}

// PaymentService negotiates gateway sessions and orchestrates the
// post-payment confirmation sequence.
type PaymentService interface {
	// CreateSession creates a gateway payment session for a draft order and
	// returns the client secret the frontend hands to the payment SDK.
	CreateSession(ctx context.Context, orderID string) (string, error)
	// Confirm runs the confirmation sequence for a successful payment.
	Confirm(ctx context.Context, scope *session.Scope, slug, orderID string, status GatewayStatus) error
}

// DefaultPaymentService implements PaymentService with Stripe as the gateway.
type DefaultPaymentService struct {
	Orders       orderRepo.OrderRepository
	Users        userRepo.UserRepository
	Cart         cart.CartService
	Notifier     notification.NotificationService
	Appointments AppointmentConfirmer
	Queue        Enqueuer
	Currency     string
	Logger       *zap.Logger
}

// CreateSession creates a Stripe PaymentIntent for the draft order's total.
func (s *DefaultPaymentService) CreateSession(ctx context.Context, orderID string) (string, error) {
	ord, err := s.Orders.GetByID(orderID)
	if err != nil {
		return "", fmt.Errorf("payment session: %w", err)
	}
	if ord.PaymentStatus == models.PaymentStatusPaid {
		return "", fmt.Errorf("order %s is already paid", orderID)
	}
	if ord.Meta.Total <= 0 {
		return "", fmt.Errorf("order %s has no payable total", orderID)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(ord.Meta.Total),
		Currency: stripe.String(s.Currency),
	}
	params.AddMetadata("order_id", ord.ID)
	params.AddMetadata("order_reference", ord.Reference)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}

// Confirm runs the confirmation sequence once the gateway reports success.
//
// Nothing after the gateway's success report may revert the payment-confirmed
// state: marking paid, finalizing, cart clearing and notification are all
// best-effort with failures logged, never surfaced as blocking errors.
func (s *DefaultPaymentService) Confirm(ctx context.Context, scope *session.Scope, slug, orderID string, status GatewayStatus) error {
	if !status.Succeeded() {
		return fmt.Errorf("payment not successful: gateway reported %s", status)
	}

	// 1. Mark paid (idempotent).
	if err := s.Orders.MarkPaid(orderID); err != nil {
		s.Logger.Error("failed to mark order paid; continuing confirmation",
			zap.String("orderId", orderID), zap.Error(err))
	}

	// 2. Finalize before any further navigation can touch the draft.
	scope.SetFinalized(ctx, slug)

	ord, err := s.Orders.GetByID(orderID)
	if err != nil {
		// Without the order document there is nothing to invoice, but the
		// payment still stands.
		s.Logger.Error("failed to reload order after payment",
			zap.String("orderId", orderID), zap.Error(err))
		return nil
	}

	// 3. Clear the cart.
	if err := s.Cart.Clear(ctx, ord.UserID); err != nil {
		s.Logger.Warn("failed to clear cart after payment",
			zap.String("userId", ord.UserID), zap.Error(err))
	}

	// 4. Appointment record, invoice + confirmation email, reminder.
	var appt *models.Appointment
	if s.Appointments != nil {
		if appt, err = s.Appointments.ConfirmAppointment(ord); err != nil {
			s.Logger.Error("failed to persist appointment after payment",
				zap.String("orderId", ord.ID), zap.Error(err))
		}
	}
	s.sendConfirmation(ctx, ord)
	s.scheduleReminder(ord, appt)

	return nil
}

// sendConfirmation emails the invoice. First attempt carries the rendered
// invoice as an attachment; on failure it retries once without it rather
// than failing the whole confirmation.
func (s *DefaultPaymentService) sendConfirmation(ctx context.Context, ord *models.Order) {
	user, err := s.Users.GetByID(ord.UserID)
	if err != nil {
		s.Logger.Warn("cannot send confirmation email, user lookup failed",
			zap.String("userId", ord.UserID), zap.Error(err))
		return
	}

	inv := BuildInvoice(ord, s.Currency)
	subject := fmt.Sprintf("Your order %s is confirmed", ord.Reference)
	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for your order. Your payment of %s has been received.\nYour order reference is %s.\n",
		user.Name, utils.FormatAmount(inv.Total, inv.Currency), ord.Reference,
	)

	att := &notification.Attachment{
		Filename:    fmt.Sprintf("invoice-%s.txt", ord.Reference),
		ContentType: "text/plain",
		Data:        []byte(RenderInvoiceText(inv)),
	}

	if err := s.Notifier.SendEmail(ctx, user.Email, subject, body, att); err != nil {
		s.Logger.Warn("confirmation email with attachment failed, retrying without",
			zap.String("orderId", ord.ID), zap.Error(err))
		if err := s.Notifier.SendEmail(ctx, user.Email, subject, body, nil); err != nil {
			s.Logger.Error("confirmation email failed",
				zap.String("orderId", ord.ID), zap.Error(err))
		}
	}
}

// scheduleReminder enqueues an appointment reminder a day before the start
// time, when the order carries one.
func (s *DefaultPaymentService) scheduleReminder(ord *models.Order, appt *models.Appointment) {
	if s.Queue == nil || ord.StartTime == nil {
		return
	}
	fireAt := ord.StartTime.Add(-24 * time.Hour)
	if fireAt.Before(time.Now()) {
		return
	}

	var apptID string
	if appt != nil {
		apptID = appt.ID
	}
	payload := models.ReminderPayload{
		AppointmentID: apptID,
		OrderID:       ord.ID,
		UserID:        ord.UserID,
		FireDate:      fireAt.Format(time.RFC3339),
		Title:         "Appointment reminder",
		Body:          fmt.Sprintf("Your appointment for order %s is tomorrow at %s.", ord.Reference, ord.StartTime.Format("15:04")),
	}
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		s.Logger.Warn("failed to build reminder task", zap.Error(err))
		return
	}
	if _, err := s.Queue.Enqueue(task, opts...); err != nil {
		s.Logger.Warn("failed to enqueue reminder task",
			zap.String("orderId", ord.ID), zap.Error(err))
	}
}
