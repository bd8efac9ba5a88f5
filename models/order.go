package models

import "time"

// Order status values.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

// Payment status values.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// FlowVariant tags which booking flow produced an order.
type FlowVariant string

const (
	FlowNew      FlowVariant = "new"
	FlowTransfer FlowVariant = "transfer"
	FlowReorder  FlowVariant = "reorder"
)

// Valid reports whether v is a known flow variant.
func (v FlowVariant) Valid() bool {
	switch v {
	case FlowNew, FlowTransfer, FlowReorder:
		return true
	}
	return false
}

// OrderLine is an immutable snapshot of a cart line at order time.
type OrderLine struct {
	Key       string `bson:"key" json:"key"`
	Name      string `bson:"name" json:"name"`
	Variation string `bson:"variation,omitempty" json:"variation,omitempty"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	UnitPrice int64  `bson:"unit_price" json:"unit_price"` // minor units
	LineTotal int64  `bson:"line_total" json:"line_total"` // minor units
}

// ShippingSnapshot captures where the order ships, resolved from the user
// profile when the order metadata is built.
type ShippingSnapshot struct {
	Name     string `bson:"name" json:"name"`
	Line1    string `bson:"line1" json:"line1"`
	Line2    string `bson:"line2,omitempty" json:"line2,omitempty"`
	City     string `bson:"city" json:"city"`
	Postcode string `bson:"postcode" json:"postcode"`
	Country  string `bson:"country" json:"country"`
}

// OrderMeta is the typed metadata attached to a draft order: line items,
// computed totals, shipping and questionnaire answers. It replaces the
// untyped blob the wizard used to thread between steps.
type OrderMeta struct {
	Variant       FlowVariant       `bson:"variant" json:"variant"`
	Lines         []OrderLine       `bson:"lines" json:"lines"`
	Subtotal      int64             `bson:"subtotal" json:"subtotal"`             // minor units
	DeliveryFee   int64             `bson:"delivery_fee" json:"delivery_fee"`     // minor units
	Total         int64             `bson:"total" json:"total"`                   // minor units
	SubtotalMajor string            `bson:"subtotal_major" json:"subtotal_major"` // display string, e.g. "24.99"
	TotalMajor    string            `bson:"total_major" json:"total_major"`
	Shipping      *ShippingSnapshot `bson:"shipping,omitempty" json:"shipping,omitempty"`
	Answers       map[string]string `bson:"answers,omitempty" json:"answers,omitempty"` // questionnaire answers by question key
}

// Order is the backend order resource. Draft orders stay mutable until the
// client-side finalized marker is set after a successful payment.
type Order struct {
	ID            string     `bson:"id" json:"id"`
	Reference     string     `bson:"reference" json:"reference"` // human-readable, e.g. "PB-3F9A2C"
	UserID        string     `bson:"user_id" json:"user_id"`
	ServiceID     string     `bson:"service_id" json:"service_id"`
	ServiceSlug   string     `bson:"service_slug" json:"service_slug"`
	ScheduleID    string     `bson:"schedule_id,omitempty" json:"schedule_id,omitempty"`
	StartTime     *time.Time `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime       *time.Time `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Status        string     `bson:"status" json:"status"`
	PaymentStatus string     `bson:"payment_status" json:"payment_status"`
	Meta          OrderMeta  `bson:"meta" json:"meta"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
}

// OrderUpdate carries only the fields a draft-order update may touch.
// User and service identity are never re-sent on update.
type OrderUpdate struct {
	Meta       OrderMeta  `bson:"meta" json:"meta"`
	ScheduleID string     `bson:"schedule_id,omitempty" json:"schedule_id,omitempty"`
	StartTime  *time.Time `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime    *time.Time `bson:"end_time,omitempty" json:"end_time,omitempty"`
}
