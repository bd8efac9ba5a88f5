package models

import "time"

// Invoice represents the invoice generated after a successful payment.
type Invoice struct {
	InvoiceID string      `bson:"invoice_id" json:"invoice_id"`
	OrderID   string      `bson:"order_id" json:"order_id"`
	Reference string      `bson:"reference" json:"reference"` // order reference, e.g. "PB-3F9A2C"
	UserID    string      `bson:"user_id" json:"user_id"`
	Lines     []OrderLine `bson:"lines" json:"lines"`
	Subtotal  int64       `bson:"subtotal" json:"subtotal"` // minor units
	Delivery  int64       `bson:"delivery" json:"delivery"` // minor units
	Total     int64       `bson:"total" json:"total"`       // minor units
	Currency  string      `bson:"currency" json:"currency"`
	Status    string      `bson:"status" json:"status"` // e.g. "paid"
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
}
