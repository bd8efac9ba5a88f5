package models

import "time"

// Service is a bookable treatment in the pharmacy catalog.
type Service struct {
	ID          string    `bson:"id" json:"id"`
	Slug        string    `bson:"slug" json:"slug"` // URL-safe identifier scoping all per-booking state
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Price       int64     `bson:"price" json:"price"`               // consultation/base price, minor units
	DeliveryFee int64     `bson:"delivery_fee" json:"delivery_fee"` // minor units
	ScheduleID  string    `bson:"schedule_id,omitempty" json:"schedule_id,omitempty"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Medicine is a product dispensed under a service, with strength variants.
type Medicine struct {
	ID        string `bson:"id" json:"id"`
	ServiceID string `bson:"service_id" json:"service_id"`
	SKU       string `bson:"sku" json:"sku"`
	Name      string `bson:"name" json:"name"`
	Strength  string `bson:"strength,omitempty" json:"strength,omitempty"` // e.g. "20mg"
	UnitPrice int64  `bson:"unit_price" json:"unit_price"`                 // minor units
	Stock     int    `bson:"stock" json:"stock"`                           // 0 = out of stock
}
