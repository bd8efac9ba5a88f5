package models

import "time"

// Address is a postal address on a user profile.
type Address struct {
	Line1    string `bson:"line1" json:"line1"`
	Line2    string `bson:"line2,omitempty" json:"line2,omitempty"`
	City     string `bson:"city" json:"city"`
	Postcode string `bson:"postcode" json:"postcode"`
	Country  string `bson:"country" json:"country"`
}

// User is a customer account. ShippingAddress, when set, overrides Address
// for order shipping snapshots.
type User struct {
	ID              string    `bson:"id" json:"id"`
	Email           string    `bson:"email" json:"email"`
	Name            string    `bson:"name" json:"name"`
	Phone           string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash    string    `bson:"password_hash" json:"-"`
	TokenHash       string    `bson:"token_hash,omitempty" json:"-"` // SHA-256 of the active session token
	Address         *Address  `bson:"address,omitempty" json:"address,omitempty"`
	ShippingAddress *Address  `bson:"shipping_address,omitempty" json:"shipping_address,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
