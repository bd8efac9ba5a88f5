package handlers

import (
	userRepo "pharmabook/database/repository/user"
)

// HandlerBundle groups the handler sets and the repositories route
// registration hands to middleware.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	User    *UserHandler
	Catalog *CatalogHandler
	Cart    *CartHandler
	Booking *BookingHandler
	Payment *PaymentHandler
}
