package user

import "pharmabook/models"

// AuthResult is the outcome of a successful registration or sign-in.
type AuthResult struct {
	User  *models.User
	Token string
}

// UserService defines account operations for the booking flow.
type UserService interface {
	// Register creates an account and signs the user in.
	Register(input RegisterInput) (*AuthResult, error)
	// Authenticate verifies credentials and issues a fresh session token.
	Authenticate(email, password string) (*AuthResult, error)
	// GetByID retrieves a user by id.
	GetByID(id string) (*models.User, error)
	// UpdateProfile updates name, phone and addresses.
	UpdateProfile(id string, input ProfileInput) (*models.User, error)
	// RevokeToken invalidates the user's active session token.
	RevokeToken(id string) error
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// ProfileInput is the profile update payload.
type ProfileInput struct {
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Address         *models.Address `json:"address"`
	ShippingAddress *models.Address `json:"shipping_address"`
}
