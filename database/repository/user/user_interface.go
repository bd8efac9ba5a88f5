package userRepo

import (
	"errors"

	"pharmabook/models"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address. Returns (nil, nil)
	// when no account exists, so registration can probe without an error path.
	GetByEmail(email string) (*models.User, error)
	// GetByTokenHash retrieves the user holding the given session token hash.
	GetByTokenHash(hash string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
	// SetTokenHash stores (or clears, with "") the active session token hash.
	SetTokenHash(id, hash string) error
}
