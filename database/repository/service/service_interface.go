package serviceRepo

import (
	"errors"

	"pharmabook/models"
)

// ErrServiceNotFound is returned when no service matches the lookup.
var ErrServiceNotFound = errors.New("service not found")

// ServiceRepository defines methods for catalog data access.
type ServiceRepository interface {
	// GetAll retrieves all active services.
	GetAll() ([]models.Service, error)
	// GetBySlug retrieves a service by its URL slug.
	GetBySlug(slug string) (*models.Service, error)
	// MedicinesByService retrieves the medicines dispensed under a service.
	MedicinesByService(serviceID string) ([]models.Medicine, error)
}
