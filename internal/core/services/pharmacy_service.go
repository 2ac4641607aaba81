package services

import (
	"context"
	"errors"

	"pharmasave/internal/adapters/persistence/models"
	"pharmasave/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Pharmacy service errors
var (
	ErrPharmacyNotFound  = errors.New("pharmacy not found")
	ErrPharmacyNotLinked = errors.New("pharmacy not linked to this account")
)

// DefaultNearbyDistanceMeters is the search radius used when the caller
// does not pass one.
const DefaultNearbyDistanceMeters = 5000

// PharmacyService handles pharmacy directory logic
type PharmacyService struct {
	pharmacyRepo repositories.PharmacyRepository
}

// NewPharmacyService creates a new pharmacy service
func NewPharmacyService(pharmacyRepo repositories.PharmacyRepository) *PharmacyService {
	return &PharmacyService{pharmacyRepo: pharmacyRepo}
}

// CreatePharmacyInput represents create pharmacy input
type CreatePharmacyInput struct {
	Name      string  `json:"name" validate:"required"`
	Address   string  `json:"address" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

// Create creates a pharmacy owned by the calling user
func (s *PharmacyService) Create(ctx context.Context, ownerID uint, input *CreatePharmacyInput) (*models.Pharmacy, error) {
	pharmacy := &models.Pharmacy{
		Name:      input.Name,
		Address:   input.Address,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		OwnerID:   ownerID,
	}

	if err := s.pharmacyRepo.Create(ctx, pharmacy); err != nil {
		return nil, err
	}
	return pharmacy, nil
}

// FindNearby returns pharmacies within maxDistanceMeters of the point,
// nearest first. A non-positive distance falls back to the default
// radius.
func (s *PharmacyService) FindNearby(ctx context.Context, latitude, longitude, maxDistanceMeters float64) ([]*models.NearbyPharmacy, error) {
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = DefaultNearbyDistanceMeters
	}
	return s.pharmacyRepo.FindNearby(ctx, latitude, longitude, maxDistanceMeters)
}

// FindByOwner returns the caller's pharmacy
func (s *PharmacyService) FindByOwner(ctx context.Context, ownerID uint) (*models.Pharmacy, error) {
	pharmacy, err := s.pharmacyRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPharmacyNotLinked
		}
		return nil, err
	}
	return pharmacy, nil
}

// GetByID gets a pharmacy by ID
func (s *PharmacyService) GetByID(ctx context.Context, id uint) (*models.Pharmacy, error) {
	pharmacy, err := s.pharmacyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPharmacyNotFound
		}
		return nil, err
	}
	return pharmacy, nil
}
