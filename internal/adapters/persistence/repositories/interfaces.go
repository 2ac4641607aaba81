package repositories

import (
	"context"
	"errors"

	"pharmasave/internal/adapters/persistence/models"
	"pharmasave/internal/pkg/pricing"
)

// ErrInsufficientStock is returned by Reserve when the conditional stock
// decrement matches no row, i.e. the medicine no longer has enough
// quantity for the request.
var ErrInsufficientStock = errors.New("insufficient stock")

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// PharmacyRepository defines pharmacy repository interface
type PharmacyRepository interface {
	Create(ctx context.Context, pharmacy *models.Pharmacy) error
	GetByID(ctx context.Context, id uint) (*models.Pharmacy, error)
	GetByOwner(ctx context.Context, ownerID uint) (*models.Pharmacy, error)
	FindNearby(ctx context.Context, latitude, longitude, maxDistanceMeters float64) ([]*models.NearbyPharmacy, error)
}

// MedicineSearchFilter narrows Search results
type MedicineSearchFilter struct {
	Query            string
	NearExpiryOnly   bool
	HighDiscountOnly bool
}

// MedicineRepository defines medicine repository interface
type MedicineRepository interface {
	Create(ctx context.Context, medicine *models.Medicine) error
	GetByID(ctx context.Context, id uint) (*models.Medicine, error)
	ListAll(ctx context.Context, offset, limit int) ([]*models.Medicine, int64, error)
	Search(ctx context.Context, filter MedicineSearchFilter) ([]*models.Medicine, error)
	FindAll(ctx context.Context) ([]*models.Medicine, error)
	UpdateDerived(ctx context.Context, id uint, derived pricing.Derived) error
}

// OrderRepository defines order repository interface
type OrderRepository interface {
	// Reserve atomically decrements the medicine's stock and creates the
	// order in a single transaction. Returns ErrInsufficientStock (and
	// applies nothing) when stock does not cover the order quantity.
	Reserve(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID uint) ([]*models.Order, error)
	ListByPharmacy(ctx context.Context, pharmacyID uint) ([]*models.Order, error)
}
