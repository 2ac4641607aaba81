package repositories

import (
	"context"

	"pharmasave/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// pharmacyRepository implements PharmacyRepository interface
type pharmacyRepository struct {
	db *gorm.DB
}

// NewPharmacyRepository creates a new pharmacy repository
func NewPharmacyRepository(db *gorm.DB) PharmacyRepository {
	return &pharmacyRepository{db: db}
}

// Create creates a new pharmacy
func (r *pharmacyRepository) Create(ctx context.Context, pharmacy *models.Pharmacy) error {
	return r.db.WithContext(ctx).Create(pharmacy).Error
}

// GetByID gets a pharmacy by ID
func (r *pharmacyRepository) GetByID(ctx context.Context, id uint) (*models.Pharmacy, error) {
	var pharmacy models.Pharmacy
	err := r.db.WithContext(ctx).First(&pharmacy, id).Error
	if err != nil {
		return nil, err
	}
	return &pharmacy, nil
}

// GetByOwner gets the pharmacy owned by a user. One owner holds one
// pharmacy by business rule; the rule is enforced here, not at schema
// level, so the first match wins.
func (r *pharmacyRepository) GetByOwner(ctx context.Context, ownerID uint) (*models.Pharmacy, error) {
	var pharmacy models.Pharmacy
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&pharmacy).Error
	if err != nil {
		return nil, err
	}
	return &pharmacy, nil
}

// FindNearby returns pharmacies within maxDistanceMeters of the point,
// nearest first. Distance is computed server-side with
// ST_Distance_Sphere over the stored coordinates (longitude-first, per
// standard geo ordering).
func (r *pharmacyRepository) FindNearby(ctx context.Context, latitude, longitude, maxDistanceMeters float64) ([]*models.NearbyPharmacy, error) {
	var pharmacies []*models.NearbyPharmacy
	err := r.db.WithContext(ctx).
		Table("pharmacies").
		Select("pharmacies.*, ST_Distance_Sphere(POINT(longitude, latitude), POINT(?, ?)) AS distance_meters", longitude, latitude).
		Where("deleted_at IS NULL").
		Where("ST_Distance_Sphere(POINT(longitude, latitude), POINT(?, ?)) <= ?", longitude, latitude, maxDistanceMeters).
		Order("distance_meters ASC").
		Find(&pharmacies).Error
	if err != nil {
		return nil, err
	}
	return pharmacies, nil
}
