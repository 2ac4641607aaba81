package repositories

import (
	"context"
	"strings"

	"pharmasave/internal/adapters/persistence/models"
	"pharmasave/internal/pkg/pricing"

	"gorm.io/gorm"
)

// medicineRepository implements MedicineRepository interface
type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *gorm.DB) MedicineRepository {
	return &medicineRepository{db: db}
}

// Create creates a new medicine
func (r *medicineRepository) Create(ctx context.Context, medicine *models.Medicine) error {
	return r.db.WithContext(ctx).Create(medicine).Error
}

// GetByID gets a medicine by ID with its pharmacy
func (r *medicineRepository) GetByID(ctx context.Context, id uint) (*models.Medicine, error) {
	var medicine models.Medicine
	err := r.db.WithContext(ctx).
		Preload("Pharmacy").
		First(&medicine, id).Error
	if err != nil {
		return nil, err
	}
	return &medicine, nil
}

// ListAll lists medicines with the urgency-first ordering: near-expiry
// stock first, then fewest days left, then deepest discount. A limit of
// 0 returns the full set.
func (r *medicineRepository) ListAll(ctx context.Context, offset, limit int) ([]*models.Medicine, int64, error) {
	var medicines []*models.Medicine
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Medicine{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Preload("Pharmacy").
		Order("is_near_expiry DESC").
		Order("expiry_days ASC").
		Order("discount_percent DESC")

	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	err := query.Find(&medicines).Error
	return medicines, total, err
}

// Search filters medicines by name substring and flags. Ordering here
// deliberately skips the near-expiry-first key used by ListAll.
func (r *medicineRepository) Search(ctx context.Context, filter MedicineSearchFilter) ([]*models.Medicine, error) {
	query := r.db.WithContext(ctx).Preload("Pharmacy")

	if filter.Query != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Query)+"%")
	}
	if filter.NearExpiryOnly {
		query = query.Where("is_near_expiry = ?", true)
	}
	if filter.HighDiscountOnly {
		query = query.Where("discount_percent >= ?", 50)
	}

	var medicines []*models.Medicine
	err := query.
		Order("expiry_days ASC").
		Order("discount_percent DESC").
		Find(&medicines).Error
	return medicines, err
}

// FindAll returns every medicine, unordered (repricing job)
func (r *medicineRepository) FindAll(ctx context.Context) ([]*models.Medicine, error) {
	var medicines []*models.Medicine
	err := r.db.WithContext(ctx).Find(&medicines).Error
	return medicines, err
}

// UpdateDerived writes only the derived pricing columns, leaving
// quantity alone so a concurrent reservation is never overwritten.
func (r *medicineRepository) UpdateDerived(ctx context.Context, id uint, derived pricing.Derived) error {
	return r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"expiry_days":      derived.ExpiryDays,
			"discount_percent": derived.DiscountPercent,
			"discounted_price": derived.DiscountedPrice,
			"is_near_expiry":   derived.IsNearExpiry,
		}).Error
}
