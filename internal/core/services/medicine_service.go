package services

import (
	"context"
	"errors"
	"time"

	"pharmasave/internal/adapters/persistence/models"
	"pharmasave/internal/adapters/persistence/repositories"
	"pharmasave/internal/pkg/pricing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Medicine service errors
var (
	ErrMedicineNotFound = errors.New("medicine not found")
)

// MedicineService handles medicine stock logic
type MedicineService struct {
	medicineRepo repositories.MedicineRepository
	pharmacyRepo repositories.PharmacyRepository
}

// NewMedicineService creates a new medicine service
func NewMedicineService(
	medicineRepo repositories.MedicineRepository,
	pharmacyRepo repositories.PharmacyRepository,
) *MedicineService {
	return &MedicineService{
		medicineRepo: medicineRepo,
		pharmacyRepo: pharmacyRepo,
	}
}

// CreateMedicineInput represents create medicine input
type CreateMedicineInput struct {
	Name          string          `json:"name" validate:"required"`
	Brand         string          `json:"brand" validate:"required"`
	PharmacyID    uint            `json:"pharmacy_id,omitempty"`
	ExpiryDate    time.Time       `json:"expiry_date" validate:"required"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	OriginalPrice decimal.Decimal `json:"original_price" validate:"required"`
}

// Create creates a medicine against an explicit pharmacy ID. This is
// the legacy entry point; owner-resolved creation (CreateForOwner) is
// the production path. Both stay supported.
func (s *MedicineService) Create(ctx context.Context, input *CreateMedicineInput) (*models.Medicine, error) {
	pharmacy, err := s.pharmacyRepo.GetByID(ctx, input.PharmacyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPharmacyNotFound
		}
		return nil, err
	}

	return s.create(ctx, pharmacy, input)
}

// CreateForOwner resolves the pharmacy from the calling owner and
// creates the medicine there. Fails before anything is written when the
// caller owns no pharmacy.
func (s *MedicineService) CreateForOwner(ctx context.Context, ownerID uint, input *CreateMedicineInput) (*models.Medicine, error) {
	pharmacy, err := s.pharmacyRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPharmacyNotLinked
		}
		return nil, err
	}

	return s.create(ctx, pharmacy, input)
}

func (s *MedicineService) create(ctx context.Context, pharmacy *models.Pharmacy, input *CreateMedicineInput) (*models.Medicine, error) {
	derived := pricing.Derive(input.ExpiryDate, input.OriginalPrice, time.Now())

	medicine := &models.Medicine{
		Name:            input.Name,
		Brand:           input.Brand,
		PharmacyID:      pharmacy.ID,
		ExpiryDate:      input.ExpiryDate,
		Quantity:        input.Quantity,
		OriginalPrice:   input.OriginalPrice,
		DiscountedPrice: derived.DiscountedPrice,
		DiscountPercent: derived.DiscountPercent,
		ExpiryDays:      derived.ExpiryDays,
		IsNearExpiry:    derived.IsNearExpiry,
	}

	if err := s.medicineRepo.Create(ctx, medicine); err != nil {
		return nil, err
	}

	medicine.Pharmacy = pharmacy
	return medicine, nil
}

// ListOutput represents a medicine listing
type ListOutput struct {
	Medicines []*models.MedicineResponse `json:"medicines"`
	Total     int64                      `json:"total"`
}

// ListAll returns all medicines joined with their pharmacy, most urgent
// stock first: near-expiry before the rest, then fewest days left, then
// deepest discount. Offset/limit of 0 returns everything.
func (s *MedicineService) ListAll(ctx context.Context, offset, limit int) (*ListOutput, error) {
	medicines, total, err := s.medicineRepo.ListAll(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Medicines: toResponses(medicines), Total: total}, nil
}

// SearchInput represents medicine search filters
type SearchInput struct {
	Query            string
	NearExpiryOnly   bool
	HighDiscountOnly bool
}

// Search filters medicines by name substring (case-insensitive) and
// optional near-expiry / high-discount flags. Unlike ListAll, the
// result is ordered by expiry days then discount only.
func (s *MedicineService) Search(ctx context.Context, input *SearchInput) ([]*models.MedicineResponse, error) {
	medicines, err := s.medicineRepo.Search(ctx, repositories.MedicineSearchFilter{
		Query:            input.Query,
		NearExpiryOnly:   input.NearExpiryOnly,
		HighDiscountOnly: input.HighDiscountOnly,
	})
	if err != nil {
		return nil, err
	}
	return toResponses(medicines), nil
}

// GetByID gets a medicine with its pharmacy join
func (s *MedicineService) GetByID(ctx context.Context, id uint) (*models.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}
	return medicine, nil
}

func toResponses(medicines []*models.Medicine) []*models.MedicineResponse {
	responses := make([]*models.MedicineResponse, 0, len(medicines))
	for _, m := range medicines {
		responses = append(responses, m.ToResponse())
	}
	return responses
}
