package config

import (
	"log"
	"time"

	"pharmasave/internal/adapters/persistence/models"
	"pharmasave/internal/pkg/password"
	"pharmasave/internal/pkg/pricing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seeder handles development database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run seeds a demo pharmacy with stock across every discount tier.
// Development only; skipped entirely once any pharmacy exists.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	var count int64
	s.db.Model(&models.Pharmacy{}).Count(&count)
	if count > 0 {
		log.Println("✅ Seed data already present, skipping")
		return nil
	}

	hashedPassword, err := password.Hash("demo12345")
	if err != nil {
		return err
	}

	owner := &models.User{
		Name:     "Demo Pharmacist",
		Email:    "pharmacist@pharmasave.example",
		Password: hashedPassword,
		Role:     models.RolePharmacy,
	}
	if err := s.db.Create(owner).Error; err != nil {
		return err
	}

	pharmacy := &models.Pharmacy{
		Name:      "Green Cross Pharmacy",
		Address:   "12 Hill Road, Bandra West, Mumbai",
		Latitude:  19.0544,
		Longitude: 72.8406,
		OwnerID:   owner.ID,
	}
	if err := s.db.Create(pharmacy).Error; err != nil {
		return err
	}

	now := time.Now()
	samples := []struct {
		name    string
		brand   string
		daysOut int
		qty     int
		price   int64
	}{
		{"Paracetamol 500mg", "Calpol", 5, 40, 30},
		{"Amoxicillin 250mg", "Mox", 12, 25, 120},
		{"Cetirizine 10mg", "Zyrtec", 25, 60, 45},
		{"Vitamin D3 60k", "Uprise", 90, 30, 110},
	}

	for _, sm := range samples {
		expiry := now.AddDate(0, 0, sm.daysOut)
		price := decimal.NewFromInt(sm.price)
		derived := pricing.Derive(expiry, price, now)

		medicine := &models.Medicine{
			Name:            sm.name,
			Brand:           sm.brand,
			PharmacyID:      pharmacy.ID,
			ExpiryDate:      expiry,
			Quantity:        sm.qty,
			OriginalPrice:   price,
			DiscountedPrice: derived.DiscountedPrice,
			DiscountPercent: derived.DiscountPercent,
			ExpiryDays:      derived.ExpiryDays,
			IsNearExpiry:    derived.IsNearExpiry,
		}
		if err := s.db.Create(medicine).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded demo pharmacy %q with %d medicines", pharmacy.Name, len(samples))
	return nil
}
