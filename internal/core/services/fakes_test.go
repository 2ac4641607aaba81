package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"pharmasave/internal/adapters/persistence/models"
	"pharmasave/internal/adapters/persistence/repositories"
	"pharmasave/internal/pkg/pricing"

	"gorm.io/gorm"
)

// In-memory repository fakes shared across the service tests. Misses
// surface gorm.ErrRecordNotFound like the real repositories do, so the
// services' sentinel mapping is exercised for real.

// ------------------------------------------------------------
// users
// ------------------------------------------------------------

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   uint
	users map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	user.ID = f.seq
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ------------------------------------------------------------
// refresh tokens
// ------------------------------------------------------------

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	seq    uint
	tokens map[string]*models.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	token.ID = f.seq
	cp := *token
	f.tokens[token.TokenHash] = &cp
	return nil
}

func (f *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenHash]
	if !ok || token.RevokedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *token
	return &cp, nil
}

func (f *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token, ok := f.tokens[tokenHash]; ok && token.RevokedAt == nil {
		now := time.Now()
		token.RevokedAt = &now
	}
	return nil
}

func (f *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, token := range f.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for hash, token := range f.tokens {
		if time.Now().After(token.ExpiresAt) {
			delete(f.tokens, hash)
		}
	}
	return nil
}

// ------------------------------------------------------------
// pharmacies
// ------------------------------------------------------------

type fakePharmacyRepo struct {
	mu         sync.Mutex
	seq        uint
	pharmacies map[uint]*models.Pharmacy
}

func newFakePharmacyRepo() *fakePharmacyRepo {
	return &fakePharmacyRepo{pharmacies: make(map[uint]*models.Pharmacy)}
}

func (f *fakePharmacyRepo) Create(_ context.Context, pharmacy *models.Pharmacy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	pharmacy.ID = f.seq
	cp := *pharmacy
	f.pharmacies[pharmacy.ID] = &cp
	return nil
}

func (f *fakePharmacyRepo) GetByID(_ context.Context, id uint) (*models.Pharmacy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pharmacy, ok := f.pharmacies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *pharmacy
	return &cp, nil
}

func (f *fakePharmacyRepo) GetByOwner(_ context.Context, ownerID uint) (*models.Pharmacy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var match *models.Pharmacy
	for _, pharmacy := range f.pharmacies {
		if pharmacy.OwnerID == ownerID && (match == nil || pharmacy.ID < match.ID) {
			match = pharmacy
		}
	}
	if match == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *match
	return &cp, nil
}

func (f *fakePharmacyRepo) FindNearby(_ context.Context, latitude, longitude, maxDistanceMeters float64) ([]*models.NearbyPharmacy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var nearby []*models.NearbyPharmacy
	for _, pharmacy := range f.pharmacies {
		distance := haversineMeters(latitude, longitude, pharmacy.Latitude, pharmacy.Longitude)
		if distance <= maxDistanceMeters {
			nearby = append(nearby, &models.NearbyPharmacy{
				Pharmacy:       *pharmacy,
				DistanceMeters: distance,
			})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})
	return nearby, nil
}

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusMeters = 6371000.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ------------------------------------------------------------
// medicines
// ------------------------------------------------------------

type fakeMedicineRepo struct {
	mu        sync.Mutex
	seq       uint
	medicines map[uint]*models.Medicine
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{medicines: make(map[uint]*models.Medicine)}
}

func (f *fakeMedicineRepo) Create(_ context.Context, medicine *models.Medicine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	medicine.ID = f.seq
	medicine.CreatedAt = time.Now()
	cp := *medicine
	cp.Pharmacy = nil
	f.medicines[medicine.ID] = &cp
	return nil
}

func (f *fakeMedicineRepo) GetByID(_ context.Context, id uint) (*models.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	medicine, ok := f.medicines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *medicine
	return &cp, nil
}

func (f *fakeMedicineRepo) ListAll(_ context.Context, offset, limit int) ([]*models.Medicine, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := f.sortedByUrgency()
	total := int64(len(all))

	if limit > 0 {
		if offset >= len(all) {
			return nil, total, nil
		}
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		all = all[offset:end]
	}
	return all, total, nil
}

func (f *fakeMedicineRepo) Search(_ context.Context, filter repositories.MedicineSearchFilter) ([]*models.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []*models.Medicine
	for _, medicine := range f.medicines {
		if filter.Query != "" && !strings.Contains(strings.ToLower(medicine.Name), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.NearExpiryOnly && !medicine.IsNearExpiry {
			continue
		}
		if filter.HighDiscountOnly && medicine.DiscountPercent < 50 {
			continue
		}
		cp := *medicine
		matches = append(matches, &cp)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ExpiryDays != matches[j].ExpiryDays {
			return matches[i].ExpiryDays < matches[j].ExpiryDays
		}
		return matches[i].DiscountPercent > matches[j].DiscountPercent
	})
	return matches, nil
}

func (f *fakeMedicineRepo) FindAll(_ context.Context) ([]*models.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*models.Medicine
	for _, medicine := range f.medicines {
		cp := *medicine
		all = append(all, &cp)
	}
	return all, nil
}

func (f *fakeMedicineRepo) UpdateDerived(_ context.Context, id uint, derived pricing.Derived) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	medicine, ok := f.medicines[id]
	if !ok {
		return nil
	}
	medicine.ExpiryDays = derived.ExpiryDays
	medicine.DiscountPercent = derived.DiscountPercent
	medicine.DiscountedPrice = derived.DiscountedPrice
	medicine.IsNearExpiry = derived.IsNearExpiry
	return nil
}

func (f *fakeMedicineRepo) sortedByUrgency() []*models.Medicine {
	var all []*models.Medicine
	for _, medicine := range f.medicines {
		cp := *medicine
		all = append(all, &cp)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].IsNearExpiry != all[j].IsNearExpiry {
			return all[i].IsNearExpiry
		}
		if all[i].ExpiryDays != all[j].ExpiryDays {
			return all[i].ExpiryDays < all[j].ExpiryDays
		}
		return all[i].DiscountPercent > all[j].DiscountPercent
	})
	return all
}

// quantity reads the live stock level, for assertions.
func (f *fakeMedicineRepo) quantity(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if medicine, ok := f.medicines[id]; ok {
		return medicine.Quantity
	}
	return -1
}

func (f *fakeMedicineRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.medicines)
}

// ------------------------------------------------------------
// orders
// ------------------------------------------------------------

// fakeOrderRepo shares the medicine fake's lock for Reserve, mirroring
// the real repository's single transaction around decrement + insert.
type fakeOrderRepo struct {
	mu           sync.Mutex
	seq          uint
	orders       map[uint]*models.Order
	medicineRepo *fakeMedicineRepo
}

func newFakeOrderRepo(medicineRepo *fakeMedicineRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:       make(map[uint]*models.Order),
		medicineRepo: medicineRepo,
	}
}

func (f *fakeOrderRepo) Reserve(_ context.Context, order *models.Order) error {
	f.medicineRepo.mu.Lock()
	defer f.medicineRepo.mu.Unlock()

	medicine, ok := f.medicineRepo.medicines[order.MedicineID]
	if !ok || medicine.Quantity < order.Quantity {
		return repositories.ErrInsufficientStock
	}
	medicine.Quantity -= order.Quantity

	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	order.ID = f.seq
	order.CreatedAt = time.Now()
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID uint) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []*models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			cp := *order
			orders = append(orders, &cp)
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (f *fakeOrderRepo) ListByPharmacy(_ context.Context, pharmacyID uint) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []*models.Order
	for _, order := range f.orders {
		if order.PharmacyID == pharmacyID {
			cp := *order
			orders = append(orders, &cp)
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

func sortNewestFirst(orders []*models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ID > orders[j].ID
	})
}
