package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Auth Tables
// ============================================================

// Role values for users
const (
	RoleUser     = "user"
	RolePharmacy = "pharmacy"
)

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Pharmacy & Stock Tables
// ============================================================

// Pharmacy represents pharmacies table. Coordinates are stored as a
// latitude/longitude pair; the nearby query computes spherical distance
// over them (see PharmacyRepository.FindNearby).
type Pharmacy struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	Address   string         `gorm:"size:255;not null" json:"address"`
	Latitude  float64        `gorm:"not null;index:idx_pharmacies_coords" json:"latitude"`
	Longitude float64        `gorm:"not null;index:idx_pharmacies_coords" json:"longitude"`
	OwnerID   uint           `gorm:"index;not null" json:"owner_id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Owner     *User          `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Pharmacy) TableName() string {
	return "pharmacies"
}

// NearbyPharmacy is a pharmacy row annotated with its distance from a
// query point, as returned by FindNearby.
type NearbyPharmacy struct {
	Pharmacy
	DistanceMeters float64 `gorm:"column:distance_meters" json:"distance_meters"`
}

// Medicine represents medicines table. The derived fields (expiry_days,
// discount_percent, discounted_price, is_near_expiry) are only ever
// written from pricing.Derive — never set independently.
type Medicine struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:150;not null;index" json:"name"`
	Brand           string          `gorm:"size:150;not null" json:"brand"`
	PharmacyID      uint            `gorm:"index;not null" json:"pharmacy_id"`
	ExpiryDate      time.Time       `gorm:"not null" json:"expiry_date"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	OriginalPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"original_price"`
	DiscountedPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"discounted_price"`
	DiscountPercent int             `gorm:"not null;default:0" json:"discount_percent"`
	ExpiryDays      int             `gorm:"not null;default:0" json:"expiry_days"`
	IsNearExpiry    bool            `gorm:"default:false;index" json:"is_near_expiry"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
	Pharmacy        *Pharmacy       `gorm:"foreignKey:PharmacyID" json:"-"`
}

func (Medicine) TableName() string {
	return "medicines"
}

// MedicineResponse DTO with the pharmacy name+address join
type MedicineResponse struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand"`
	PharmacyID      uint            `json:"pharmacy_id"`
	PharmacyName    string          `json:"pharmacy_name,omitempty"`
	PharmacyAddress string          `json:"pharmacy_address,omitempty"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	Quantity        int             `json:"quantity"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	DiscountPercent int             `json:"discount_percent"`
	ExpiryDays      int             `json:"expiry_days"`
	IsNearExpiry    bool            `json:"is_near_expiry"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (m *Medicine) ToResponse() *MedicineResponse {
	resp := &MedicineResponse{
		ID:              m.ID,
		Name:            m.Name,
		Brand:           m.Brand,
		PharmacyID:      m.PharmacyID,
		ExpiryDate:      m.ExpiryDate,
		Quantity:        m.Quantity,
		OriginalPrice:   m.OriginalPrice,
		DiscountedPrice: m.DiscountedPrice,
		DiscountPercent: m.DiscountPercent,
		ExpiryDays:      m.ExpiryDays,
		IsNearExpiry:    m.IsNearExpiry,
		CreatedAt:       m.CreatedAt,
	}

	if m.Pharmacy != nil {
		resp.PharmacyName = m.Pharmacy.Name
		resp.PharmacyAddress = m.Pharmacy.Address
	}

	return resp
}

// ============================================================
// Order Table
// ============================================================

// Order status values. Lifecycle: reserved -> picked | expired.
const (
	OrderStatusReserved = "reserved"
	OrderStatusPicked   = "picked"
	OrderStatusExpired  = "expired"
)

// Order represents orders table. It is a transaction record: it
// references user/pharmacy/medicine but does not own them, and carries
// no price snapshot of its own.
type Order struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	PharmacyID uint      `gorm:"index;not null" json:"pharmacy_id"`
	MedicineID uint      `gorm:"index;not null" json:"medicine_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Status     string    `gorm:"size:20;default:'reserved';index" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	Pharmacy   *Pharmacy `gorm:"foreignKey:PharmacyID" json:"-"`
	Medicine   *Medicine `gorm:"foreignKey:MedicineID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderResponse DTO. Joined fields are filled from whichever relations
// the query preloaded; absent joins stay empty rather than being
// null-coalesced at each call site.
type OrderResponse struct {
	ID              uint             `json:"id"`
	UserID          uint             `json:"user_id"`
	UserName        string           `json:"user_name,omitempty"`
	UserEmail       string           `json:"user_email,omitempty"`
	PharmacyID      uint             `json:"pharmacy_id"`
	PharmacyName    string           `json:"pharmacy_name,omitempty"`
	PharmacyAddress string           `json:"pharmacy_address,omitempty"`
	MedicineID      uint             `json:"medicine_id"`
	MedicineName    string           `json:"medicine_name,omitempty"`
	MedicineBrand   string           `json:"medicine_brand,omitempty"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	ExpiryDays      *int             `json:"expiry_days,omitempty"`
	Quantity        int              `json:"quantity"`
	Status          string           `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
}

func (o *Order) ToResponse() *OrderResponse {
	resp := &OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		PharmacyID: o.PharmacyID,
		MedicineID: o.MedicineID,
		Quantity:   o.Quantity,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}

	if o.User != nil {
		resp.UserName = o.User.Name
		resp.UserEmail = o.User.Email
	}
	if o.Pharmacy != nil {
		resp.PharmacyName = o.Pharmacy.Name
		resp.PharmacyAddress = o.Pharmacy.Address
	}
	if o.Medicine != nil {
		resp.MedicineName = o.Medicine.Name
		resp.MedicineBrand = o.Medicine.Brand
		resp.DiscountedPrice = &o.Medicine.DiscountedPrice
		days := o.Medicine.ExpiryDays
		resp.ExpiryDays = &days
	}

	return resp
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Pharmacy{},
		&Medicine{},
		&Order{},
	)
}
