package pricing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// NearExpiryDays is the threshold below which a medicine counts as near-expiry.
const NearExpiryDays = 30

// Discount tiers by days until expiry, evaluated in ascending order.
// Anything at or below 7 days (including already-expired stock with
// negative days) gets the deepest discount.
var tiers = []struct {
	maxDays int
	percent int
}{
	{7, 70},
	{15, 50},
	{30, 30},
}

// Derived holds the pricing fields computed from an expiry date and
// original price. These are never set by hand anywhere else.
type Derived struct {
	ExpiryDays      int
	DiscountPercent int
	DiscountedPrice decimal.Decimal
	IsNearExpiry    bool
}

// Derive computes the discount tier and discounted price for a medicine.
// Pure given now; callers pass time.Now() outside of tests.
func Derive(expiryDate time.Time, originalPrice decimal.Decimal, now time.Time) Derived {
	days := expiryDays(expiryDate, now)

	percent := 0
	for _, t := range tiers {
		if days <= t.maxDays {
			percent = t.percent
			break
		}
	}

	// discounted = original - round(original * percent / 100),
	// rounded half-up to whole currency units.
	cut := originalPrice.
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(0)

	return Derived{
		ExpiryDays:      days,
		DiscountPercent: percent,
		DiscountedPrice: originalPrice.Sub(cut),
		IsNearExpiry:    days <= NearExpiryDays,
	}
}

// expiryDays returns the number of whole days until expiry, rounded up.
// Negative for stock already past its expiry date.
func expiryDays(expiryDate, now time.Time) int {
	return int(math.Ceil(expiryDate.Sub(now).Hours() / 24))
}
