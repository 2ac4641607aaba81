package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var now = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

func TestDeriveDiscountTiers(t *testing.T) {
	tests := []struct {
		name        string
		daysOut     int
		wantPercent int
	}{
		{"expires today", 0, 70},
		{"already expired", -3, 70},
		{"deep tier lower edge", 1, 70},
		{"deep tier upper edge", 7, 70},
		{"mid tier lower edge", 8, 50},
		{"mid tier upper edge", 15, 50},
		{"light tier lower edge", 16, 30},
		{"light tier upper edge", 30, 30},
		{"just past threshold", 31, 0},
		{"far out", 90, 0},
	}

	price := decimal.NewFromInt(100)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expiry := now.AddDate(0, 0, tt.daysOut)
			got := Derive(expiry, price, now)

			if got.DiscountPercent != tt.wantPercent {
				t.Errorf("DiscountPercent = %d, want %d", got.DiscountPercent, tt.wantPercent)
			}
			if got.ExpiryDays != tt.daysOut {
				t.Errorf("ExpiryDays = %d, want %d", got.ExpiryDays, tt.daysOut)
			}
			wantNear := tt.daysOut <= NearExpiryDays
			if got.IsNearExpiry != wantNear {
				t.Errorf("IsNearExpiry = %v, want %v", got.IsNearExpiry, wantNear)
			}
		})
	}
}

func TestDeriveDiscountedPrice(t *testing.T) {
	tests := []struct {
		name    string
		daysOut int
		price   string
		want    string
	}{
		{"30 percent off 120", 18, "120", "84"},
		{"70 percent off 100", 5, "100", "30"},
		{"50 percent off 200", 10, "200", "100"},
		{"no discount", 60, "250", "250"},
		{"half rounds up", 16, "5", "3"},          // cut 1.5 -> 2
		{"cents kept", 10, "99.99", "49.99"},      // cut 49.995 -> 50
		{"small cut rounds to zero", 18, "1.50", "1.50"}, // cut 0.45 -> 0
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := decimal.RequireFromString(tt.price)
			got := Derive(now.AddDate(0, 0, tt.daysOut), price, now)

			if !got.DiscountedPrice.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("DiscountedPrice = %s, want %s", got.DiscountedPrice, tt.want)
			}
		})
	}
}

func TestDeriveExpiryDaysRoundsUp(t *testing.T) {
	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"half a day counts as one", now.Add(12 * time.Hour), 1},
		{"just over a day counts as two", now.Add(25 * time.Hour), 2},
		{"exactly now is zero", now, 0},
		{"an hour past expiry is zero", now.Add(-1 * time.Hour), 0},
		{"a day and an hour past is minus one", now.Add(-25 * time.Hour), -1},
	}

	price := decimal.NewFromInt(10)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.expiry, price, now)
			if got.ExpiryDays != tt.want {
				t.Errorf("ExpiryDays = %d, want %d", got.ExpiryDays, tt.want)
			}
		})
	}
}

func TestDeriveNearExpiryBoundary(t *testing.T) {
	price := decimal.NewFromInt(50)

	at := Derive(now.AddDate(0, 0, 30), price, now)
	if !at.IsNearExpiry {
		t.Error("30 days out should be near-expiry")
	}

	past := Derive(now.AddDate(0, 0, 31), price, now)
	if past.IsNearExpiry {
		t.Error("31 days out should not be near-expiry")
	}
}
