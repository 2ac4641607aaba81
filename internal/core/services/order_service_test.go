package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pharmasave/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
)

func newOrderFixture(t *testing.T, stock int) (*OrderService, *fakeMedicineRepo, *fakeOrderRepo, *models.Medicine) {
	t.Helper()
	medicineRepo := newFakeMedicineRepo()
	orderRepo := newFakeOrderRepo(medicineRepo)

	medicine := &models.Medicine{
		Name:          "Amoxicillin 250mg",
		Brand:         "Mox",
		PharmacyID:    3,
		ExpiryDate:    time.Now().AddDate(0, 0, 12),
		Quantity:      stock,
		OriginalPrice: decimal.NewFromInt(120),
	}
	if err := medicineRepo.Create(context.Background(), medicine); err != nil {
		t.Fatalf("seed medicine: %v", err)
	}

	return NewOrderService(orderRepo, medicineRepo), medicineRepo, orderRepo, medicine
}

func TestCreateOrderReservesStock(t *testing.T) {
	svc, medicineRepo, _, medicine := newOrderFixture(t, 10)

	order, err := svc.CreateOrder(context.Background(), 42, medicine.ID, 3)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if order.Status != models.OrderStatusReserved {
		t.Errorf("Status = %s, want reserved", order.Status)
	}
	if order.UserID != 42 {
		t.Errorf("UserID = %d, want 42", order.UserID)
	}
	if order.PharmacyID != medicine.PharmacyID {
		t.Errorf("PharmacyID = %d, want %d from the medicine", order.PharmacyID, medicine.PharmacyID)
	}
	if got := medicineRepo.quantity(medicine.ID); got != 7 {
		t.Errorf("remaining stock = %d, want 7", got)
	}
}

func TestCreateOrderInvalidQuantity(t *testing.T) {
	svc, medicineRepo, _, medicine := newOrderFixture(t, 10)

	for _, quantity := range []int{0, -1} {
		if _, err := svc.CreateOrder(context.Background(), 42, medicine.ID, quantity); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("quantity %d: error = %v, want ErrInvalidQuantity", quantity, err)
		}
	}
	if got := medicineRepo.quantity(medicine.ID); got != 10 {
		t.Errorf("stock = %d, want untouched 10", got)
	}
}

func TestCreateOrderMedicineNotFound(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t, 10)

	if _, err := svc.CreateOrder(context.Background(), 42, 999, 1); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("error = %v, want ErrMedicineNotFound", err)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, medicineRepo, orderRepo, medicine := newOrderFixture(t, 2)

	_, err := svc.CreateOrder(context.Background(), 42, medicine.ID, 5)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("error = %v, want ErrInsufficientStock", err)
	}
	if got := medicineRepo.quantity(medicine.ID); got != 2 {
		t.Errorf("stock = %d, want untouched 2", got)
	}
	if len(orderRepo.orders) != 0 {
		t.Error("order row created despite failed reservation")
	}
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	const stock = 10
	const attempts = 25

	svc, medicineRepo, orderRepo, medicine := newOrderFixture(t, stock)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := svc.CreateOrder(context.Background(), userID, medicine.ID, 1)
			results <- err
		}(uint(i + 1))
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientStock):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != stock {
		t.Errorf("succeeded = %d, want exactly %d", succeeded, stock)
	}
	if rejected != attempts-stock {
		t.Errorf("rejected = %d, want %d", rejected, attempts-stock)
	}
	if got := medicineRepo.quantity(medicine.ID); got != 0 {
		t.Errorf("final stock = %d, want 0", got)
	}
	if len(orderRepo.orders) != stock {
		t.Errorf("orders created = %d, want %d", len(orderRepo.orders), stock)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, medicineRepo, _, medicine := newOrderFixture(t, 10)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 42, medicine.ID, 4)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	t.Run("rejects unknown status", func(t *testing.T) {
		if _, err := svc.UpdateStatus(ctx, order.ID, "cancelled"); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("error = %v, want ErrInvalidStatus", err)
		}
	})

	t.Run("rejects reserved as a target", func(t *testing.T) {
		if _, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusReserved); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("error = %v, want ErrInvalidStatus", err)
		}
	})

	t.Run("marks picked", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusPicked)
		if err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}
		if updated.Status != models.OrderStatusPicked {
			t.Errorf("Status = %s, want picked", updated.Status)
		}
	})

	t.Run("terminal orders can be re-marked", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusExpired)
		if err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}
		if updated.Status != models.OrderStatusExpired {
			t.Errorf("Status = %s, want expired", updated.Status)
		}
	})

	t.Run("expiry does not restock", func(t *testing.T) {
		if got := medicineRepo.quantity(medicine.ID); got != 6 {
			t.Errorf("stock = %d, want 6 after expired order", got)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		if _, err := svc.UpdateStatus(ctx, 999, models.OrderStatusPicked); !errors.Is(err, ErrOrderNotFound) {
			t.Errorf("error = %v, want ErrOrderNotFound", err)
		}
	})
}

func TestListOrders(t *testing.T) {
	svc, _, _, medicine := newOrderFixture(t, 10)
	ctx := context.Background()

	first, err := svc.CreateOrder(ctx, 42, medicine.ID, 1)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	second, err := svc.CreateOrder(ctx, 42, medicine.ID, 2)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if _, err := svc.CreateOrder(ctx, 77, medicine.ID, 1); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	mine, err := svc.ListMyOrders(ctx, 42)
	if err != nil {
		t.Fatalf("ListMyOrders() error = %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("orders = %d, want only the user's 2", len(mine))
	}
	if mine[0].ID != second.ID || mine[1].ID != first.ID {
		t.Error("orders not newest first")
	}

	forPharmacy, err := svc.ListPharmacyOrders(ctx, medicine.PharmacyID)
	if err != nil {
		t.Fatalf("ListPharmacyOrders() error = %v", err)
	}
	if len(forPharmacy) != 3 {
		t.Errorf("pharmacy orders = %d, want all 3", len(forPharmacy))
	}
}
