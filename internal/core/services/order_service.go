package services

import (
	"context"
	"errors"

	"pharmasave/internal/adapters/persistence/models"
	"pharmasave/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Order service errors
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInvalidStatus     = errors.New("status must be picked or expired")
	ErrInsufficientStock = errors.New("not enough stock available")
)

// OrderService coordinates the reservation workflow
type OrderService struct {
	orderRepo    repositories.OrderRepository
	medicineRepo repositories.MedicineRepository
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repositories.OrderRepository,
	medicineRepo repositories.MedicineRepository,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		medicineRepo: medicineRepo,
	}
}

// CreateOrder reserves stock for the calling user. The stock decrement
// and order creation run as one transaction in the repository; when
// stock no longer covers the quantity nothing is applied and
// ErrInsufficientStock surfaces to the caller, who may retry.
func (s *OrderService) CreateOrder(ctx context.Context, userID, medicineID uint, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	medicine, err := s.medicineRepo.GetByID(ctx, medicineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}

	// Fast pre-check for a clean error; the conditional decrement below
	// is what actually guards against a concurrent reservation.
	if medicine.Quantity < quantity {
		return nil, ErrInsufficientStock
	}

	order := &models.Order{
		UserID:     userID,
		PharmacyID: medicine.PharmacyID,
		MedicineID: medicineID,
		Quantity:   quantity,
		Status:     models.OrderStatusReserved,
	}

	if err := s.orderRepo.Reserve(ctx, order); err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	return order, nil
}

// ListMyOrders returns the user's orders joined with medicine and
// pharmacy details, newest first
func (s *OrderService) ListMyOrders(ctx context.Context, userID uint) ([]*models.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// ListPharmacyOrders returns a pharmacy's orders joined with medicine
// and ordering user details, newest first
func (s *OrderService) ListPharmacyOrders(ctx context.Context, pharmacyID uint) ([]*models.OrderResponse, error) {
	orders, err := s.orderRepo.ListByPharmacy(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// UpdateStatus moves an order to picked or expired. Requesting any
// other status is rejected before the order is touched. Re-updating an
// already-terminal order stays allowed; stock is never returned on
// expiry.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if status != models.OrderStatusPicked && status != models.OrderStatusExpired {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = status
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func toOrderResponses(orders []*models.Order) []*models.OrderResponse {
	responses := make([]*models.OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, o.ToResponse())
	}
	return responses
}
