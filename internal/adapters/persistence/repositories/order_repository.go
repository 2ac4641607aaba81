package repositories

import (
	"context"

	"pharmasave/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// orderRepository implements OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Reserve decrements stock and creates the order in one transaction.
// The decrement is conditional on the current quantity, so two
// concurrent reservations can never both drain the same stock: the
// second one matches no row and the whole transaction rolls back.
func (r *orderRepository) Reserve(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Medicine{}).
			Where("id = ? AND quantity >= ?", order.MedicineID, order.Quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", order.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		return tx.Create(order).Error
	})
}

// GetByID gets an order by ID
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update updates an order
func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// ListByUser gets a user's orders with medicine and pharmacy joins,
// newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.WithContext(ctx).
		Preload("Medicine").
		Preload("Pharmacy").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ListByPharmacy gets a pharmacy's orders with medicine and ordering
// user joins, newest first
func (r *orderRepository) ListByPharmacy(ctx context.Context, pharmacyID uint) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.WithContext(ctx).
		Preload("Medicine").
		Preload("User").
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
