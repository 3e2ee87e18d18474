package repository

import (
	"context"

	"github.com/andemamma/collection-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.StandingOrder) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*domain.StandingOrder, error) {
	var order domain.StandingOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Marketer").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetActiveByPair finds the non-terminal order for a supplier/marketer pair.
// A nil marketer matches rows where marketer_id is NULL.
func (r *OrderRepository) GetActiveByPair(ctx context.Context, supplierID uint, marketerID *uint) (*domain.StandingOrder, error) {
	query := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Where("status IN ?", []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusOnProcess})
	if marketerID != nil {
		query = query.Where("marketer_id = ?", *marketerID)
	} else {
		query = query.Where("marketer_id IS NULL")
	}

	var order domain.StandingOrder
	if err := query.Order("created_at DESC").First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.StandingOrder) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

func (r *OrderRepository) List(ctx context.Context, status *domain.OrderStatus) ([]domain.StandingOrder, error) {
	query := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Marketer")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var orders []domain.StandingOrder
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, err
}
