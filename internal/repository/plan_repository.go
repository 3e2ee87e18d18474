package repository

import (
	"context"
	"time"

	"github.com/andemamma/collection-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, slot *domain.WeeklyPlanSlot) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(slot).Error
}

// CreateTx inserts a slot inside an existing transaction; used by the batch
// submit path so partial batches cannot be left half-committed
func (r *PlanRepository) CreateTx(tx *gorm.DB, slot *domain.WeeklyPlanSlot) error {
	return tx.Omit(clause.Associations).Create(slot).Error
}

func (r *PlanRepository) GetByID(ctx context.Context, id uint) (*domain.WeeklyPlanSlot, error) {
	var slot domain.WeeklyPlanSlot
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Coordinator").
		Preload("Driver").
		First(&slot, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListRange returns slots with plan_date in the inclusive range, newest date
// first, ties broken by supplier name
func (r *PlanRepository) ListRange(ctx context.Context, start, end time.Time) ([]domain.WeeklyPlanSlot, error) {
	var slots []domain.WeeklyPlanSlot
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Coordinator").
		Preload("Driver").
		Joins("LEFT JOIN suppliers ON suppliers.id = weekly_plan_slots.supplier_id").
		Where("weekly_plan_slots.plan_date >= ? AND weekly_plan_slots.plan_date <= ?", start, end).
		Order("weekly_plan_slots.plan_date DESC, suppliers.name ASC").
		Find(&slots).Error
	return slots, err
}

func (r *PlanRepository) Update(ctx context.Context, slot *domain.WeeklyPlanSlot) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(slot).Error
}

// UpdateChecked saves the slot only if the stored row still carries
// expectedVersion, bumping the version on success. Returns the number of
// rows written; zero means a concurrent writer got there first.
func (r *PlanRepository) UpdateChecked(ctx context.Context, slot *domain.WeeklyPlanSlot, expectedVersion int) (int64, error) {
	slot.Version = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(&domain.WeeklyPlanSlot{}).
		Where("id = ? AND version = ?", slot.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(slot)
	return res.RowsAffected, res.Error
}

// Delete removes a slot. Callers must ensure the slot is still a draft;
// referenced slots are historical records.
func (r *PlanRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.WeeklyPlanSlot{}, "id = ?", id).Error
}

// ExistsForKey reports whether a slot already exists for the composite
// (supplier, date, mode) key
func (r *PlanRepository) ExistsForKey(ctx context.Context, supplierID uint, planDate time.Time, mode domain.CollectionMode) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.WeeklyPlanSlot{}).
		Where("supplier_id = ? AND plan_date = ? AND mode = ?", supplierID, planDate, mode).
		Count(&count).Error
	return count > 0, err
}
