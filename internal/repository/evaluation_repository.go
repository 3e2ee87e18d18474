package repository

import (
	"context"

	"github.com/andemamma/collection-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

func (r *EvaluationRepository) Create(ctx context.Context, eval *domain.CostEvaluation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(eval).Error
}

func (r *EvaluationRepository) GetByID(ctx context.Context, id uint) (*domain.CostEvaluation, error) {
	var eval domain.CostEvaluation
	err := r.db.WithContext(ctx).
		Preload("Session").
		First(&eval, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (r *EvaluationRepository) GetBySessionID(ctx context.Context, sessionID uint) (*domain.CostEvaluation, error) {
	var eval domain.CostEvaluation
	err := r.db.WithContext(ctx).
		Preload("Session").
		First(&eval, "session_id = ?", sessionID).Error
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (r *EvaluationRepository) Update(ctx context.Context, eval *domain.CostEvaluation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(eval).Error
}

func (r *EvaluationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.CostEvaluation{}, "id = ?", id).Error
}
