package repository

import (
	"context"
	"errors"

	"github.com/andemamma/collection-api/internal/domain"
	"gorm.io/gorm"
)

// NumberSequenceRepository hands out monotonically increasing per-year
// counters for session numbering. The increment runs inside its own
// transaction so two concurrent sessions never share a number.
type NumberSequenceRepository struct {
	db *gorm.DB
}

func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

func (r *NumberSequenceRepository) NextValue(ctx context.Context, year int) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.NumberSequence
		err := tx.Where("year = ?", year).First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = domain.NumberSequence{Year: year}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		seq.LastValue++
		next = seq.LastValue
		return tx.Save(&seq).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
