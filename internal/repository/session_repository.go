package repository

import (
	"context"
	"time"

	"github.com/andemamma/collection-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionFilters narrows List results. Zero-value fields are ignored.
type SessionFilters struct {
	Status     *domain.SessionStatus
	SupplierID *uint
	From       *time.Time
	To         *time.Time
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.CollectionSession) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error
}

func (r *SessionRepository) GetByID(ctx context.Context, id uint) (*domain.CollectionSession, error) {
	var session domain.CollectionSession
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Coordinator").
		Preload("Marketer").
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) GetBySessionNumber(ctx context.Context, number string) (*domain.CollectionSession, error) {
	var session domain.CollectionSession
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Coordinator").
		Preload("Marketer").
		First(&session, "session_number = ?", number).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.CollectionSession) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(session).Error
}

// UpdateChecked saves the session only if the stored row still carries
// expectedVersion. Zero rows affected signals a stale write.
func (r *SessionRepository) UpdateChecked(ctx context.Context, session *domain.CollectionSession, expectedVersion int) (int64, error) {
	session.Version = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(&domain.CollectionSession{}).
		Where("id = ? AND version = ?", session.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(session)
	return res.RowsAffected, res.Error
}

func (r *SessionRepository) List(ctx context.Context, filters SessionFilters) ([]domain.CollectionSession, error) {
	query := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Coordinator").
		Preload("Marketer")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.From != nil {
		query = query.Where("estimated_start_date >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("estimated_start_date <= ?", *filters.To)
	}

	var sessions []domain.CollectionSession
	err := query.Order("estimated_start_date DESC, id DESC").Find(&sessions).Error
	return sessions, err
}

// ListOverdue returns live sessions whose estimated end date has passed
func (r *SessionRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.CollectionSession, error) {
	var sessions []domain.CollectionSession
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("status = ?", domain.SessionStatusOnProcess).
		Where("estimated_end_date < ?", now).
		Order("estimated_end_date ASC").
		Find(&sessions).Error
	return sessions, err
}
