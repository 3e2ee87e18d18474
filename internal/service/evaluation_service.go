package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EvaluationService manages the post-completion cost worksheet. One worksheet
// per session, and only for sessions that actually completed.
type EvaluationService struct {
	evalRepo    *repository.EvaluationRepository
	sessionRepo *repository.SessionRepository
	logger      *zap.Logger
}

func NewEvaluationService(
	evalRepo *repository.EvaluationRepository,
	sessionRepo *repository.SessionRepository,
	logger *zap.Logger,
) *EvaluationService {
	return &EvaluationService{evalRepo: evalRepo, sessionRepo: sessionRepo, logger: logger}
}

func (s *EvaluationService) Create(ctx context.Context, sessionID uint, req *domain.CostEvaluationRequest) (*domain.CostEvaluation, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session.Status != domain.SessionStatusCompleted {
		return nil, fmt.Errorf("session %s is %s: %w", session.SessionNumber, session.Status, ErrNotCompleted)
	}

	if _, err := s.evalRepo.GetBySessionID(ctx, sessionID); err == nil {
		return nil, fmt.Errorf("session %s: %w", session.SessionNumber, ErrEvaluationExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking existing evaluation: %w", err)
	}

	eval := &domain.CostEvaluation{
		SessionID:        sessionID,
		LaborCount:       req.LaborCount,
		LaborRate:        req.LaborRate,
		BagCount:         req.BagCount,
		BagUnitCost:      req.BagUnitCost,
		TransportCost:    req.TransportCost,
		QualityCheckedBy: req.QualityCheckedBy,
		QualityApproved:  req.QualityApproved,
		Notes:            req.Notes,
	}
	if err := s.evalRepo.Create(ctx, eval); err != nil {
		return nil, fmt.Errorf("creating cost evaluation: %w", err)
	}

	s.logger.Info("cost evaluation recorded",
		zap.String("session_number", session.SessionNumber),
		zap.Float64("total_cost", eval.TotalCost()))

	return eval, nil
}

func (s *EvaluationService) GetBySessionID(ctx context.Context, sessionID uint) (*domain.CostEvaluation, error) {
	eval, err := s.evalRepo.GetBySessionID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading cost evaluation: %w", err)
	}
	return eval, nil
}

func (s *EvaluationService) Delete(ctx context.Context, id uint) error {
	if _, err := s.evalRepo.GetByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("loading cost evaluation: %w", err)
	}
	if err := s.evalRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting cost evaluation: %w", err)
	}
	return nil
}
