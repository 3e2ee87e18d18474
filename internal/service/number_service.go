package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andemamma/collection-api/internal/repository"
)

const sessionNumberPrefix = "CS"

// NumberService generates human-readable session numbers of the form
// CS-2026-042, with the counter resetting each calendar year.
type NumberService struct {
	sequenceRepo *repository.NumberSequenceRepository
}

func NewNumberService(sequenceRepo *repository.NumberSequenceRepository) *NumberService {
	return &NumberService{sequenceRepo: sequenceRepo}
}

func (s *NumberService) GenerateSessionNumber(ctx context.Context) (string, error) {
	year := time.Now().UTC().Year()
	value, err := s.sequenceRepo.NextValue(ctx, year)
	if err != nil {
		return "", fmt.Errorf("generating session number: %w", err)
	}
	return fmt.Sprintf("%s-%d-%03d", sessionNumberPrefix, year, value), nil
}
