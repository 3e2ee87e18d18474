package service

import (
	"math"

	"github.com/andemamma/collection-api/internal/domain"
)

// ScoringConfig holds the tunables for session performance scoring. The
// defaults mirror the current grading policy; ops can override them per
// deployment without a code change.
type ScoringConfig struct {
	// QualityFullScore is awarded when no problems were recorded.
	QualityFullScore float64
	// QualityPartialScore is awarded when the session recorded any problem,
	// resolved or not.
	QualityPartialScore float64
	// PunctualityScore is a placeholder until arrival tracking lands.
	PunctualityScore float64
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		QualityFullScore:    100,
		QualityPartialScore: 80,
		PunctualityScore:    100,
	}
}

// ComputePerformance grades a finished session. Efficiency is the collected
// total as a percentage of the estimate; a zero or negative estimate yields
// zero rather than dividing by it.
func ComputePerformance(cfg ScoringConfig, collected domain.CollectionData, estimatedKg float64, problems []domain.ProblemNote) domain.Performance {
	perf := domain.Performance{
		TotalCollectionKg: round2(collected.TotalKg()),
		Punctuality:       cfg.PunctualityScore,
	}

	if estimatedKg > 0 {
		perf.Efficiency = round2(perf.TotalCollectionKg / estimatedKg * 100)
	}

	if len(problems) > 0 {
		perf.Quality = cfg.QualityPartialScore
	} else {
		perf.Quality = cfg.QualityFullScore
	}

	return perf
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
