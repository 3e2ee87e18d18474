package jobs

import (
	"context"
	"time"

	"github.com/andemamma/collection-api/internal/domain"
	"go.uber.org/zap"
)

// OverdueReminderJobName is the name of the overdue session reminder job
const OverdueReminderJobName = "overdue_session_reminder"

// OverdueSessionLister finds sessions still open past their estimated end
// date. The interface keeps the job decoupled from the repository package.
type OverdueSessionLister interface {
	ListOverdue(ctx context.Context, now time.Time) ([]domain.CollectionSession, error)
}

// OverdueReminderJob logs sessions that are still onprocess past their
// estimated end date so operations can chase them up. It is strictly
// read-only; session state only changes through explicit API requests.
type OverdueReminderJob struct {
	sessions OverdueSessionLister
	logger   *zap.Logger
	timeout  time.Duration
}

func NewOverdueReminderJob(sessions OverdueSessionLister, logger *zap.Logger, timeout time.Duration) *OverdueReminderJob {
	return &OverdueReminderJob{
		sessions: sessions,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run executes the reminder sweep. Called by the scheduler.
func (j *OverdueReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	now := time.Now().UTC()
	overdue, err := j.sessions.ListOverdue(ctx, now)
	if err != nil {
		j.logger.Error("overdue session sweep failed", zap.Error(err))
		return
	}

	if len(overdue) == 0 {
		j.logger.Info("no overdue sessions")
		return
	}

	for _, session := range overdue {
		supplierName := ""
		if session.Supplier != nil {
			supplierName = session.Supplier.Name
		}
		j.logger.Warn("session past estimated end date",
			zap.String("session_number", session.SessionNumber),
			zap.Uint("session_id", session.ID),
			zap.String("supplier", supplierName),
			zap.Time("estimated_end", session.EstimatedEndDate),
			zap.Duration("overdue_by", now.Sub(session.EstimatedEndDate)))
	}

	j.logger.Info("overdue session sweep finished",
		zap.Int("overdue_count", len(overdue)))
}
