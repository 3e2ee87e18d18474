package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sessionTransitions defines the legal status moves. Terminal states have no
// outgoing edges.
var sessionTransitions = map[domain.SessionStatus][]domain.SessionStatus{
	domain.SessionStatusScheduled: {domain.SessionStatusOnProcess, domain.SessionStatusCompleted, domain.SessionStatusCancelled},
	domain.SessionStatusOnProcess: {domain.SessionStatusCompleted, domain.SessionStatusCancelled},
	domain.SessionStatusCompleted: {},
	domain.SessionStatusCancelled: {},
}

func canTransition(from, to domain.SessionStatus) bool {
	for _, allowed := range sessionTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SessionService runs the collection session lifecycle: open, patch, complete.
// Sessions are historical records and are never deleted.
type SessionService struct {
	sessionRepo  *repository.SessionRepository
	supplierRepo *repository.SupplierRepository
	userRepo     *repository.UserRepository
	numbers      *NumberService
	orders       *OrderService
	scoring      ScoringConfig
	logger       *zap.Logger
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	supplierRepo *repository.SupplierRepository,
	userRepo *repository.UserRepository,
	numbers *NumberService,
	orders *OrderService,
	scoring ScoringConfig,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		supplierRepo: supplierRepo,
		userRepo:     userRepo,
		numbers:      numbers,
		orders:       orders,
		scoring:      scoring,
		logger:       logger,
	}
}

// Create opens a session. Sessions start directly in onprocess; an unknown
// coordinator reference is dropped with a warning rather than failing the
// field worker's request, and the standing order for the pair is moved to
// onprocess best-effort.
func (s *SessionService) Create(ctx context.Context, req *domain.CreateSessionRequest) (*domain.CollectionSession, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, req.SupplierID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("supplier %d: %w", req.SupplierID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up supplier %d: %w", req.SupplierID, err)
	}
	if !supplier.IsActive {
		return nil, fmt.Errorf("supplier %q: %w", supplier.Name, ErrSupplierInactive)
	}

	start, err := parseTimestamp(req.EstimatedStartDate)
	if err != nil {
		return nil, fmt.Errorf("estimated start date: %w", ErrInvalidInput)
	}
	end, err := parseTimestamp(req.EstimatedEndDate)
	if err != nil {
		return nil, fmt.Errorf("estimated end date: %w", ErrInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("estimated end before start: %w", ErrInvalidInput)
	}

	coordinatorID := s.resolveUserRef(ctx, req.CoordinatorID, domain.RoleCoordinator)
	marketerID := s.resolveUserRef(ctx, req.MarketerID, domain.RoleMarketer)

	number := req.SessionNumber
	if number == "" {
		number, err = s.numbers.GenerateSessionNumber(ctx)
		if err != nil {
			return nil, err
		}
	}

	session := &domain.CollectionSession{
		SessionNumber:      number,
		SupplierID:         req.SupplierID,
		MarketerID:         marketerID,
		CoordinatorID:      coordinatorID,
		SiteLocation:       req.SiteLocation,
		EstimatedStartDate: start,
		EstimatedEndDate:   end,
		Status:             domain.SessionStatusOnProcess,
		EstimatedAmountKg:  req.EstimatedAmountKg,
		CollectionData:     domain.CollectionData{},
		Problems:           []domain.ProblemNote{},
		Comments:           []domain.CommentNote{},
		AttachmentRef:      req.AttachmentRef,
		Version:            1,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	// Reload so the response carries the materialized associations
	session, err = s.GetByID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if err := s.orders.MarkOnProcess(ctx, session.SupplierID, session.MarketerID); err != nil {
		s.logger.Warn("order sync failed on session open",
			zap.String("session_number", session.SessionNumber),
			zap.Uint("supplier_id", session.SupplierID),
			zap.Error(err))
	}

	s.logger.Info("collection session opened",
		zap.String("session_number", session.SessionNumber),
		zap.Uint("supplier_id", session.SupplierID))

	return session, nil
}

// Update applies a partial update. Only fields present in the patch change;
// the first transition into completed computes performance exactly once, and
// terminal sessions reject any further status change.
func (s *SessionService) Update(ctx context.Context, id uint, req *domain.UpdateSessionRequest) (*domain.CollectionSession, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("session %d: %w", id, ErrEmptyPatch)
	}

	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	completing := false
	if req.Status != nil {
		// Terminal sessions reject any status value, including their own
		if session.Status.IsTerminal() {
			return nil, fmt.Errorf("session %s is %s: %w", session.SessionNumber, session.Status, ErrTerminalState)
		}
		next := domain.SessionStatus(*req.Status)
		if next != session.Status {
			if !canTransition(session.Status, next) {
				return nil, fmt.Errorf("cannot move session from %s to %s: %w", session.Status, next, ErrInvalidTransition)
			}
			completing = next == domain.SessionStatusCompleted
			session.Status = next
		}
	}

	if req.SiteLocation != nil {
		session.SiteLocation = *req.SiteLocation
	}
	if req.MarketerID != nil {
		session.MarketerID = s.resolveUserRef(ctx, req.MarketerID, domain.RoleMarketer)
	}
	if req.CoordinatorID != nil {
		session.CoordinatorID = s.resolveUserRef(ctx, req.CoordinatorID, domain.RoleCoordinator)
	}
	if req.EstimatedStartDate != nil {
		t, err := parseTimestamp(*req.EstimatedStartDate)
		if err != nil {
			return nil, fmt.Errorf("estimated start date: %w", ErrInvalidInput)
		}
		session.EstimatedStartDate = t
	}
	if req.EstimatedEndDate != nil {
		t, err := parseTimestamp(*req.EstimatedEndDate)
		if err != nil {
			return nil, fmt.Errorf("estimated end date: %w", ErrInvalidInput)
		}
		session.EstimatedEndDate = t
	}
	if req.ActualStartDate != nil {
		t, err := parseTimestamp(*req.ActualStartDate)
		if err != nil {
			return nil, fmt.Errorf("actual start date: %w", ErrInvalidInput)
		}
		session.ActualStartDate = &t
	}
	if req.ActualEndDate != nil {
		t, err := parseTimestamp(*req.ActualEndDate)
		if err != nil {
			return nil, fmt.Errorf("actual end date: %w", ErrInvalidInput)
		}
		session.ActualEndDate = &t
	}
	if req.EstimatedAmountKg != nil {
		session.EstimatedAmountKg = *req.EstimatedAmountKg
	}
	if req.TotalTimeSpent != nil {
		session.TotalTimeSpent = *req.TotalTimeSpent
	}
	if req.AttachmentRef != nil {
		session.AttachmentRef = *req.AttachmentRef
	}

	now := time.Now().UTC()
	if req.Problems != nil {
		problems := make([]domain.ProblemNote, 0, len(*req.Problems))
		for _, p := range *req.Problems {
			problems = append(problems, domain.ProblemNote{
				Description: p.Description,
				ReportedBy:  p.ReportedBy,
				Resolved:    p.Resolved,
				ReportedAt:  now,
			})
		}
		session.Problems = problems
	}
	if req.Comments != nil {
		comments := make([]domain.CommentNote, 0, len(*req.Comments))
		for _, c := range *req.Comments {
			comments = append(comments, domain.CommentNote{
				Text:      c.Text,
				Author:    c.Author,
				CreatedAt: now,
			})
		}
		session.Comments = comments
	}

	// Collection data and performance only settle at completion; a session
	// already completed keeps its recorded figures.
	if completing {
		if req.CollectionData != nil {
			session.CollectionData = req.CollectionData
		}
		session.Performance = ComputePerformance(s.scoring, session.CollectionData, session.EstimatedAmountKg, session.Problems)
	} else if req.CollectionData != nil && session.Status != domain.SessionStatusCompleted {
		session.CollectionData = req.CollectionData
	}

	if err := s.saveSession(ctx, session, req.Version); err != nil {
		return nil, err
	}

	if session.Status.IsTerminal() && (completing || (req.Status != nil && domain.SessionStatus(*req.Status) == domain.SessionStatusCancelled)) {
		comment := ""
		if req.Comment != nil {
			comment = *req.Comment
		}
		orderStatus := domain.OrderStatusCompleted
		if session.Status == domain.SessionStatusCancelled {
			orderStatus = domain.OrderStatusCancelled
		}
		if err := s.orders.MarkTerminal(ctx, session.SupplierID, session.MarketerID, orderStatus, comment); err != nil {
			s.logger.Warn("order sync failed on session close",
				zap.String("session_number", session.SessionNumber),
				zap.Uint("supplier_id", session.SupplierID),
				zap.Error(err))
		}
	}

	return session, nil
}

func (s *SessionService) GetByID(ctx context.Context, id uint) (*domain.CollectionSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return session, nil
}

// List returns sessions matching the filters. When no date range is given the
// window defaults to the current and previous calendar month.
func (s *SessionService) List(ctx context.Context, filters repository.SessionFilters) ([]domain.CollectionSession, error) {
	if filters.From == nil && filters.To == nil {
		now := time.Now().UTC()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		filters.From = &from
		filters.To = &to
	}

	sessions, err := s.sessionRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// resolveUserRef validates a user reference against the registry. An unknown
// id or a role mismatch drops the reference with a warning instead of failing
// the request.
func (s *SessionService) resolveUserRef(ctx context.Context, userID *uint, role domain.UserRole) *uint {
	if userID == nil {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, *userID)
	if err != nil {
		s.logger.Warn("dropping unknown user reference",
			zap.Uint("user_id", *userID),
			zap.String("role", string(role)),
			zap.Error(err))
		return nil
	}
	if user.Role != role {
		s.logger.Warn("dropping user reference with wrong role",
			zap.Uint("user_id", *userID),
			zap.String("have", string(user.Role)),
			zap.String("want", string(role)))
		return nil
	}
	return userID
}

func (s *SessionService) saveSession(ctx context.Context, session *domain.CollectionSession, expectedVersion *int) error {
	if expectedVersion != nil {
		affected, err := s.sessionRepo.UpdateChecked(ctx, session, *expectedVersion)
		if err != nil {
			return fmt.Errorf("updating session: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("session %s at version %d: %w", session.SessionNumber, *expectedVersion, ErrVersionConflict)
		}
		return nil
	}

	session.Version++
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	return nil
}

// parseTimestamp accepts RFC 3339 or a bare YYYY-MM-DD date and normalizes to
// UTC
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
