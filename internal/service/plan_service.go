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

const planDateLayout = "2006-01-02"

// PlanService manages weekly plan slots: batch submission, range queries,
// outcome recording and deferred resource assignment.
type PlanService struct {
	db           *gorm.DB
	planRepo     *repository.PlanRepository
	supplierRepo *repository.SupplierRepository
	userRepo     *repository.UserRepository
	logger       *zap.Logger
}

func NewPlanService(
	db *gorm.DB,
	planRepo *repository.PlanRepository,
	supplierRepo *repository.SupplierRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *PlanService {
	return &PlanService{
		db:           db,
		planRepo:     planRepo,
		supplierRepo: supplierRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

type planKey struct {
	supplierID uint
	date       string
	mode       domain.CollectionMode
}

// SubmitPlans validates every entry of the batch before inserting any of
// them. The insert runs in a single transaction, so a failure at any index
// leaves the store untouched; the response names the first offending entry.
func (s *PlanService) SubmitPlans(ctx context.Context, req *domain.SubmitPlansRequest) (*domain.SubmitPlansResponse, error) {
	fail := func(index int, reason string, sentinel error) (*domain.SubmitPlansResponse, error) {
		idx := index
		return &domain.SubmitPlansResponse{FailedIndex: &idx, Reason: reason},
			fmt.Errorf("plan entry %d: %s: %w", index, reason, sentinel)
	}

	slots := make([]domain.WeeklyPlanSlot, 0, len(req.Plans))
	seen := make(map[planKey]struct{}, len(req.Plans))

	for i, entry := range req.Plans {
		mode, ok := domain.ParseCollectionMode(entry.Mode)
		if !ok {
			return fail(i, fmt.Sprintf("unknown collection mode %q", entry.Mode), ErrInvalidInput)
		}

		planDate, err := time.ParseInLocation(planDateLayout, entry.Date, time.UTC)
		if err != nil {
			return fail(i, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", entry.Date), ErrInvalidInput)
		}

		supplier, err := s.supplierRepo.GetByID(ctx, entry.SupplierID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(i, fmt.Sprintf("supplier %d not found", entry.SupplierID), ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("looking up supplier %d: %w", entry.SupplierID, err)
		}
		if !supplier.IsActive {
			return fail(i, fmt.Sprintf("supplier %q is inactive", supplier.Name), ErrSupplierInactive)
		}

		key := planKey{supplierID: entry.SupplierID, date: entry.Date, mode: mode}
		if _, dup := seen[key]; dup {
			return fail(i, "duplicate supplier/date/mode within the batch", ErrDuplicateSlot)
		}
		seen[key] = struct{}{}

		exists, err := s.planRepo.ExistsForKey(ctx, entry.SupplierID, planDate, mode)
		if err != nil {
			return nil, fmt.Errorf("checking existing plan: %w", err)
		}
		if exists {
			return fail(i, "a plan already exists for this supplier, date and mode", ErrDuplicateSlot)
		}

		slots = append(slots, domain.WeeklyPlanSlot{
			SupplierID: entry.SupplierID,
			PlanDate:   planDate,
			Weekday:    entry.Day,
			Mode:       mode,
			Note:       entry.Note,
			Status:     domain.PlanStatusScheduled,
			CreatedBy:  req.SubmittedBy,
			Version:    1,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range slots {
			if err := s.planRepo.CreateTx(tx, &slots[i]); err != nil {
				return fmt.Errorf("inserting plan entry %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("weekly plan batch accepted",
		zap.Int("entries", len(slots)),
		zap.String("submitted_by", req.SubmittedBy))

	return &domain.SubmitPlansResponse{Accepted: len(slots)}, nil
}

// QueryRange returns slots with plan_date inside the inclusive range
func (s *PlanService) QueryRange(ctx context.Context, start, end time.Time) ([]domain.WeeklyPlanSlot, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("range end before start: %w", ErrInvalidInput)
	}
	slots, err := s.planRepo.ListRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying plan range: %w", err)
	}
	return slots, nil
}

func (s *PlanService) GetByID(ctx context.Context, id uint) (*domain.WeeklyPlanSlot, error) {
	slot, err := s.planRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading plan slot: %w", err)
	}
	return slot, nil
}

// SetOutcome records the terminal outcome of a slot. Completion requires a
// recorded total; rejection requires a reason and clears the total.
func (s *PlanService) SetOutcome(ctx context.Context, id uint, req *domain.PlanOutcomeRequest) (*domain.WeeklyPlanSlot, error) {
	slot, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if slot.Status.IsOutcome() {
		return nil, fmt.Errorf("slot %d already has outcome %s: %w", id, slot.Status, ErrTerminalState)
	}

	outcome := domain.PlanStatus(req.Status)
	if !outcome.IsOutcome() {
		return nil, fmt.Errorf("status %q is not an outcome: %w", req.Status, ErrInvalidInput)
	}

	switch outcome {
	case domain.PlanStatusCompleted:
		if req.TotalCollectionKg == nil || *req.TotalCollectionKg < 0 {
			return nil, fmt.Errorf("completed outcome requires a non-negative total: %w", ErrInvalidInput)
		}
		slot.TotalCollectionKg = req.TotalCollectionKg
		slot.RejectionReason = nil
	case domain.PlanStatusRejected:
		if req.RejectionReason == nil || *req.RejectionReason == "" {
			return nil, fmt.Errorf("rejecting slot %d: %w", id, ErrMissingReason)
		}
		slot.RejectionReason = req.RejectionReason
		slot.TotalCollectionKg = nil
	case domain.PlanStatusNotCompleted:
		slot.TotalCollectionKg = nil
	}
	slot.Status = outcome
	if req.Note != nil {
		slot.Note = *req.Note
	}

	if err := s.saveSlot(ctx, slot, req.Version); err != nil {
		return nil, err
	}
	return slot, nil
}

// AssignResource attaches the mode-appropriate resource to a slot after the
// batch has been submitted. Instore slots take a coordinator, Regular slots a
// driver; assigning the wrong kind is rejected.
func (s *PlanService) AssignResource(ctx context.Context, id uint, req *domain.AssignResourceRequest) (*domain.WeeklyPlanSlot, error) {
	slot, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if slot.Status.IsOutcome() {
		return nil, fmt.Errorf("slot %d already has outcome %s: %w", id, slot.Status, ErrTerminalState)
	}

	switch slot.Mode {
	case domain.ModeInstore:
		if req.CoordinatorID == nil || req.DriverID != nil {
			return nil, fmt.Errorf("instore slots take a coordinator: %w", ErrInvalidInput)
		}
		if err := s.checkRole(ctx, *req.CoordinatorID, domain.RoleCoordinator); err != nil {
			return nil, err
		}
		slot.CoordinatorID = req.CoordinatorID
		slot.DriverID = nil
	case domain.ModeRegular:
		if req.DriverID == nil || req.CoordinatorID != nil {
			return nil, fmt.Errorf("regular slots take a driver: %w", ErrInvalidInput)
		}
		if err := s.checkRole(ctx, *req.DriverID, domain.RoleDriver); err != nil {
			return nil, err
		}
		slot.DriverID = req.DriverID
		slot.CoordinatorID = nil
	}

	if err := s.saveSlot(ctx, slot, nil); err != nil {
		return nil, err
	}

	// Reload so the response names the freshly assigned resource
	return s.GetByID(ctx, slot.ID)
}

// DeleteDraft removes a slot that is still a draft. Scheduled and concluded
// slots are historical records and cannot be deleted.
func (s *PlanService) DeleteDraft(ctx context.Context, id uint) error {
	slot, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot.Status != domain.PlanStatusDraft {
		return fmt.Errorf("slot %d has status %s: %w", id, slot.Status, ErrSlotNotDraft)
	}
	if err := s.planRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting plan slot: %w", err)
	}
	return nil
}

func (s *PlanService) checkRole(ctx context.Context, userID uint, role domain.UserRole) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("looking up user %d: %w", userID, err)
	}
	if user.Role != role {
		return fmt.Errorf("user %d has role %s, need %s: %w", userID, user.Role, role, ErrRoleMismatch)
	}
	return nil
}

// saveSlot persists the slot, using the optimistic version check when the
// caller supplied one and last-write-wins otherwise.
func (s *PlanService) saveSlot(ctx context.Context, slot *domain.WeeklyPlanSlot, expectedVersion *int) error {
	if expectedVersion != nil {
		affected, err := s.planRepo.UpdateChecked(ctx, slot, *expectedVersion)
		if err != nil {
			return fmt.Errorf("updating plan slot: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("plan slot %d at version %d: %w", slot.ID, *expectedVersion, ErrVersionConflict)
		}
		return nil
	}

	slot.Version++
	if err := s.planRepo.Update(ctx, slot); err != nil {
		return fmt.Errorf("updating plan slot: %w", err)
	}
	return nil
}
