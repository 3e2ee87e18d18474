package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/repository"
	"github.com/andemamma/collection-api/internal/service"
	"github.com/andemamma/collection-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSessionService(t *testing.T) (*service.SessionService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sessionRepo := repository.NewSessionRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	userRepo := repository.NewUserRepository(db)
	numbers := service.NewNumberService(repository.NewNumberSequenceRepository(db))
	orders := service.NewOrderService(repository.NewOrderRepository(db), zap.NewNop())
	return service.NewSessionService(sessionRepo, supplierRepo, userRepo, numbers, orders, service.DefaultScoringConfig(), zap.NewNop()), db
}

func createSessionReq(supplierID uint) *domain.CreateSessionRequest {
	return &domain.CreateSessionRequest{
		SupplierID:         supplierID,
		SiteLocation:       "Bole, Addis Ababa",
		EstimatedStartDate: "2026-09-07",
		EstimatedEndDate:   "2026-09-09",
		EstimatedAmountKg:  1000,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateSession_StartsOnProcessWithGeneratedNumber(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")

	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStatusOnProcess, session.Status)
	expected := fmt.Sprintf("CS-%d-001", time.Now().UTC().Year())
	assert.Equal(t, expected, session.SessionNumber)
	assert.Empty(t, session.CollectionData)
	assert.Empty(t, session.Problems)
	assert.Zero(t, session.Performance.Efficiency)
	assert.Equal(t, 1, session.Version)
}

func TestCreateSession_SequenceIncrements(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")

	first, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("CS-%d-001", year), first.SessionNumber)
	assert.Equal(t, fmt.Sprintf("CS-%d-002", year), second.SessionNumber)
}

func TestCreateSession_UnknownCoordinatorDroppedNotFatal(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")

	req := createSessionReq(supplier.ID)
	unknown := uint(9999)
	req.CoordinatorID = &unknown

	session, err := svc.Create(context.Background(), req)
	require.NoError(t, err, "unknown coordinator must degrade, not fail")
	assert.Nil(t, session.CoordinatorID)
}

func TestCreateSession_WrongRoleCoordinatorDropped(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	driver := testutil.CreateTestUser(t, db, domain.RoleDriver, "Dawit", "Mekonnen")

	req := createSessionReq(supplier.ID)
	req.CoordinatorID = &driver.ID

	session, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, session.CoordinatorID)
}

func TestCreateSession_UnknownSupplierFails(t *testing.T) {
	svc, _ := newSessionService(t)

	_, err := svc.Create(context.Background(), createSessionReq(9999))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCreateSession_MovesOrderOnProcess(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")

	_, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	var order domain.StandingOrder
	require.NoError(t, db.First(&order, "supplier_id = ?", supplier.ID).Error)
	assert.Equal(t, domain.OrderStatusOnProcess, order.Status)
}

func TestUpdateSession_EmptyPatchRejected(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{})
	assert.ErrorIs(t, err, service.ErrEmptyPatch)
}

func TestUpdateSession_CompletionComputesPerformance(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		Status:         strPtr("completed"),
		CollectionData: domain.CollectionData{"carton": 600, "mixed": 400},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStatusCompleted, updated.Status)
	assert.Equal(t, 100.00, updated.Performance.Efficiency)
	assert.Equal(t, 1000.00, updated.Performance.TotalCollectionKg)
	assert.Equal(t, 100.00, updated.Performance.Quality)
}

func TestUpdateSession_CompletedSessionKeepsRecordedFigures(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		Status:         strPtr("completed"),
		CollectionData: domain.CollectionData{"carton": 500},
	})
	require.NoError(t, err)

	// Later patches may touch other fields but not the recorded figures
	updated, err := svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		SiteLocation:   strPtr("Kality, Addis Ababa"),
		CollectionData: domain.CollectionData{"carton": 9000},
	})
	require.NoError(t, err)

	assert.Equal(t, "Kality, Addis Ababa", updated.SiteLocation)
	assert.Equal(t, 500.00, updated.CollectionData["carton"])
	assert.Equal(t, 50.00, updated.Performance.Efficiency)
}

func TestUpdateSession_TerminalRejectsStatusChange(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		Status: strPtr("cancelled"),
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		Status: strPtr("onprocess"),
	})
	assert.ErrorIs(t, err, service.ErrTerminalState)
}

func TestUpdateSession_TerminalRejectsRepeatedTerminalStatus(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		Status: strPtr("cancelled"),
	})
	require.NoError(t, err)

	// Re-sending the terminal status is not a no-op
	_, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		Status: strPtr("cancelled"),
	})
	assert.ErrorIs(t, err, service.ErrTerminalState)
}

func TestCreateSession_ReturnsMaterializedRecord(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	marketer := testutil.CreateTestUser(t, db, domain.RoleMarketer, "Hana", "Girma")

	req := createSessionReq(supplier.ID)
	req.MarketerID = &marketer.ID

	session, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, session.Supplier)
	assert.Equal(t, "Mega Printing", session.Supplier.Name)
	require.NotNil(t, session.Marketer)
	assert.Equal(t, "Hana Girma", session.Marketer.FullName())
}

func TestGetSession_PreloadsRegistryReferences(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	marketer := testutil.CreateTestUser(t, db, domain.RoleMarketer, "Hana", "Girma")
	coordinator := testutil.CreateTestUser(t, db, domain.RoleCoordinator, "Sara", "Bekele")

	req := createSessionReq(supplier.ID)
	req.MarketerID = &marketer.ID
	req.CoordinatorID = &coordinator.ID
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	loaded, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Supplier)
	require.NotNil(t, loaded.Coordinator)
	require.NotNil(t, loaded.Marketer)
	assert.Equal(t, "Hana Girma", loaded.Marketer.FullName())
	assert.Equal(t, "Sara Bekele", loaded.Coordinator.FullName())
}

func TestUpdateSession_CompletionClosesOrder(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		Status:  strPtr("completed"),
		Comment: strPtr("smooth pickup"),
	})
	require.NoError(t, err)

	var order domain.StandingOrder
	require.NoError(t, db.First(&order, "supplier_id = ?", supplier.ID).Error)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	assert.Contains(t, order.AdditionalNotes, "smooth pickup")
}

func TestUpdateSession_StaleVersionConflicts(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	v1 := session.Version
	_, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		SiteLocation: strPtr("Kality"),
		Version:      &v1,
	})
	require.NoError(t, err)

	// Same version again: someone else already wrote
	_, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		SiteLocation: strPtr("Bole"),
		Version:      &v1,
	})
	assert.ErrorIs(t, err, service.ErrVersionConflict)
}

func TestUpdateSession_OmittedVersionLastWriteWins(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		SiteLocation: strPtr("Kality"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		SiteLocation: strPtr("Bole"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bole", updated.SiteLocation)
}

func TestUpdateSession_ProblemsReplaceStoredList(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	problems := []domain.ProblemNoteInput{
		{Description: "gate locked", ReportedBy: "coordinator"},
		{Description: "short staffed"},
	}
	updated, err := svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		Problems: &problems,
	})
	require.NoError(t, err)
	require.Len(t, updated.Problems, 2)
	assert.Equal(t, "gate locked", updated.Problems[0].Description)
	assert.False(t, updated.Problems[0].ReportedAt.IsZero())

	replacement := []domain.ProblemNoteInput{{Description: "resolved everything", Resolved: true}}
	updated, err = svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		Problems: &replacement,
	})
	require.NoError(t, err)
	require.Len(t, updated.Problems, 1)
}

func TestUpdateSession_OpenProblemLowersQualityAtCompletion(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	problems := []domain.ProblemNoteInput{{Description: "gate locked"}}
	updated, err := svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		Status:         strPtr("completed"),
		CollectionData: domain.CollectionData{"carton": 1000},
		Problems:       &problems,
	})
	require.NoError(t, err)
	assert.Equal(t, 80.00, updated.Performance.Quality)
}

func TestListSessions_FiltersByStatus(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")

	s1, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), s1.ID, &domain.UpdateSessionRequest{
		Status: strPtr("cancelled"),
	})
	require.NoError(t, err)

	status := domain.SessionStatusOnProcess
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	sessions, err := svc.List(context.Background(), repository.SessionFilters{
		Status: &status,
		From:   &from,
		To:     &to,
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.SessionStatusOnProcess, sessions[0].Status)
}

func TestUpdateSession_DatesNormalizedToUTC(t *testing.T) {
	svc, db := newSessionService(t)
	supplier := testutil.CreateTestSupplier(t, db, "Mega Printing")
	session, err := svc.Create(context.Background(), createSessionReq(supplier.ID))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), session.ID, &domain.UpdateSessionRequest{
		ActualStartDate: strPtr("2026-09-07T10:30:00+03:00"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ActualStartDate)
	assert.Equal(t, time.UTC, updated.ActualStartDate.Location())
	assert.Equal(t, 7, updated.ActualStartDate.Hour())
}
