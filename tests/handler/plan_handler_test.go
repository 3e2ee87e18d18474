package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/andemamma/collection-api/internal/auth"
	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/http/handler"
	"github.com/andemamma/collection-api/internal/repository"
	"github.com/andemamma/collection-api/internal/service"
	"github.com/andemamma/collection-api/tests/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createPlanHandler(db *gorm.DB) *handler.PlanHandler {
	logger := zap.NewNop()
	planRepo := repository.NewPlanRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	userRepo := repository.NewUserRepository(db)
	planService := service.NewPlanService(db, planRepo, supplierRepo, userRepo, logger)
	return handler.NewPlanHandler(planService, logger)
}

func createPlannerContext() context.Context {
	userCtx := &auth.UserContext{
		UserID:      "user-42",
		DisplayName: "Meron Haile",
		Role:        "planner",
	}
	return auth.WithUserContext(context.Background(), userCtx)
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	require.NoError(t, err)
	return date
}

// withIDParam injects a chi route context so chi.URLParam resolves in handlers
// invoked outside a router
func withIDParam(req *http.Request, id uint) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", strconv.FormatUint(uint64(id), 10))
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPlanHandler_Submit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createPlanHandler(db)
	ctx := createPlannerContext()

	supplier := testutil.CreateTestSupplier(t, db, "Selam Printing PLC")

	t.Run("submit valid batch", func(t *testing.T) {
		reqBody := domain.SubmitPlansRequest{
			Plans: []domain.PlanEntryRequest{
				{SupplierID: supplier.ID, Day: "Monday", Date: "2026-09-07", Mode: "instore"},
				{SupplierID: supplier.ID, Day: "Wednesday", Date: "2026-09-09", Mode: "regular"},
			},
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest(http.MethodPost, "/weekly-plans", bytes.NewReader(body))
		req = req.WithContext(ctx)
		req.Header.Set("Content-Type", "application/json")

		rr := httptest.NewRecorder()
		h.Submit(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var result domain.SubmitPlansResponse
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Equal(t, 2, result.Accepted)
		assert.Nil(t, result.FailedIndex)

		// SubmittedBy falls back to the authenticated display name
		var slot domain.WeeklyPlanSlot
		require.NoError(t, db.Where("supplier_id = ?", supplier.ID).First(&slot).Error)
		assert.Equal(t, "Meron Haile", slot.CreatedBy)
		assert.Equal(t, domain.PlanStatusScheduled, slot.Status)
	})

	t.Run("submit with invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/weekly-plans", bytes.NewReader([]byte("not json")))
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Submit(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("submit with empty batch", func(t *testing.T) {
		body, _ := json.Marshal(domain.SubmitPlansRequest{Plans: []domain.PlanEntryRequest{}})

		req := httptest.NewRequest(http.MethodPost, "/weekly-plans", bytes.NewReader(body))
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Submit(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("submit with unknown supplier names the entry", func(t *testing.T) {
		reqBody := domain.SubmitPlansRequest{
			Plans: []domain.PlanEntryRequest{
				{SupplierID: supplier.ID, Day: "Tuesday", Date: "2026-09-15", Mode: "instore"},
				{SupplierID: 9999, Day: "Tuesday", Date: "2026-09-15", Mode: "regular"},
			},
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest(http.MethodPost, "/weekly-plans", bytes.NewReader(body))
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Submit(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var result domain.SubmitPlansResponse
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		require.NotNil(t, result.FailedIndex)
		assert.Equal(t, 1, *result.FailedIndex)

		// The batch is atomic, the first entry must not have been inserted
		var count int64
		db.Model(&domain.WeeklyPlanSlot{}).Where("plan_date = ?", mustDate(t, "2026-09-15")).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("submit duplicate of stored slot conflicts", func(t *testing.T) {
		reqBody := domain.SubmitPlansRequest{
			Plans: []domain.PlanEntryRequest{
				{SupplierID: supplier.ID, Day: "Monday", Date: "2026-09-07", Mode: "instore"},
			},
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest(http.MethodPost, "/weekly-plans", bytes.NewReader(body))
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Submit(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)

		var result domain.SubmitPlansResponse
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		require.NotNil(t, result.FailedIndex)
		assert.Equal(t, 0, *result.FailedIndex)
	})
}

func TestPlanHandler_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createPlanHandler(db)
	ctx := createPlannerContext()

	supplier := testutil.CreateTestSupplier(t, db, "Abyssinia Bank HQ")

	reqBody := domain.SubmitPlansRequest{
		Plans: []domain.PlanEntryRequest{
			{SupplierID: supplier.ID, Day: "Monday", Date: "2026-09-07", Mode: "instore"},
			{SupplierID: supplier.ID, Day: "Friday", Date: "2026-09-11", Mode: "regular"},
		},
		SubmittedBy: "seed",
	}
	body, _ := json.Marshal(reqBody)
	seed := httptest.NewRequest(http.MethodPost, "/weekly-plans", bytes.NewReader(body))
	seed = seed.WithContext(ctx)
	seedRR := httptest.NewRecorder()
	h.Submit(seedRR, seed)
	require.Equal(t, http.StatusCreated, seedRR.Code)

	t.Run("list slots in range", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/weekly-plans?start=2026-09-07&end=2026-09-13", nil)
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result []domain.WeeklyPlanSlotDTO
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, "Abyssinia Bank HQ", result[0].SupplierName)
	})

	t.Run("list outside range is empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/weekly-plans?start=2026-10-01&end=2026-10-07", nil)
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result []domain.WeeklyPlanSlotDTO
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Len(t, result, 0)
	})

	t.Run("list without range parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/weekly-plans", nil)
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list with malformed date", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/weekly-plans?start=07-09-2026&end=2026-09-13", nil)
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestPlanHandler_SetOutcome(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createPlanHandler(db)
	ctx := createPlannerContext()

	supplier := testutil.CreateTestSupplier(t, db, "Zemen Paper Traders")

	submitSlot := func(t *testing.T, date string) uint {
		t.Helper()
		body, _ := json.Marshal(domain.SubmitPlansRequest{
			Plans:       []domain.PlanEntryRequest{{SupplierID: supplier.ID, Day: "Monday", Date: date, Mode: "instore"}},
			SubmittedBy: "seed",
		})
		req := httptest.NewRequest(http.MethodPost, "/weekly-plans", bytes.NewReader(body))
		req = req.WithContext(ctx)
		rr := httptest.NewRecorder()
		h.Submit(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code)

		var slot domain.WeeklyPlanSlot
		require.NoError(t, db.Where("plan_date = ?", mustDate(t, date)).First(&slot).Error)
		return slot.ID
	}

	t.Run("record completed outcome", func(t *testing.T) {
		id := submitSlot(t, "2026-09-07")
		total := 450.0
		body, _ := json.Marshal(domain.PlanOutcomeRequest{Status: "completed", TotalCollectionKg: &total})

		req := httptest.NewRequest(http.MethodPatch, "/weekly-plans/1/outcome", bytes.NewReader(body))
		req = withIDParam(req.WithContext(ctx), id)

		rr := httptest.NewRecorder()
		h.SetOutcome(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.WeeklyPlanSlotDTO
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Equal(t, domain.PlanStatusCompleted, result.Status)
		require.NotNil(t, result.TotalCollectionKg)
		assert.Equal(t, 450.0, *result.TotalCollectionKg)
	})

	t.Run("rejection without reason", func(t *testing.T) {
		id := submitSlot(t, "2026-09-08")
		body, _ := json.Marshal(domain.PlanOutcomeRequest{Status: "rejected"})

		req := httptest.NewRequest(http.MethodPatch, "/weekly-plans/2/outcome", bytes.NewReader(body))
		req = withIDParam(req.WithContext(ctx), id)

		rr := httptest.NewRecorder()
		h.SetOutcome(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("second outcome is rejected", func(t *testing.T) {
		id := submitSlot(t, "2026-09-09")
		total := 100.0
		body, _ := json.Marshal(domain.PlanOutcomeRequest{Status: "completed", TotalCollectionKg: &total})

		req := httptest.NewRequest(http.MethodPatch, "/weekly-plans/3/outcome", bytes.NewReader(body))
		req = withIDParam(req.WithContext(ctx), id)
		rr := httptest.NewRecorder()
		h.SetOutcome(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		body2, _ := json.Marshal(domain.PlanOutcomeRequest{Status: "not_completed"})
		req2 := httptest.NewRequest(http.MethodPatch, "/weekly-plans/3/outcome", bytes.NewReader(body2))
		req2 = withIDParam(req2.WithContext(ctx), id)
		rr2 := httptest.NewRecorder()
		h.SetOutcome(rr2, req2)

		assert.Equal(t, http.StatusUnprocessableEntity, rr2.Code)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		id := submitSlot(t, "2026-09-10")
		stale := 99
		total := 50.0
		body, _ := json.Marshal(domain.PlanOutcomeRequest{Status: "completed", TotalCollectionKg: &total, Version: &stale})

		req := httptest.NewRequest(http.MethodPatch, "/weekly-plans/4/outcome", bytes.NewReader(body))
		req = withIDParam(req.WithContext(ctx), id)
		rr := httptest.NewRecorder()
		h.SetOutcome(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("outcome for missing slot", func(t *testing.T) {
		body, _ := json.Marshal(domain.PlanOutcomeRequest{Status: "not_completed"})

		req := httptest.NewRequest(http.MethodPatch, "/weekly-plans/9999/outcome", bytes.NewReader(body))
		req = withIDParam(req.WithContext(ctx), 9999)
		rr := httptest.NewRecorder()
		h.SetOutcome(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPlanHandler_AssignResource(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createPlanHandler(db)
	ctx := createPlannerContext()

	supplier := testutil.CreateTestSupplier(t, db, "Hibret Schools")
	coordinator := testutil.CreateTestUser(t, db, domain.RoleCoordinator, "Sara", "Bekele")
	driver := testutil.CreateTestUser(t, db, domain.RoleDriver, "Dawit", "Alemu")

	body, _ := json.Marshal(domain.SubmitPlansRequest{
		Plans: []domain.PlanEntryRequest{
			{SupplierID: supplier.ID, Day: "Monday", Date: "2026-09-07", Mode: "instore"},
			{SupplierID: supplier.ID, Day: "Monday", Date: "2026-09-07", Mode: "regular"},
		},
		SubmittedBy: "seed",
	})
	seed := httptest.NewRequest(http.MethodPost, "/weekly-plans", bytes.NewReader(body))
	seed = seed.WithContext(ctx)
	seedRR := httptest.NewRecorder()
	h.Submit(seedRR, seed)
	require.Equal(t, http.StatusCreated, seedRR.Code)

	var instoreSlot, regularSlot domain.WeeklyPlanSlot
	require.NoError(t, db.Where("mode = ?", domain.ModeInstore).First(&instoreSlot).Error)
	require.NoError(t, db.Where("mode = ?", domain.ModeRegular).First(&regularSlot).Error)

	t.Run("assign coordinator to instore slot", func(t *testing.T) {
		reqBody, _ := json.Marshal(domain.AssignResourceRequest{CoordinatorID: &coordinator.ID})

		req := httptest.NewRequest(http.MethodPatch, "/weekly-plans/1/resource", bytes.NewReader(reqBody))
		req = withIDParam(req.WithContext(ctx), instoreSlot.ID)
		rr := httptest.NewRecorder()
		h.AssignResource(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.WeeklyPlanSlotDTO
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		require.NotNil(t, result.CoordinatorID)
		assert.Equal(t, coordinator.ID, *result.CoordinatorID)
		assert.Equal(t, "Sara Bekele", result.CoordinatorName)
	})

	t.Run("driver on instore slot is rejected", func(t *testing.T) {
		reqBody, _ := json.Marshal(domain.AssignResourceRequest{DriverID: &driver.ID})

		req := httptest.NewRequest(http.MethodPatch, "/weekly-plans/1/resource", bytes.NewReader(reqBody))
		req = withIDParam(req.WithContext(ctx), instoreSlot.ID)
		rr := httptest.NewRecorder()
		h.AssignResource(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("coordinator role required for instore", func(t *testing.T) {
		reqBody, _ := json.Marshal(domain.AssignResourceRequest{CoordinatorID: &driver.ID})

		req := httptest.NewRequest(http.MethodPatch, "/weekly-plans/1/resource", bytes.NewReader(reqBody))
		req = withIDParam(req.WithContext(ctx), instoreSlot.ID)
		rr := httptest.NewRecorder()
		h.AssignResource(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("assign driver to regular slot", func(t *testing.T) {
		reqBody, _ := json.Marshal(domain.AssignResourceRequest{DriverID: &driver.ID})

		req := httptest.NewRequest(http.MethodPatch, "/weekly-plans/2/resource", bytes.NewReader(reqBody))
		req = withIDParam(req.WithContext(ctx), regularSlot.ID)
		rr := httptest.NewRecorder()
		h.AssignResource(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.WeeklyPlanSlotDTO
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		require.NotNil(t, result.DriverID)
		assert.Equal(t, driver.ID, *result.DriverID)
	})
}

func TestPlanHandler_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createPlanHandler(db)
	ctx := createPlannerContext()

	supplier := testutil.CreateTestSupplier(t, db, "Mercato Stationers")

	t.Run("delete draft slot", func(t *testing.T) {
		slot := &domain.WeeklyPlanSlot{
			SupplierID: supplier.ID,
			PlanDate:   mustDate(t, "2026-09-07"),
			Weekday:    "Monday",
			Mode:       domain.ModeInstore,
			Status:     domain.PlanStatusDraft,
			Version:    1,
		}
		require.NoError(t, db.Create(slot).Error)

		req := httptest.NewRequest(http.MethodDelete, "/weekly-plans/1", nil)
		req = withIDParam(req.WithContext(ctx), slot.ID)
		rr := httptest.NewRecorder()
		h.Delete(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)

		var count int64
		db.Model(&domain.WeeklyPlanSlot{}).Where("id = ?", slot.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("scheduled slot cannot be deleted", func(t *testing.T) {
		slot := &domain.WeeklyPlanSlot{
			SupplierID: supplier.ID,
			PlanDate:   mustDate(t, "2026-09-08"),
			Weekday:    "Tuesday",
			Mode:       domain.ModeInstore,
			Status:     domain.PlanStatusScheduled,
			Version:    1,
		}
		require.NoError(t, db.Create(slot).Error)

		req := httptest.NewRequest(http.MethodDelete, "/weekly-plans/2", nil)
		req = withIDParam(req.WithContext(ctx), slot.ID)
		rr := httptest.NewRecorder()
		h.Delete(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("delete with invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/weekly-plans/abc", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "abc")
		req = req.WithContext(context.WithValue(ctx, chi.RouteCtxKey, rctx))
		rr := httptest.NewRecorder()
		h.Delete(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
